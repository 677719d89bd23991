// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwtest"
	"github.com/db47h/hwcheck/sim"
	"github.com/db47h/hwcheck/ternary"
	"github.com/stretchr/testify/require"
)

func input(name string, bits int) *hwcheck.IO {
	return &hwcheck.IO{Base: hwcheck.Base{Label: name}, Net: name, Bits: bits}
}

func output(name string, bits int) *hwcheck.IO {
	return &hwcheck.IO{Base: hwcheck.Base{Label: name}, Output: true, Net: name, Bits: bits}
}

func gate(name, op string, bits, delay int) *hwcheck.Gate {
	return &hwcheck.Gate{Base: hwcheck.Base{Label: name, Propagation: delay}, Op: op, Bits: bits}
}

func mux(name string, bits, sel int) *hwcheck.Gate {
	return &hwcheck.Gate{Base: hwcheck.Base{Label: name, Propagation: 1}, Op: "Mux", Bits: bits, SelBits: sel}
}

func constant(name, value string) *hwcheck.Constant {
	return &hwcheck.Constant{Base: hwcheck.Base{Label: name, Propagation: 1}, Value: ternary.MustParse(value)}
}

func dff(name string, bits int, rising bool) *hwcheck.Dff {
	return &hwcheck.Dff{Base: hwcheck.Base{Label: name, Propagation: 1}, Bits: bits, Polarity: rising}
}

type wire struct {
	from, fromPort, to, toPort string
}

func circuit(t *testing.T, name string, ds []hwcheck.Device, ws ...wire) *hwcheck.Circuit {
	t.Helper()
	c := hwcheck.NewCircuit(name)
	require.NoError(t, c.Add(ds...))
	for _, w := range ws {
		require.NoError(t, c.Connect(w.from, w.fromPort, w.to, w.toPort))
	}
	return c
}

// andModel: o = a & b
func andModel(t *testing.T) *hwcheck.Model {
	return hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{input("a", 1), input("b", 1), gate("and", "And", 1, 1), output("o", 1)},
		wire{"a", "out", "and", "in1"},
		wire{"b", "out", "and", "in2"},
		wire{"and", "out", "o", "in"},
	))
}

// glitchModel: o = b & !b, with a slow inverter.
func glitchModel(t *testing.T) *hwcheck.Model {
	return hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{input("b", 1), gate("not", "Not", 1, 2), gate("and", "And", 1, 1), output("o", 1)},
		wire{"b", "out", "not", "in"},
		wire{"b", "out", "and", "in1"},
		wire{"not", "out", "and", "in2"},
		wire{"and", "out", "o", "in"},
	))
}

// counterModel: 2 bits counter with synchronous reset.
func counterModel(t *testing.T, rising bool) *hwcheck.Model {
	return hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{
			input("clk", 1), input("rst", 1),
			constant("one", "01"), constant("zero", "00"),
			gate("add", "Addition", 2, 1), mux("mux", 2, 1), dff("q", 2, rising),
			output("o", 2),
		},
		wire{"q", "out", "add", "in1"},
		wire{"one", "out", "add", "in2"},
		wire{"add", "out", "mux", "in0"},
		wire{"zero", "out", "mux", "in1"},
		wire{"rst", "out", "mux", "sel"},
		wire{"mux", "out", "q", "in"},
		wire{"clk", "out", "q", "clk"},
		wire{"q", "out", "o", "in"},
	))
}

func counterRef(in, prev hwtest.Vector) hwtest.Vector {
	if in.Value("rst").IsHigh() {
		return hwtest.V("o", "00")
	}
	return hwtest.NewVector(map[string]ternary.Vector{
		"o": prev.Value("o").Add(ternary.FromUint(2, 1)),
	})
}

// latchModel samples a on start. ready is low for one cycle after start.
func latchModel(t *testing.T) *hwcheck.Model {
	return hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{
			input("clk", 1), input("start", 1), input("a", 4),
			mux("mux", 4, 1), dff("q", 4, true),
			gate("nstart", "Not", 1, 1), dff("rdy", 1, true),
			output("o", 4), output("ready", 1),
		},
		wire{"q", "out", "mux", "in0"},
		wire{"a", "out", "mux", "in1"},
		wire{"start", "out", "mux", "sel"},
		wire{"mux", "out", "q", "in"},
		wire{"clk", "out", "q", "clk"},
		wire{"q", "out", "o", "in"},
		wire{"start", "out", "nstart", "in"},
		wire{"nstart", "out", "rdy", "in"},
		wire{"clk", "out", "rdy", "clk"},
		wire{"rdy", "out", "ready", "in"},
	))
}

// stuckModel never becomes ready again after a start request, until reset.
func stuckModel(t *testing.T) *hwcheck.Model {
	return hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{
			input("clk", 1), input("start", 1), input("rst", 1),
			gate("nstart", "Not", 1, 1), gate("and", "And", 1, 1),
			constant("one", "1"), mux("mux", 1, 1), dff("rdy", 1, true),
			output("ready", 1),
		},
		wire{"start", "out", "nstart", "in"},
		wire{"nstart", "out", "and", "in1"},
		wire{"rdy", "out", "and", "in2"},
		wire{"and", "out", "mux", "in0"},
		wire{"one", "out", "mux", "in1"},
		wire{"rst", "out", "mux", "sel"},
		wire{"mux", "out", "rdy", "in"},
		wire{"clk", "out", "rdy", "clk"},
		wire{"rdy", "out", "ready", "in"},
	))
}

// ringModel oscillates while en is high.
func ringModel(t *testing.T) *hwcheck.Model {
	return hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{input("en", 1), gate("nand", "Nand", 1, 1), output("o", 1)},
		wire{"en", "out", "nand", "in1"},
		wire{"nand", "out", "nand", "in2"},
		wire{"nand", "out", "o", "in"},
	))
}

func fixture(t *testing.T, m *hwcheck.Model, in, out string) *hwtest.Fixture {
	t.Helper()
	c, err := sim.New(m)
	require.NoError(t, err)
	f, err := hwtest.NewFixture(m, c, hwtest.MustParseInterface(in, out))
	require.NoError(t, err)
	return f
}

// deadEngine fails the test if used.
type deadEngine struct{ t *testing.T }

func (e deadEngine) SetInput(string, ternary.Vector) { e.t.Fatal("SetInput called") }
func (e deadEngine) Output(string) ternary.Vector    { e.t.Fatal("Output called"); return ternary.Vector{} }
func (e deadEngine) HasPendingEvents() bool          { e.t.Fatal("HasPendingEvents called"); return false }
func (e deadEngine) Step()                           { e.t.Fatal("Step called") }
