// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwtest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// primModel: o = !(a ^ b) through a subcircuit.
func primModel(t *testing.T) *hwcheck.Model {
	sub := circuit(t, "xor",
		[]hwcheck.Device{input("x", 1), input("y", 1), gate("xor", "Xor", 1, 1), output("z", 1)},
		wire{"x", "out", "xor", "in1"},
		wire{"y", "out", "xor", "in2"},
		wire{"xor", "out", "z", "in"},
	)
	top := circuit(t, "top",
		[]hwcheck.Device{input("a", 1), input("b", 1), gate("not", "Not", 1, 1), output("o", 1)},
	)
	m := hwcheck.NewModel(top)
	n := m.AddCircuit(sub)
	require.NoError(t, top.Add(&hwcheck.Subcircuit{Base: hwcheck.Base{Label: "u0"}, Circuit: n}))
	top.MustConnect("a", "out", "u0", "x")
	top.MustConnect("b", "out", "u0", "y")
	top.MustConnect("u0", "z", "not", "in")
	top.MustConnect("not", "out", "o", "in")
	require.NoError(t, m.Check())
	return m
}

func TestAuditPrimitives(t *testing.T) {
	m := primModel(t)
	data := []struct {
		name  string
		prims []string
		deny  bool
		want  []string
	}{
		{"allow gate", []string{"gate"}, false, nil},
		{"allow Not", []string{"Not"}, false, []string{"xor:xor:Xor"}},
		{"allow none", nil, false, []string{"top:not:Not", "xor:xor:Xor"}},
		{"deny gate", []string{"gate"}, true, []string{"top:not:Not", "xor:xor:Xor"}},
		{"deny Xor", []string{"Xor"}, true, []string{"xor:xor:Xor"}},
		{"deny base", []string{"Input", "Output"}, true, nil},
		{"deny mem", []string{"mem"}, true, nil},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			var got []string
			for _, err := range hwtest.AuditPrimitives(m, d.prims, d.deny) {
				pe, ok := err.(*hwtest.PrimitiveError)
				require.True(t, ok, "got %T", err)
				got = append(got, pe.Circuit+":"+pe.Device+":"+pe.Type)
			}
			if diff := cmp.Diff(d.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckMemoryPorts(t *testing.T) {
	rising := true
	top := circuit(t, "top", []hwcheck.Device{
		&hwcheck.Memory{
			Base:       hwcheck.Base{Label: "mem", Propagation: 1},
			Bits:       8,
			AddrBits:   4,
			ReadPorts:  []hwcheck.ReadPort{{Clocked: &rising}, {}},
			WritePorts: []hwcheck.WritePort{{Polarity: true}},
		},
	})
	m := hwcheck.NewModel(top)
	data := []struct {
		rd, wr int
		rt     hwtest.ReadType
		errs   int
	}{
		{2, 1, hwtest.ReadAny, 0},
		{-1, -1, hwtest.ReadAny, 0},
		{1, 1, hwtest.ReadAny, 1},
		{1, 0, hwtest.ReadAny, 2},
		{2, 1, hwtest.ReadSync, 1},
		{2, 1, hwtest.ReadAsync, 1},
		{0, 0, hwtest.ReadSync, 3},
	}
	for _, d := range data {
		t.Run(d.rt.String(), func(t *testing.T) {
			errs := hwtest.CheckMemoryPorts(m, d.rd, d.wr, d.rt)
			require.Len(t, errs, d.errs, "%v", errs)
			for _, err := range errs {
				me, ok := err.(*hwtest.MemoryPortError)
				require.True(t, ok)
				require.Equal(t, "mem", me.Device)
			}
		})
	}
}

func TestFixture_primitives(t *testing.T) {
	f := fixture(t, primModel(t), "a, b", "o")
	require.True(t, f.TestPrimitives([]string{"gate"}, false).Passed())
	r := f.TestPrimitives([]string{"Xor"}, true)
	require.False(t, r.Passed())
	require.IsType(t, &hwtest.PrimitiveError{}, r.Err)
	require.True(t, f.TestMemoryPorts(0, 0, hwtest.ReadAny).Passed())
}
