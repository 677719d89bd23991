// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestGraph(t *testing.T) {
	a, b, c := hwtest.Link{Conn: 0}, hwtest.Link{Conn: 1}, hwtest.Link{Conn: 2}
	g := hwtest.NewGraph()
	g.AddEdge(a, b, 3)
	g.AddEdge(b, c, 4)
	g.AddEdge(b, c, 1)
	g.AddOutput("o", c)

	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Equal(t, []hwtest.Link{a, b, c}, order)

	ds, err := g.OutputDelays()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"o": 7}, ds)

	require.Equal(t, []error{&hwtest.CriticalPathError{Output: "o", Delay: 7, Bound: 6}}, g.Check(6))
	require.Empty(t, g.Check(7))

	g.AddEdge(c, a, 0)
	require.Equal(t, []error{hwtest.ErrCyclicCircuit}, g.Check(100))
}

func TestGraph_deterministic(t *testing.T) {
	g := hwtest.NewGraph()
	for i := 9; i > 0; i-- {
		g.AddEdge(hwtest.Link{Scope: i % 3, Conn: i}, hwtest.Link{Scope: 3, Conn: 0}, i)
	}
	o1, err := g.TopoSort()
	require.NoError(t, err)
	o2, _ := g.TopoSort()
	require.Equal(t, o1, o2)
	require.Equal(t, hwtest.Link{Scope: 0, Conn: 3}, o1[0])
	require.Equal(t, hwtest.Link{Scope: 3, Conn: 0}, o1[len(o1)-1])

	// a node released late still precedes larger ready nodes
	a, x, b := hwtest.Link{Conn: 0}, hwtest.Link{Conn: 1}, hwtest.Link{Conn: 2}
	g = hwtest.NewGraph()
	g.AddNode(b)
	g.AddEdge(a, x, 1)
	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Equal(t, []hwtest.Link{a, x, b}, order)
}

func TestGraph_dotEscape(t *testing.T) {
	m := hwcheck.NewModel(circuit(t, "top",
		[]hwcheck.Device{input(`a"\`, 1), output("o", 1)},
		wire{`a"\`, "out", "o", "in"},
	))
	g, err := hwtest.BuildGraph(m)
	require.NoError(t, err)
	var b strings.Builder
	require.NoError(t, g.WriteDot(&b))
	require.Contains(t, b.String(), `n0 [label="a\"\\.out -> o.in\n0"];`)
}

func TestCriticalPath_emptyModel(t *testing.T) {
	_, err := hwtest.BuildGraph(&hwcheck.Model{})
	require.Error(t, err)
	errs := hwtest.CriticalPath(&hwcheck.Model{}, 5)
	require.Len(t, errs, 1)
	require.EqualError(t, errs[0], "invalid model: empty model")
}

// chainModel instantiates a subcircuit holding a single inverter once per
// delay in ds, in series.
func chainModel(t *testing.T, ds ...int) *hwcheck.Model {
	top := circuit(t, "top", []hwcheck.Device{input("a", 1), output("o", 1)})
	m := hwcheck.NewModel(top)
	prev, port := "a", "out"
	for i, d := range ds {
		sub := circuit(t, "inv"+strconv.Itoa(i),
			[]hwcheck.Device{input("x", 1), gate("not", "Not", 1, d), output("z", 1)},
			wire{"x", "out", "not", "in"},
			wire{"not", "out", "z", "in"},
		)
		n := m.AddCircuit(sub)
		name := "u" + strconv.Itoa(i)
		require.NoError(t, top.Add(&hwcheck.Subcircuit{Base: hwcheck.Base{Label: name}, Circuit: n}))
		top.MustConnect(prev, port, name, "x")
		prev, port = name, "z"
	}
	top.MustConnect(prev, port, "o", "in")
	return m
}

func TestCriticalPath(t *testing.T) {
	require.Empty(t, hwtest.CriticalPath(andModel(t), 1))
	require.Equal(t, []error{&hwtest.CriticalPathError{Output: "o", Delay: 1, Bound: 0}}, hwtest.CriticalPath(andModel(t), 0))

	for _, ds := range [][]int{nil, {0}, {2}, {1, 2, 3}, {5, 0, 5, 1}} {
		sum := 0
		for _, d := range ds {
			sum += d
		}
		m := chainModel(t, ds...)
		g, err := hwtest.BuildGraph(m)
		require.NoError(t, err)
		out, err := g.OutputDelays()
		require.NoError(t, err)
		require.Equal(t, sum, out["o"], "%v", ds)
		require.Empty(t, hwtest.CriticalPath(m, sum))
		if sum > 0 {
			require.Len(t, hwtest.CriticalPath(m, sum-1), 1)
		}
	}
}

func TestCriticalPath_sharedDefinition(t *testing.T) {
	// two instances of the same circuit must not share nodes
	sub := circuit(t, "inv",
		[]hwcheck.Device{input("x", 1), gate("not", "Not", 1, 2), output("z", 1)},
		wire{"x", "out", "not", "in"},
		wire{"not", "out", "z", "in"},
	)
	top := circuit(t, "top", []hwcheck.Device{input("a", 1), output("o", 1), output("p", 1)})
	m := hwcheck.NewModel(top)
	n := m.AddCircuit(sub)
	require.NoError(t, top.Add(
		&hwcheck.Subcircuit{Base: hwcheck.Base{Label: "u0"}, Circuit: n},
		&hwcheck.Subcircuit{Base: hwcheck.Base{Label: "u1"}, Circuit: n},
	))
	top.MustConnect("a", "out", "u0", "x")
	top.MustConnect("u0", "z", "u1", "x")
	top.MustConnect("u0", "z", "o", "in")
	top.MustConnect("u1", "z", "p", "in")

	g, err := hwtest.BuildGraph(m)
	require.NoError(t, err)
	ds, err := g.OutputDelays()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"o": 2, "p": 4}, ds)

	var b strings.Builder
	require.NoError(t, g.WriteDot(&b))
	dot := b.String()
	require.True(t, strings.HasPrefix(dot, "digraph circuit {"))
	require.Contains(t, dot, "u1/not.out -> z.in")
	require.Contains(t, dot, "\"p\" [shape=plaintext]")
}

func TestCriticalPath_cyclic(t *testing.T) {
	errs := hwtest.CriticalPath(ringModel(t), 100)
	require.Len(t, errs, 1)
	require.Equal(t, hwtest.ErrCyclicCircuit, errors.Cause(errs[0]))

	f := fixture(t, counterModel(t, true), "clk, rst", "o[2]")
	r := f.TestCriticalPath(100)
	require.Equal(t, hwtest.ErrCyclicCircuit, r.Err)
}
