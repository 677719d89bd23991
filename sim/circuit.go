// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim provides an event driven, three-valued gate-level simulation
// engine for hwcheck models.
//
// Every wire carries a ternary.Vector, initially all X. When a device input
// changes, the device is evaluated and any output change is scheduled after the
// device's propagation delay. Step processes all the events of the earliest
// scheduled time, so that a circuit is settled once HasPendingEvents returns
// false.
//
// A Circuit is not safe for concurrent use. Use one Circuit per goroutine.
//
package sim

import (
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwlib"
	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

// A Component is a mounted device. It reads its inputs with Get and schedules
// output changes with Set.
//
type Component func(c *Circuit)

type event struct {
	wire int
	v    ternary.Vector
}

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	wires   []ternary.Vector // current wire values
	next    []ternary.Vector // last scheduled value of each wire
	readers [][]int          // wire -> components
	cs      []Component
	queue   *immutable.SortedMap // time -> []event
	dirty   []bool
	now     uint64
	steps   uint

	inputs  map[string]int
	outputs map[string]int
}

// New builds a new simulation of model m. Memories are not supported.
//
func New(m *hwcheck.Model) (*Circuit, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}
	c := &Circuit{
		queue:   immutable.NewSortedMap(&timeComparer{}),
		inputs:  make(map[string]int),
		outputs: make(map[string]int),
	}
	if err := newSocket(c, m, 0, nil, -1).mount(); err != nil {
		return nil, errors.Wrap(err, "failed to mount circuit")
	}
	c.dirty = make([]bool, len(c.cs))
	// initial evaluation: propagate constants and gates with undriven inputs.
	for _, f := range c.cs {
		f(c)
	}
	return c, nil
}

func (c *Circuit) allocWire(bits int) int {
	n := len(c.wires)
	c.wires = append(c.wires, ternary.Xes(bits))
	c.next = append(c.next, ternary.Xes(bits))
	c.readers = append(c.readers, nil)
	return n
}

func (c *Circuit) addComponent(ins []int, f Component) {
	n := len(c.cs)
	c.cs = append(c.cs, f)
	for _, w := range ins {
		c.readers[w] = append(c.readers[w], n)
	}
}

func (c *Circuit) schedule(t uint64, e event) {
	var evs []event
	if v, ok := c.queue.Get(t); ok {
		evs = v.([]event)
	}
	c.queue = c.queue.Set(t, append(evs, e))
}

// Get returns the current value of wire n.
//
func (c *Circuit) Get(n int) ternary.Vector {
	return c.wires[n]
}

// Set schedules wire n to change to v after delay time units. Nothing is
// scheduled if v is the value the wire is already heading to.
//
func (c *Circuit) Set(n int, v ternary.Vector, delay int) {
	if v.Equal(c.next[n]) {
		return
	}
	c.next[n] = v
	c.schedule(c.now+uint64(delay), event{n, v})
}

// SetInput drives the named top level Input device. The change is applied by
// the next call to Step. It panics if there is no such input or if the width
// of v does not match.
//
func (c *Circuit) SetInput(name string, v ternary.Vector) {
	n, ok := c.inputs[name]
	if !ok {
		panic("input " + name + " does not exist")
	}
	if v.Width() != c.wires[n].Width() {
		panic("input " + name + ": width mismatch")
	}
	c.Set(n, v, 0)
}

// Output returns the current value of the named top level Output device. It
// panics if there is no such output.
//
func (c *Circuit) Output(name string) ternary.Vector {
	n, ok := c.outputs[name]
	if !ok {
		panic("output " + name + " does not exist")
	}
	return c.wires[n]
}

// HasPendingEvents returns true if some wire changes are scheduled.
//
func (c *Circuit) HasPendingEvents() bool {
	return c.queue.Len() > 0
}

// Step advances the simulation to the earliest scheduled time, applies all
// wire changes scheduled at that time and evaluates the affected components.
//
func (c *Circuit) Step() {
	itr := c.queue.Iterator()
	itr.First()
	if itr.Done() {
		return
	}
	k, v := itr.Next()
	t, evs := k.(uint64), v.([]event)
	c.queue = c.queue.Delete(t)
	c.now = t
	c.steps++

	var run []int
	for _, e := range evs {
		if c.wires[e.wire].Equal(e.v) {
			continue
		}
		c.wires[e.wire] = e.v
		for _, r := range c.readers[e.wire] {
			if !c.dirty[r] {
				c.dirty[r] = true
				run = append(run, r)
			}
		}
	}
	sort.Ints(run)
	for _, r := range run {
		c.dirty[r] = false
		c.cs[r](c)
	}
}

// Steps returns the number of steps run so far.
//
func (c *Circuit) Steps() uint { return c.steps }

// Time returns the current simulation time.
//
func (c *Circuit) Time() uint64 { return c.now }

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

// Inputs returns the names of the top level inputs.
//
func (c *Circuit) Inputs() []string { return sortedKeys(c.inputs) }

// Outputs returns the names of the top level outputs.
//
func (c *Circuit) Outputs() []string { return sortedKeys(c.outputs) }

func sortedKeys(m map[string]int) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (s *socket) mountDff(i int, d *hwcheck.Dff) error {
	ins, err := s.inputs(i, d)
	if err != nil {
		return err
	}
	out, err := s.Pin(hwcheck.Endpoint{Device: i, Port: "out"}, d.Bits)
	if err != nil {
		return err
	}
	in, clk := ins[0], ins[1]
	pol, delay := d.Polarity, d.Delay()
	// only the clock triggers a flip flop
	last := ternary.Xes(1)
	s.c.addComponent([]int{clk}, func(c *Circuit) {
		cur := c.Get(clk)
		if hwlib.Edge(last, cur, pol) {
			c.Set(out, c.Get(in), delay)
		}
		last = cur
	})
	return nil
}

// timeComparer orders simulation times. Implements immutable.Comparer.
type timeComparer struct{}

func (*timeComparer) Compare(a, b interface{}) int {
	if i, j := a.(uint64), b.(uint64); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
