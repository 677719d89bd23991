// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwcheck

import (
	"github.com/db47h/hwcheck/hwlib"
	"github.com/pkg/errors"
)

// An Endpoint identifies a device pin within a circuit. Device is an index in
// Circuit.Devices.
//
type Endpoint struct {
	Device int
	Port   string
}

// A Connector is a wire from an output pin to an input pin. Fan-out is
// represented by several connectors sharing the same From endpoint.
//
type Connector struct {
	From, To Endpoint
}

// Circuit is a flat netlist: devices and the connectors between them.
// Hierarchy is expressed by Subcircuit devices referencing other circuits of
// the same Model.
//
type Circuit struct {
	Name    string
	Devices []Device
	Conns   []Connector

	index map[string]int
	in    map[int][]int // device -> inbound connectors
	out   map[int][]int // device -> outbound connectors
	drv   map[Endpoint]int
}

// NewCircuit returns a new empty circuit.
//
func NewCircuit(name string) *Circuit {
	return &Circuit{
		Name:  name,
		index: make(map[string]int),
		in:    make(map[int][]int),
		out:   make(map[int][]int),
		drv:   make(map[Endpoint]int),
	}
}

// Add adds devices to the circuit. Device names must be unique.
//
func (c *Circuit) Add(ds ...Device) error {
	for _, d := range ds {
		if d.Name() == "" {
			return errors.New(c.Name + ": empty device name")
		}
		if _, ok := c.index[d.Name()]; ok {
			return errors.New(c.Name + ": duplicate device name " + d.Name())
		}
		c.index[d.Name()] = len(c.Devices)
		c.Devices = append(c.Devices, d)
	}
	return nil
}

// Lookup returns the index of the named device.
//
func (c *Circuit) Lookup(name string) (int, bool) {
	n, ok := c.index[name]
	return n, ok
}

func hasPin(pins []hwlib.Pin, name string) bool {
	for _, p := range pins {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (c *Circuit) pinName(e Endpoint) string {
	return c.Devices[e.Device].Name() + "." + e.Port
}

// Connect wires output pin fromPort of device from to input pin toPort of
// device to. Pin names are checked for primitive devices; subcircuit pins are
// checked by Model.Check.
//
func (c *Circuit) Connect(from, fromPort, to, toPort string) error {
	fi, ok := c.index[from]
	if !ok {
		return errors.New(c.Name + ": unknown device " + from)
	}
	ti, ok := c.index[to]
	if !ok {
		return errors.New(c.Name + ": unknown device " + to)
	}
	f, t := Endpoint{fi, fromPort}, Endpoint{ti, toPort}
	if _, out := c.Devices[fi].Pins(); out != nil && !hasPin(out, fromPort) {
		return errors.New(c.pinName(f) + ": not an output pin")
	}
	if in, _ := c.Devices[ti].Pins(); in != nil && !hasPin(in, toPort) {
		return errors.New(c.pinName(t) + ": not an input pin")
	}
	if d, ok := c.drv[t]; ok {
		return errors.Wrap(errors.New("input pin already connected to "+c.pinName(c.Conns[d].From)), c.pinName(f)+":"+c.pinName(t))
	}
	n := len(c.Conns)
	c.Conns = append(c.Conns, Connector{f, t})
	c.drv[t] = n
	c.out[fi] = append(c.out[fi], n)
	c.in[ti] = append(c.in[ti], n)
	return nil
}

// MustConnect is like Connect but panics on error.
//
func (c *Circuit) MustConnect(from, fromPort, to, toPort string) {
	if err := c.Connect(from, fromPort, to, toPort); err != nil {
		panic(err)
	}
}

// Inbound returns the indices of the connectors ending at device d.
//
func (c *Circuit) Inbound(d int) []int { return c.in[d] }

// Outbound returns the indices of the connectors starting at device d.
//
func (c *Circuit) Outbound(d int) []int { return c.out[d] }

// Driver returns the index of the connector driving input pin e.
//
func (c *Circuit) Driver(e Endpoint) (int, bool) {
	n, ok := c.drv[e]
	return n, ok
}

// IO returns the boundary device for the given net and direction.
//
func (c *Circuit) IO(net string, output bool) (int, *IO) {
	for i, d := range c.Devices {
		if io, ok := d.(*IO); ok && io.Output == output && io.NetName() == net {
			return i, io
		}
	}
	return -1, nil
}

// A Model is a circuit hierarchy stored as an arena: Circuits[0] is the top
// level circuit, Subcircuit devices reference other entries by index.
//
type Model struct {
	Circuits []*Circuit
}

// NewModel returns a model with the given top level circuit.
//
func NewModel(top *Circuit) *Model {
	return &Model{Circuits: []*Circuit{top}}
}

// Top returns the top level circuit.
//
func (m *Model) Top() *Circuit { return m.Circuits[0] }

// AddCircuit adds a circuit definition to the arena and returns its index.
//
func (m *Model) AddCircuit(c *Circuit) int {
	m.Circuits = append(m.Circuits, c)
	return len(m.Circuits) - 1
}

// Lookup returns the index of the named circuit.
//
func (m *Model) Lookup(name string) (int, bool) {
	for i, c := range m.Circuits {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Check verifies that subcircuit references are valid and not recursive, and
// that connectors to subcircuit instances match the instantiated circuit's
// boundary devices. A model without circuits is invalid.
//
func (m *Model) Check() error {
	if len(m.Circuits) == 0 {
		return errors.New("empty model")
	}
	for _, c := range m.Circuits {
		for di, d := range c.Devices {
			sc, ok := d.(*Subcircuit)
			if !ok {
				continue
			}
			if sc.Circuit <= 0 || sc.Circuit >= len(m.Circuits) {
				return errors.Errorf("%s: subcircuit %s references invalid circuit %d", c.Name, sc.Label, sc.Circuit)
			}
			sub := m.Circuits[sc.Circuit]
			for _, n := range c.Inbound(di) {
				if _, io := sub.IO(c.Conns[n].To.Port, false); io == nil {
					return errors.New(c.pinName(c.Conns[n].To) + ": no such input in " + sub.Name)
				}
			}
			for _, n := range c.Outbound(di) {
				if _, io := sub.IO(c.Conns[n].From.Port, true); io == nil {
					return errors.New(c.pinName(c.Conns[n].From) + ": no such output in " + sub.Name)
				}
			}
		}
	}
	// recursive instantiation check
	const (
		white = iota
		grey
		black
	)
	state := make([]int, len(m.Circuits))
	var visit func(i int) error
	visit = func(i int) error {
		state[i] = grey
		for _, d := range m.Circuits[i].Devices {
			sc, ok := d.(*Subcircuit)
			if !ok {
				continue
			}
			switch state[sc.Circuit] {
			case grey:
				return errors.New("recursive subcircuit " + m.Circuits[sc.Circuit].Name)
			case white:
				if err := visit(sc.Circuit); err != nil {
					return errors.Wrap(err, m.Circuits[i].Name)
				}
			}
		}
		state[i] = black
		return nil
	}
	for i := range m.Circuits {
		if state[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}
