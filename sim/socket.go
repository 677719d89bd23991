// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

// A socket is one instance of a circuit of the model: the top level circuit
// or a subcircuit instance. It maps the circuit's pins to wire numbers.
//
type socket struct {
	c      *Circuit
	m      *hwcheck.Model
	def    *hwcheck.Circuit
	parent *socket
	inst   int             // Subcircuit device index in parent.def
	subs   map[int]*socket // Subcircuit device index -> instance
	pins   map[hwcheck.Endpoint]int
}

func newSocket(c *Circuit, m *hwcheck.Model, def int, parent *socket, inst int) *socket {
	s := &socket{
		c:      c,
		m:      m,
		def:    m.Circuits[def],
		parent: parent,
		inst:   inst,
		subs:   make(map[int]*socket),
		pins:   make(map[hwcheck.Endpoint]int),
	}
	for i, d := range s.def.Devices {
		if sc, ok := d.(*hwcheck.Subcircuit); ok {
			s.subs[i] = newSocket(c, m, sc.Circuit, s, i)
		}
	}
	return s
}

func (s *socket) pinName(e hwcheck.Endpoint) string {
	return s.def.Name + ":" + s.def.Devices[e.Device].Name() + "." + e.Port
}

// Pin returns the wire number for output pin e, allocating a new wire if
// needed. Subcircuit outputs and subcircuit inputs resolve to the wires of the
// devices driving them.
//
func (s *socket) Pin(e hwcheck.Endpoint, bits int) (int, error) {
	if n, ok := s.pins[e]; ok {
		if n < 0 {
			return 0, errors.New(s.pinName(e) + ": wire loop through subcircuit boundary")
		}
		return n, nil
	}
	s.pins[e] = -1
	var (
		n   int
		err error
	)
	switch d := s.def.Devices[e.Device].(type) {
	case *hwcheck.Subcircuit:
		sub := s.subs[e.Device]
		i, io := sub.def.IO(e.Port, true)
		if io == nil {
			return 0, errors.New(s.pinName(e) + ": no such subcircuit output")
		}
		n, err = sub.Driver(hwcheck.Endpoint{Device: i, Port: "in"}, io.Bits)
	case *hwcheck.IO:
		if s.parent == nil || d.Output {
			n = s.c.allocWire(bits)
			break
		}
		n, err = s.parent.Driver(hwcheck.Endpoint{Device: s.inst, Port: d.NetName()}, d.Bits)
	default:
		n = s.c.allocWire(bits)
	}
	if err != nil {
		delete(s.pins, e)
		return 0, err
	}
	if w := s.c.wires[n].Width(); w != bits {
		delete(s.pins, e)
		return 0, errors.Errorf("%s: width mismatch: wire has %d bits, pin has %d", s.pinName(e), w, bits)
	}
	s.pins[e] = n
	return n, nil
}

// Driver returns the wire number driving input pin e. Unconnected inputs are
// wired to a constant X.
//
func (s *socket) Driver(e hwcheck.Endpoint, bits int) (int, error) {
	cn, ok := s.def.Driver(e)
	if !ok {
		n := s.c.allocWire(bits)
		s.c.wires[n] = ternary.Xes(bits)
		return n, nil
	}
	from := s.def.Conns[cn].From
	width := bits
	if _, out := s.def.Devices[from.Device].Pins(); out != nil {
		for _, p := range out {
			if p.Name == from.Port {
				width = p.Bits
			}
		}
	}
	n, err := s.Pin(from, width)
	if err != nil {
		return 0, errors.Wrap(err, s.pinName(e))
	}
	if w := s.c.wires[n].Width(); w != bits {
		return 0, errors.Errorf("%s: width mismatch: driven by %d bits, pin has %d", s.pinName(e), w, bits)
	}
	return n, nil
}

// mount builds the components for all primitive devices of the socket and its
// subcircuit instances.
//
func (s *socket) mount() error {
	for i, d := range s.def.Devices {
		var err error
		switch d := d.(type) {
		case *hwcheck.Subcircuit:
			err = s.subs[i].mount()
		case *hwcheck.IO:
			if s.parent == nil {
				err = s.mountIO(i, d)
			}
		case *hwcheck.Constant:
			err = s.mountConstant(i, d)
		case *hwcheck.Gate:
			err = s.mountGate(i, d)
		case *hwcheck.Dff:
			err = s.mountDff(i, d)
		default:
			err = errors.New(d.Name() + ": simulation of " + d.Type() + " devices is not supported")
		}
		if err != nil {
			return errors.Wrap(err, s.def.Name)
		}
	}
	return nil
}

func (s *socket) mountIO(i int, d *hwcheck.IO) error {
	if d.Output {
		n, err := s.Driver(hwcheck.Endpoint{Device: i, Port: "in"}, d.Bits)
		if err != nil {
			return err
		}
		s.c.outputs[d.Label] = n
		return nil
	}
	n, err := s.Pin(hwcheck.Endpoint{Device: i, Port: "out"}, d.Bits)
	if err != nil {
		return err
	}
	s.c.inputs[d.Label] = n
	return nil
}

func (s *socket) mountConstant(i int, d *hwcheck.Constant) error {
	out, err := s.Pin(hwcheck.Endpoint{Device: i, Port: "out"}, d.Value.Width())
	if err != nil {
		return err
	}
	v, delay := d.Value, d.Delay()
	s.c.addComponent(nil, func(c *Circuit) { c.Set(out, v, delay) })
	return nil
}

func (s *socket) inputs(i int, d hwcheck.Device) ([]int, error) {
	ins, _ := d.Pins()
	ws := make([]int, len(ins))
	for k, p := range ins {
		n, err := s.Driver(hwcheck.Endpoint{Device: i, Port: p.Name}, p.Bits)
		if err != nil {
			return nil, err
		}
		ws[k] = n
	}
	return ws, nil
}

func (s *socket) mountGate(i int, d *hwcheck.Gate) error {
	spec := d.Spec()
	if spec == nil {
		return errors.New(d.Label + ": simulation of " + d.Op + " devices is not supported")
	}
	ins, err := s.inputs(i, d)
	if err != nil {
		return err
	}
	out, err := s.Pin(hwcheck.Endpoint{Device: i, Port: "out"}, spec.OutBits(d.Bits, d.SelBits))
	if err != nil {
		return err
	}
	delay := d.Delay()
	vals := make([]ternary.Vector, len(ins))
	s.c.addComponent(ins, func(c *Circuit) {
		for k, n := range ins {
			vals[k] = c.Get(n)
		}
		c.Set(out, spec.Eval(vals), delay)
	})
	return nil
}
