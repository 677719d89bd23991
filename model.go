// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwcheck

import (
	"github.com/db47h/hwcheck/hwlib"
	"github.com/db47h/hwcheck/ternary"
)

// A Device is a node in a circuit netlist. The set of device kinds is closed:
// *IO, *Constant, *Gate, *Dff, *Memory and *Subcircuit.
//
type Device interface {
	// Name returns the device name, unique within its circuit.
	Name() string
	// Type returns the primitive type name as found in netlists ("And",
	// "Dff", "Subcircuit", etc.).
	Type() string
	// Delay returns the propagation delay of the device.
	Delay() int
	// Pins returns the input and output pins of primitive devices. It returns
	// nil slices for subcircuit instances, whose pins are defined by the
	// instantiated circuit.
	Pins() (in, out []hwlib.Pin)

	device()
}

// Base holds the fields common to all devices.
//
type Base struct {
	Label       string
	Propagation int
}

// Name implements Device.
func (b *Base) Name() string { return b.Label }

// Delay implements Device.
func (b *Base) Delay() int { return b.Propagation }

func (*Base) device() {}

// IO is a boundary input or output of a circuit. Inside a subcircuit, Net is the
// name of the matching pin of the Subcircuit device instantiating it.
//
type IO struct {
	Base
	Output bool
	Net    string
	Bits   int
}

// Type implements Device.
func (d *IO) Type() string {
	if d.Output {
		return "Output"
	}
	return "Input"
}

// Pins implements Device.
func (d *IO) Pins() (in, out []hwlib.Pin) {
	if d.Output {
		return hwlib.OutputPins(d.Bits)
	}
	return hwlib.InputPins(d.Bits)
}

// NetName returns d.Net or the device name if Net is empty.
//
func (d *IO) NetName() string {
	if d.Net == "" {
		return d.Label
	}
	return d.Net
}

// Constant drives a constant value.
//
type Constant struct {
	Base
	Value ternary.Vector
}

// Type implements Device.
func (*Constant) Type() string { return "Constant" }

// Pins implements Device.
func (d *Constant) Pins() (in, out []hwlib.Pin) { return hwlib.ConstantPins(d.Value.Width()) }

// Gate is a combinational primitive described by a hwlib.PartSpec. Op is the
// primitive type name. SelBits is only meaningful for multiplexers.
//
type Gate struct {
	Base
	Op      string
	Bits    int
	SelBits int
}

// Type implements Device.
func (d *Gate) Type() string { return d.Op }

// Spec returns the gate specification, or nil if Op is not a known
// combinational primitive.
//
func (d *Gate) Spec() *hwlib.PartSpec {
	p, _ := hwlib.Lookup(d.Op)
	return p
}

// Pins implements Device.
func (d *Gate) Pins() (in, out []hwlib.Pin) {
	p := d.Spec()
	if p == nil {
		return nil, nil
	}
	return p.Inputs(d.Bits, d.SelBits), p.Outputs(d.Bits, d.SelBits)
}

// Dff is an edge triggered data flip flop. Polarity is true for rising edge.
//
type Dff struct {
	Base
	Bits     int
	Polarity bool
}

// Type implements Device.
func (*Dff) Type() string { return "Dff" }

// Pins implements Device.
func (d *Dff) Pins() (in, out []hwlib.Pin) { return hwlib.DffPins(d.Bits) }

// ReadPort describes a memory read port. Clocked is nil for asynchronous
// reads, and holds the clock polarity for synchronous ones.
//
type ReadPort struct {
	Clocked *bool
}

// WritePort describes a memory write port.
//
type WritePort struct {
	Polarity bool
}

// Memory is a memory block. Memories are audited but not simulated.
//
type Memory struct {
	Base
	Bits       int
	AddrBits   int
	ReadPorts  []ReadPort
	WritePorts []WritePort
}

// Type implements Device.
func (*Memory) Type() string { return "Memory" }

// Pins implements Device.
func (*Memory) Pins() (in, out []hwlib.Pin) { return nil, nil }

// Subcircuit is an instance of another circuit of the same Model, referenced
// by its index in Model.Circuits.
//
type Subcircuit struct {
	Base
	Circuit int
}

// Type implements Device.
func (*Subcircuit) Type() string { return "Subcircuit" }

// Pins implements Device.
func (*Subcircuit) Pins() (in, out []hwlib.Pin) { return nil, nil }
