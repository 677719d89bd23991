// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides the library of primitive devices understood by
// hwcheck: their pinout, their three-valued evaluation function and the
// primitive classes used when auditing a synthesized circuit.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	"sort"
	"strconv"

	"github.com/db47h/hwcheck/ternary"
)

// common pin names
const (
	pIn  = "in"
	pIn1 = "in1"
	pIn2 = "in2"
	pSel = "sel"
	pOut = "out"
	pClk = "clk"
)

// A Pin is a named device pin and its bit width.
//
type Pin struct {
	Name string
	Bits int
}

// A PartSpec wraps the specification of a combinational primitive. All
// combinational primitives have a single output named "out".
//
type PartSpec struct {
	// Primitive type name, as found in netlists.
	Name string
	// Inputs returns the input pins for a device of the given data and
	// selector widths.
	Inputs func(bits, sel int) []Pin
	// OutBits returns the width of the output pin.
	OutBits func(bits, sel int) int
	// Eval computes the output value. Input values are given in the order
	// returned by Inputs.
	Eval func(in []ternary.Vector) ternary.Vector
}

// Outputs returns the output pins for a device of the given widths.
//
func (p *PartSpec) Outputs(bits, sel int) []Pin {
	return []Pin{{pOut, p.OutBits(bits, sel)}}
}

var specs = make(map[string]*PartSpec)

func register(ps ...*PartSpec) {
	for _, p := range ps {
		if _, ok := specs[p.Name]; ok {
			panic("duplicate primitive " + p.Name)
		}
		specs[p.Name] = p
	}
}

// Lookup returns the PartSpec for the named primitive type.
//
func Lookup(name string) (*PartSpec, bool) {
	p, ok := specs[name]
	return p, ok
}

// Names returns the sorted list of combinational primitive names.
//
func Names() []string {
	ns := make([]string, 0, len(specs))
	for n := range specs {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

func same(bits, _ int) int { return bits }
func one(_, _ int) int     { return 1 }

func unaryIn(bits, _ int) []Pin  { return []Pin{{pIn, bits}} }
func binaryIn(bits, _ int) []Pin { return []Pin{{pIn1, bits}, {pIn2, bits}} }

func newUnary(name string, out func(int, int) int, f func(ternary.Vector) ternary.Vector) *PartSpec {
	return &PartSpec{
		Name:    name,
		Inputs:  unaryIn,
		OutBits: out,
		Eval:    func(in []ternary.Vector) ternary.Vector { return f(in[0]) },
	}
}

func newGate(name string, f func(a, b ternary.Vector) ternary.Vector) *PartSpec {
	return newBinary(name, same, f)
}

func newBinary(name string, out func(int, int) int, f func(a, b ternary.Vector) ternary.Vector) *PartSpec {
	return &PartSpec{
		Name:    name,
		Inputs:  binaryIn,
		OutBits: out,
		Eval:    func(in []ternary.Vector) ternary.Vector { return f(in[0], in[1]) },
	}
}

func init() {
	register(
		newUnary("Not", same, ternary.Vector.Not),
		newUnary("Repeater", same, func(v ternary.Vector) ternary.Vector { return v }),

		newGate("And", ternary.Vector.And),
		newGate("Nand", func(a, b ternary.Vector) ternary.Vector { return a.And(b).Not() }),
		newGate("Or", ternary.Vector.Or),
		newGate("Nor", func(a, b ternary.Vector) ternary.Vector { return a.Or(b).Not() }),
		newGate("Xor", ternary.Vector.Xor),
		newGate("Xnor", func(a, b ternary.Vector) ternary.Vector { return a.Xor(b).Not() }),

		newUnary("AndReduce", one, ternary.Vector.ReduceAnd),
		newUnary("NandReduce", one, func(v ternary.Vector) ternary.Vector { return v.ReduceAnd().Not() }),
		newUnary("OrReduce", one, ternary.Vector.ReduceOr),
		newUnary("NorReduce", one, func(v ternary.Vector) ternary.Vector { return v.ReduceOr().Not() }),
		newUnary("XorReduce", one, ternary.Vector.ReduceXor),
		newUnary("XnorReduce", one, func(v ternary.Vector) ternary.Vector { return v.ReduceXor().Not() }),
	)
}

// BusPinName returns the name of the i-th input of a multi-input primitive,
// like "in0", "in1" for a multiplexer.
//
func BusPinName(name string, i int) string {
	return name + strconv.Itoa(i)
}
