// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwcheck models synthesized gate-level circuits for verification.

A Model is the netlist produced by an external synthesis toolchain: a top level
Circuit plus the circuits it instantiates, stored as an arena and referenced by
index from Subcircuit devices. Devices form a closed set of kinds (IO, Constant,
Gate, Dff, Memory, Subcircuit), each with a fixed set of fields.

Models are loaded from JSON with Load or built programmatically:

	top := hwcheck.NewCircuit("top")
	top.Add(
		&hwcheck.IO{Base: hwcheck.Base{Label: "a"}, Net: "a", Bits: 1},
		&hwcheck.IO{Base: hwcheck.Base{Label: "b"}, Net: "b", Bits: 1},
		&hwcheck.Gate{Base: hwcheck.Base{Label: "and", Propagation: 1}, Op: "And", Bits: 1},
		&hwcheck.IO{Base: hwcheck.Base{Label: "o"}, Output: true, Net: "o", Bits: 1},
	)
	top.MustConnect("a", "out", "and", "in1")
	top.MustConnect("b", "out", "and", "in2")
	top.MustConnect("and", "out", "o", "in")
	m := hwcheck.NewModel(top)

The checks themselves live in package hwtest, and a reference simulation
engine in package sim.
*/
package hwcheck
