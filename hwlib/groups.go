// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

// Base primitives are always allowed by a primitive audit.
//
var Base = []string{"Input", "Output", "Constant"}

var groups = map[string][]string{
	"gate": {"Not", "And", "Nand", "Or", "Nor", "Xor", "Xnor",
		"AndReduce", "NandReduce", "OrReduce", "NorReduce", "XorReduce", "XnorReduce",
		"Repeater", "Eq", "Ne"},
	"arith": {"ShiftLeft", "ShiftRight", "Lt", "Le", "Eq", "Ne", "Gt", "Ge",
		"Negation", "UnaryPlus", "Addition", "Subtraction", "Multiplication",
		"Division", "Modulo", "Power", "ZeroExtend", "SignExtend"},
	"mux": {"Mux", "Mux1Hot", "Eq", "Ne"},
	"dff": {"Dff"},
	"mem": {"Memory"},
	"bus": {"BusGroup", "BusUngroup", "BusSlice", "ZeroExtend", "SignExtend"},
}

// Group returns the primitive types of a primitive class: "gate", "arith",
// "mux", "dff", "mem" or "bus". Any other name is returned as a single type
// name.
//
func Group(name string) []string {
	if g, ok := groups[name]; ok {
		r := make([]string, len(g))
		copy(r, g)
		return r
	}
	return []string{name}
}

// Expand expands class names into a set of primitive types.
//
func Expand(names ...string) map[string]bool {
	set := make(map[string]bool)
	for _, n := range names {
		for _, t := range Group(n) {
			set[t] = true
		}
	}
	return set
}
