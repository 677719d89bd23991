// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwcheck/ternary"

// Mux is a multiplexer with 1<<sel data inputs.
//
//	Inputs: in0[bits] ... inN[bits], sel[sel]
//	Outputs: out[bits]
//	Function: out = in<sel>, or all X if sel has unknown digits.
//
var Mux = &PartSpec{
	Name: "Mux",
	Inputs: func(bits, sel int) []Pin {
		n := 1 << uint(sel)
		pins := make([]Pin, 0, n+1)
		for i := 0; i < n; i++ {
			pins = append(pins, Pin{BusPinName(pIn, i), bits})
		}
		return append(pins, Pin{pSel, sel})
	},
	OutBits: same,
	Eval: func(in []ternary.Vector) ternary.Vector {
		data, sel := in[:len(in)-1], in[len(in)-1]
		i, ok := sel.Uint()
		if !ok || i >= uint64(len(data)) {
			return ternary.Xes(data[0].Width())
		}
		return data[i]
	},
}

func init() {
	register(Mux)
}
