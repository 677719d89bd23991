// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwcheck/ternary"

// DffPins returns the pinout of a data flip flop.
//
//	Inputs: in[bits], clk
//	Outputs: out[bits]
//
func DffPins(bits int) (in, out []Pin) {
	return []Pin{{pIn, bits}, {pClk, 1}}, []Pin{{pOut, bits}}
}

// Edge reports whether a clock going from prev to cur is an active edge for the
// given polarity (true for rising edge). Transitions from or to X are never
// active.
//
func Edge(prev, cur ternary.Vector, polarity bool) bool {
	if polarity {
		return prev.IsLow() && cur.IsHigh()
	}
	return prev.IsHigh() && cur.IsLow()
}
