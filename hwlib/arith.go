// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwcheck/ternary"

// eq returns 1 if a == b, 0 if any defined digit differs, X otherwise.
func eq(a, b ternary.Vector) ternary.Vector {
	d := a.Xor(b)
	switch {
	case d.ReduceOr().IsHigh():
		return ternary.Zeros(1)
	case d.HasX():
		return ternary.Xes(1)
	}
	return ternary.Ones(1)
}

func cmpGate(f func(c int) bool) func(a, b ternary.Vector) ternary.Vector {
	return func(a, b ternary.Vector) ternary.Vector {
		c, ok := a.Compare(b)
		if !ok {
			return ternary.Xes(1)
		}
		return ternary.FromBool(f(c))
	}
}

func init() {
	register(
		newBinary("Eq", one, eq),
		newBinary("Ne", one, func(a, b ternary.Vector) ternary.Vector { return eq(a, b).Not() }),
		newBinary("Lt", one, cmpGate(func(c int) bool { return c < 0 })),
		newBinary("Le", one, cmpGate(func(c int) bool { return c <= 0 })),
		newBinary("Gt", one, cmpGate(func(c int) bool { return c > 0 })),
		newBinary("Ge", one, cmpGate(func(c int) bool { return c >= 0 })),

		newBinary("Addition", same, ternary.Vector.Add),
		newBinary("Subtraction", same, ternary.Vector.Sub),
		newUnary("Negation", same, func(v ternary.Vector) ternary.Vector {
			return ternary.Zeros(v.Width()).Sub(v)
		}),
		newUnary("UnaryPlus", same, func(v ternary.Vector) ternary.Vector { return v }),
	)
}
