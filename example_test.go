// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwcheck_test

import (
	"fmt"

	hw "github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwtest"
	"github.com/db47h/hwcheck/sim"
	"github.com/db47h/hwcheck/ternary"
)

// A xor gate built from nand gates, checked against its truth table.
//
func Example() {
	nand := func(name string) *hw.Gate {
		return &hw.Gate{Base: hw.Base{Label: name, Propagation: 1}, Op: "Nand", Bits: 1}
	}
	top := hw.NewCircuit("top")
	err := top.Add(
		&hw.IO{Base: hw.Base{Label: "a"}, Bits: 1},
		&hw.IO{Base: hw.Base{Label: "b"}, Bits: 1},
		nand("n0"), nand("n1"), nand("n2"), nand("n3"),
		&hw.IO{Base: hw.Base{Label: "o"}, Output: true, Bits: 1},
	)
	if err != nil {
		panic(err)
	}
	top.MustConnect("a", "out", "n0", "in1")
	top.MustConnect("b", "out", "n0", "in2")
	top.MustConnect("a", "out", "n1", "in1")
	top.MustConnect("n0", "out", "n1", "in2")
	top.MustConnect("b", "out", "n2", "in1")
	top.MustConnect("n0", "out", "n2", "in2")
	top.MustConnect("n1", "out", "n3", "in1")
	top.MustConnect("n2", "out", "n3", "in2")
	top.MustConnect("n3", "out", "o", "in")
	m := hw.NewModel(top)

	c, err := sim.New(m)
	if err != nil {
		panic(err)
	}
	f, err := hwtest.NewFixture(m, c, hwtest.MustParseInterface("a, b", "o"))
	if err != nil {
		panic(err)
	}
	f.TestInterface()
	f.TestPrimitives([]string{"Nand"}, false)
	f.TestCriticalPath(3)
	err = f.TestFun(func(in, _ hwtest.Vector) hwtest.Vector {
		return hwtest.NewVector(map[string]ternary.Vector{
			"o": in.Value("a").Xor(in.Value("b")),
		})
	}, hwtest.Options{NoUnknowns: true})
	if err != nil {
		panic(err)
	}
	fmt.Print(f.Report.String())

	// Output:
	// PASS interface
	// PASS only allowed primitives
	// PASS critical path
	// PASS a:0 b:0 o:0
	// PASS a:0 b:1 o:1
	// PASS a:1 b:0 o:1
	// PASS a:1 b:1 o:0
	// 7 passed, 0 failed, 0 skipped
}
