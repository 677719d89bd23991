// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	"github.com/db47h/hwcheck/hwtest"
	"github.com/stretchr/testify/require"
)

func TestGlitch(t *testing.T) {
	zero := func(in, _ hwtest.Vector) hwtest.Vector { return hwtest.V("o", "0") }
	f := fixture(t, glitchModel(t), "b", "o")
	require.NoError(t, f.TestFun(zero, hwtest.Options{Glitch: true, NoUnknowns: true}))
	rs := f.Report.Results
	require.Len(t, rs, 4)

	// b = 0: flipping b to 1 makes o go 0 -> 1 -> 0
	require.True(t, rs[0].Passed(), rs[0].String())
	ge, ok := rs[1].Err.(*hwtest.GlitchError)
	require.True(t, ok, "got %T", rs[1].Err)
	require.Equal(t, []hwtest.GlitchViolation{{Input: "b", InBit: 0, Output: "o", OutBit: 0, Step: 4}}, ge.Violations)
	require.Equal(t, "0", rs[1].Observed.Value("o").String())

	// b = 1: falling b never raises o
	require.True(t, rs[2].Passed(), rs[2].String())
	require.True(t, rs[3].Passed(), rs[3].String())
}

func TestGlitch_clean(t *testing.T) {
	f := fixture(t, andModel(t), "a, b", "o")
	require.NoError(t, f.TestFun(andRef, hwtest.Options{Glitch: true}))
	require.Len(t, f.Report.Results, 18)
	require.True(t, f.Report.OK(), f.Report.String())
}

func TestGlitch_skipped(t *testing.T) {
	one := func(in, _ hwtest.Vector) hwtest.Vector { return hwtest.V("o", "1") }
	f := fixture(t, glitchModel(t), "b", "o")
	require.NoError(t, f.TestFun(one, hwtest.Options{Glitch: true, NoUnknowns: true}))
	for i, r := range f.Report.Results {
		if i%2 == 0 {
			require.IsType(t, &hwtest.MismatchError{}, r.Err)
		} else {
			require.True(t, r.Skipped)
		}
	}
	p, fl, s := f.Report.Counts()
	require.Equal(t, []int{0, 2, 2}, []int{p, fl, s})
	require.False(t, f.Report.OK())
}

func TestGlitch_options(t *testing.T) {
	f := fixture(t, counterModel(t, true), "clk, rst", "o[2]")
	_, err := f.Checker(hwtest.Options{Clock: "clk", Glitch: true})
	require.Error(t, err)
}
