// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwtest"
	"github.com/db47h/hwcheck/ternary"
	"github.com/stretchr/testify/require"
)

func ports(ps ...hwcheck.Port) []hwcheck.Port { return ps }

func TestCursor(t *testing.T) {
	data := []struct {
		name string
		g    hwtest.Generator
		n    int
	}{
		{"none", hwtest.Generator{}, 1},
		{"ternary", hwtest.Generator{Ports: ports(hwcheck.Port{Net: "a", Bits: 2}, hwcheck.Port{Net: "b", Bits: 1})}, 27},
		{"binary", hwtest.Generator{Ports: ports(hwcheck.Port{Net: "a", Bits: 2}, hwcheck.Port{Net: "b", Bits: 1}), NoUnknowns: true}, 8},
		{"fixed", hwtest.Generator{
			Ports: ports(hwcheck.Port{Net: "a", Bits: 2}, hwcheck.Port{Net: "b", Bits: 1}),
			Fixed: map[string]ternary.Vector{"b": ternary.MustParse("1")},
		}, 9},
		{"excluded", hwtest.Generator{
			Ports:   ports(hwcheck.Port{Net: "a", Bits: 2}, hwcheck.Port{Net: "clk", Bits: 1}),
			Exclude: map[string]bool{"clk": true},
		}, 9},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			seen := make(map[string]bool)
			c := d.g.Cursor()
			for v, ok := c.Next(); ok; v, ok = c.Next() {
				s := v.String()
				require.False(t, seen[s], "duplicate vector %s", s)
				seen[s] = true
				if f, ok := d.g.Fixed["b"]; ok {
					require.True(t, f.Equal(v.Value("b")))
				}
				_, ok := v.Get("clk")
				require.False(t, ok)
			}
			require.Len(t, seen, d.n)
		})
	}
}

func TestCursor_order(t *testing.T) {
	g := hwtest.Generator{Ports: ports(hwcheck.Port{Net: "a", Bits: 2}), NoUnknowns: true}
	var got []string
	c := g.Cursor()
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		got = append(got, v.Value("a").String())
	}
	require.Equal(t, []string{"00", "01", "10", "11"}, got)
}

func TestGenerator_exhaustive(t *testing.T) {
	g := hwtest.Generator{
		Ports: ports(hwcheck.Port{Net: "a", Bits: 3}, hwcheck.Port{Net: "b", Bits: 3}),
		Precondition: func(v hwtest.Vector) bool {
			return !v.Value("a").HasX()
		},
	}
	vs, s, err := g.Vectors()
	require.NoError(t, err)
	require.True(t, s.Exhaustive)
	require.Equal(t, 729, s.Enumerated)
	require.Equal(t, 729-8*27, s.Filtered)
	require.Len(t, vs, 8*27)
	for _, v := range vs {
		require.False(t, v.Value("a").HasX())
	}
}

func TestGenerator_random(t *testing.T) {
	g := hwtest.Generator{
		Ports:      ports(hwcheck.Port{Net: "a", Bits: 4}, hwcheck.Port{Net: "b", Bits: 4}),
		Fixed:      map[string]ternary.Vector{"b": ternary.MustParse("1010")},
		Threshold:  3,
		Trials:     50,
		NoUnknowns: true,
		Rand:       rand.New(rand.NewSource(42)),
		Precondition: func(v hwtest.Vector) bool {
			u, _ := v.Uint("a")
			return u%2 == 0
		},
	}
	require.Equal(t, 4, g.FreeBits())
	vs, s, err := g.Vectors()
	require.NoError(t, err)
	require.False(t, s.Exhaustive)
	require.Len(t, vs, 50)
	require.Equal(t, s.Enumerated, 50+s.Filtered)
	for _, v := range vs {
		require.False(t, v.Value("a").HasX())
		u, _ := v.Uint("a")
		require.Zero(t, u%2)
		require.Equal(t, "1010", v.Value("b").String())
	}
}

func TestGenerator_errors(t *testing.T) {
	g := hwtest.Generator{
		Ports:        ports(hwcheck.Port{Net: "a", Bits: 8}),
		Threshold:    6,
		Trials:       10,
		MaxRejects:   100,
		Precondition: func(hwtest.Vector) bool { return false },
		Rand:         rand.New(rand.NewSource(1)),
	}
	_, _, err := g.Vectors()
	require.Equal(t, hwtest.ErrPreconditionUnsatisfiable, err)

	g = hwtest.Generator{
		Ports: ports(hwcheck.Port{Net: "a", Bits: 2}),
		Fixed: map[string]ternary.Vector{"a": ternary.MustParse("1")},
	}
	_, _, err = g.Vectors()
	require.Error(t, err)

	g = hwtest.Generator{
		Ports:   ports(hwcheck.Port{Net: "a", Bits: 2}),
		Exclude: map[string]bool{"b": true},
	}
	_, _, err = g.Vectors()
	require.Error(t, err)
}
