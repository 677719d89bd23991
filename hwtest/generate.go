// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"math/rand"
	"time"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

// Default generator settings.
//
const (
	DefaultThreshold = 6
	DefaultTrials    = 100
)

// A Generator produces input vectors for a set of ports.
//
// When the number of free bits (bits of ports not excluded nor fixed) is at
// most Threshold, it enumerates all combinations over the alphabet {0, 1, x},
// or {0, 1} if NoUnknowns is set. Otherwise it draws Trials random vectors
// over the same alphabet, rejecting those failing Precondition.
//
type Generator struct {
	Ports        []hwcheck.Port
	Exclude      map[string]bool           // nets left out of generated vectors
	Fixed        map[string]ternary.Vector // nets with a fixed value
	Precondition func(Vector) bool
	NoUnknowns   bool
	Threshold    int // defaults to DefaultThreshold
	Trials       int // defaults to DefaultTrials
	MaxRejects   int // defaults to 1000 * Trials
	Rand         *rand.Rand
}

// Stats reports what a generator did.
//
type Stats struct {
	Exhaustive bool
	Enumerated int // vectors produced before filtering
	Filtered   int // vectors rejected by the precondition
}

// Check verifies that fixed values match the width of their port and that
// fixed and excluded nets exist.
//
func (g *Generator) Check() error {
	ports := make(map[string]int, len(g.Ports))
	for _, p := range g.Ports {
		ports[p.Net] = p.Bits
	}
	for n, v := range g.Fixed {
		w, ok := ports[n]
		if !ok {
			return errors.New("fixed value for unknown input " + n)
		}
		if v.Width() != w {
			return errors.Errorf("fixed value %s for input %s: expected %d bits, got %d", v, n, w, v.Width())
		}
	}
	for n := range g.Exclude {
		if _, ok := ports[n]; !ok {
			return errors.New("excluded unknown input " + n)
		}
	}
	return nil
}

func (g *Generator) free() []hwcheck.Port {
	var ps []hwcheck.Port
	for _, p := range g.Ports {
		if g.Exclude[p.Net] {
			continue
		}
		if _, ok := g.Fixed[p.Net]; ok {
			continue
		}
		ps = append(ps, p)
	}
	return ps
}

// FreeBits returns the number of bits the generator chooses values for.
//
func (g *Generator) FreeBits() int {
	n := 0
	for _, p := range g.free() {
		n += p.Bits
	}
	return n
}

func (g *Generator) alphabet() []ternary.Digit {
	if g.NoUnknowns {
		return []ternary.Digit{ternary.Zero, ternary.One}
	}
	return []ternary.Digit{ternary.Zero, ternary.One, ternary.X}
}

func (g *Generator) base() Vector {
	var v Vector
	for _, p := range g.Ports {
		if f, ok := g.Fixed[p.Net]; ok && !g.Exclude[p.Net] {
			v = v.Set(p.Net, f)
		}
	}
	return v
}

func (g *Generator) threshold() int {
	if g.Threshold <= 0 {
		return DefaultThreshold
	}
	return g.Threshold
}

func (g *Generator) trials() int {
	if g.Trials <= 0 {
		return DefaultTrials
	}
	return g.Trials
}

func (g *Generator) accept(v Vector) bool {
	return g.Precondition == nil || g.Precondition(v)
}

// Vectors returns the generated vectors.
//
func (g *Generator) Vectors() ([]Vector, Stats, error) {
	if err := g.Check(); err != nil {
		return nil, Stats{}, err
	}
	if g.FreeBits() <= g.threshold() {
		return g.exhaustive()
	}
	return g.random()
}

func (g *Generator) exhaustive() ([]Vector, Stats, error) {
	s := Stats{Exhaustive: true}
	var vs []Vector
	c := g.Cursor()
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		s.Enumerated++
		if !g.accept(v) {
			s.Filtered++
			continue
		}
		vs = append(vs, v)
	}
	return vs, s, nil
}

func (g *Generator) random() ([]Vector, Stats, error) {
	var s Stats
	r := g.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	n := g.trials()
	maxRejects := g.MaxRejects
	if maxRejects <= 0 {
		maxRejects = 1000 * n
	}
	ps := g.free()
	abc := g.alphabet()
	base := g.base()
	vs := make([]Vector, 0, n)
	for len(vs) < n {
		v := base
		for _, p := range ps {
			ds := make([]ternary.Digit, p.Bits)
			for i := range ds {
				ds[i] = abc[r.Intn(len(abc))]
			}
			v = v.Set(p.Net, ternary.FromDigits(ds))
		}
		s.Enumerated++
		if !g.accept(v) {
			if s.Filtered++; s.Filtered > maxRejects {
				return nil, s, ErrPreconditionUnsatisfiable
			}
			continue
		}
		vs = append(vs, v)
	}
	return vs, s, nil
}

// Cursor returns an iterator over all combinations of free bit values,
// regardless of the generator's threshold and precondition.
//
func (g *Generator) Cursor() *Cursor {
	ps := g.free()
	c := &Cursor{abc: g.alphabet(), base: g.base(), ports: ps}
	for _, p := range ps {
		c.digits = append(c.digits, make([]int, p.Bits))
	}
	return c
}

// A Cursor enumerates input vectors in odometer order: the least significant
// bit of the last free port varies fastest, digits go 0, 1, x.
//
type Cursor struct {
	abc    []ternary.Digit
	base   Vector
	ports  []hwcheck.Port
	digits [][]int
	done   bool
}

// Next returns the next vector. ok is false when all vectors have been
// returned.
//
func (c *Cursor) Next() (v Vector, ok bool) {
	if c.done {
		return Vector{}, false
	}
	v = c.base
	for i, p := range c.ports {
		ds := make([]ternary.Digit, p.Bits)
		for j, d := range c.digits[i] {
			ds[j] = c.abc[d]
		}
		v = v.Set(p.Net, ternary.FromDigits(ds))
	}
	c.advance()
	return v, true
}

func (c *Cursor) advance() {
	for i := len(c.digits) - 1; i >= 0; i-- {
		ds := c.digits[i]
		for j := range ds {
			if ds[j]++; ds[j] < len(c.abc) {
				return
			}
			ds[j] = 0
		}
	}
	c.done = true
}
