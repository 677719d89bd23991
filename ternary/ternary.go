// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ternary implements fixed-width bit vectors over the three-valued
// logic {0, 1, X}.
//
// X models an uninitialized or indeterminate signal. A fourth digit, Z (high
// impedance), is reserved for rendering purposes but no operation in this
// package ever produces it.
//
package ternary

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// A Digit is the value of a single bit.
//
type Digit uint8

// Digit values.
//
const (
	Zero Digit = iota
	One
	X
	Z // reserved
)

// Rune returns the character used to render d in binary strings.
//
func (d Digit) Rune() rune {
	switch d {
	case Zero:
		return '0'
	case One:
		return '1'
	case X:
		return 'x'
	}
	return 'z'
}

func (d Digit) String() string { return string(d.Rune()) }

// Vector is an immutable vector of ternary digits. Bit 0 is the least
// significant bit. The zero value is an empty vector.
//
type Vector struct {
	n   int
	val []uint64 // digit is 1 where val=1 and unk=0
	unk []uint64 // digit is X where unk=1. val is always 0 there.
}

func words(n int) int { return (n + 63) / 64 }

func alloc(n int) Vector {
	if n < 0 {
		panic("negative vector width")
	}
	w := words(n)
	return Vector{n: n, val: make([]uint64, w), unk: make([]uint64, w)}
}

// topMask returns the mask of meaningful bits in the last word.
func (v Vector) topMask() uint64 {
	r := uint(v.n % 64)
	if r == 0 {
		return ^uint64(0)
	}
	return (1 << r) - 1
}

func (v Vector) norm() Vector {
	if len(v.val) == 0 {
		return v
	}
	for i := range v.val {
		v.val[i] &^= v.unk[i]
	}
	m := v.topMask()
	v.val[len(v.val)-1] &= m
	v.unk[len(v.unk)-1] &= m
	return v
}

// Fill returns a vector of n digits, all set to d.
//
func Fill(n int, d Digit) Vector {
	v := alloc(n)
	for i := range v.val {
		switch d {
		case One:
			v.val[i] = ^uint64(0)
		case Zero:
		default:
			v.unk[i] = ^uint64(0)
		}
	}
	return v.norm()
}

// Zeros returns n zero digits.
func Zeros(n int) Vector { return Fill(n, Zero) }

// Ones returns n one digits.
func Ones(n int) Vector { return Fill(n, One) }

// Xes returns n unknown digits.
func Xes(n int) Vector { return Fill(n, X) }

// FromBool returns a single digit vector.
//
func FromBool(b bool) Vector {
	if b {
		return Ones(1)
	}
	return Zeros(1)
}

// FromUint returns the n least significant bits of u. Bits above 64 are zero.
//
func FromUint(n int, u uint64) Vector {
	v := alloc(n)
	if n > 0 {
		v.val[0] = u
	}
	return v.norm()
}

// FromDigits builds a vector from a digit slice, least significant digit first.
// Z digits are converted to X.
//
func FromDigits(ds []Digit) Vector {
	v := alloc(len(ds))
	for i, d := range ds {
		v.set(i, d)
	}
	return v
}

// Parse parses a binary string, most significant digit first. Accepted digits
// are 0, 1, x and X. Underscores are ignored.
//
func Parse(s string) (Vector, error) {
	s = strings.Replace(s, "_", "", -1)
	v := alloc(len(s))
	for i, r := range s {
		pos := len(s) - 1 - i
		switch r {
		case '0':
		case '1':
			v.set(pos, One)
		case 'x', 'X':
			v.set(pos, X)
		default:
			return Vector{}, errors.Errorf("invalid digit %q in %q", r, s)
		}
	}
	return v, nil
}

// MustParse is like Parse but panics on error.
//
func MustParse(s string) Vector {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Vector) clone() Vector {
	c := Vector{n: v.n, val: make([]uint64, len(v.val)), unk: make([]uint64, len(v.unk))}
	copy(c.val, v.val)
	copy(c.unk, v.unk)
	return c
}

func (v Vector) set(i int, d Digit) {
	w, m := i/64, uint64(1)<<uint(i%64)
	switch d {
	case Zero:
		v.val[w] &^= m
		v.unk[w] &^= m
	case One:
		v.val[w] |= m
		v.unk[w] &^= m
	default:
		v.val[w] &^= m
		v.unk[w] |= m
	}
}

// Width returns the number of digits in v.
//
func (v Vector) Width() int { return v.n }

// Digit returns digit i. It panics if i is out of range.
//
func (v Vector) Digit(i int) Digit {
	if i < 0 || i >= v.n {
		panic("digit index out of range")
	}
	w, m := i/64, uint64(1)<<uint(i%64)
	switch {
	case v.unk[w]&m != 0:
		return X
	case v.val[w]&m != 0:
		return One
	}
	return Zero
}

// With returns a copy of v where digit i is set to d.
//
func (v Vector) With(i int, d Digit) Vector {
	if i < 0 || i >= v.n {
		panic("digit index out of range")
	}
	c := v.clone()
	c.set(i, d)
	return c
}

// Digits returns the digits of v, least significant first.
//
func (v Vector) Digits() []Digit {
	ds := make([]Digit, v.n)
	for i := range ds {
		ds[i] = v.Digit(i)
	}
	return ds
}

// String renders v as a fixed width binary string, most significant digit first.
//
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(v.n)
	for i := v.n - 1; i >= 0; i-- {
		b.WriteRune(v.Digit(i).Rune())
	}
	return b.String()
}

// Equal reports whether v and o have the same width and digits.
//
func (v Vector) Equal(o Vector) bool {
	if v.n != o.n {
		return false
	}
	for i := range v.val {
		if v.val[i] != o.val[i] || v.unk[i] != o.unk[i] {
			return false
		}
	}
	return true
}

// Match reports whether observed matches the expected vector v. If wildcard is
// true, X digits in v match any observed digit.
//
func (v Vector) Match(observed Vector, wildcard bool) bool {
	if !wildcard {
		return v.Equal(observed)
	}
	if v.n != observed.n {
		return false
	}
	for i := range v.val {
		care := ^v.unk[i]
		if (v.val[i]^observed.val[i])&care != 0 || observed.unk[i]&care != 0 {
			return false
		}
	}
	return true
}

func (v Vector) sameWidth(o Vector) {
	if v.n != o.n {
		panic("vector width mismatch")
	}
}

// Not returns the ternary negation of v.
//
func (v Vector) Not() Vector {
	r := alloc(v.n)
	for i := range v.val {
		r.unk[i] = v.unk[i]
		r.val[i] = ^v.val[i]
	}
	return r.norm()
}

// And returns the bitwise ternary AND of v and o. A definite 0 on either side
// forces a 0 result.
//
func (v Vector) And(o Vector) Vector {
	v.sameWidth(o)
	r := alloc(v.n)
	for i := range v.val {
		zero := (^v.val[i] &^ v.unk[i]) | (^o.val[i] &^ o.unk[i])
		one := v.val[i] & o.val[i]
		r.val[i] = one
		r.unk[i] = ^(zero | one)
	}
	return r.norm()
}

// Or returns the bitwise ternary OR of v and o. A definite 1 on either side
// forces a 1 result.
//
func (v Vector) Or(o Vector) Vector {
	v.sameWidth(o)
	r := alloc(v.n)
	for i := range v.val {
		one := v.val[i] | o.val[i]
		zero := (^v.val[i] &^ v.unk[i]) & (^o.val[i] &^ o.unk[i])
		r.val[i] = one
		r.unk[i] = ^(zero | one)
	}
	return r.norm()
}

// Xor returns the bitwise ternary XOR of v and o.
//
func (v Vector) Xor(o Vector) Vector {
	v.sameWidth(o)
	r := alloc(v.n)
	for i := range v.val {
		r.unk[i] = v.unk[i] | o.unk[i]
		r.val[i] = v.val[i] ^ o.val[i]
	}
	return r.norm()
}

// ReduceAnd returns the AND of all digits of v as a 1 digit vector.
//
func (v Vector) ReduceAnd() Vector {
	switch {
	case v.hasZero():
		return Zeros(1)
	case v.HasX():
		return Xes(1)
	}
	return Ones(1)
}

// ReduceOr returns the OR of all digits of v as a 1 digit vector.
//
func (v Vector) ReduceOr() Vector {
	switch {
	case v.hasOne():
		return Ones(1)
	case v.HasX():
		return Xes(1)
	}
	return Zeros(1)
}

// ReduceXor returns the XOR of all digits of v as a 1 digit vector.
//
func (v Vector) ReduceXor() Vector {
	if v.HasX() {
		return Xes(1)
	}
	p := 0
	for _, w := range v.val {
		p += bits.OnesCount64(w)
	}
	return FromBool(p&1 == 1)
}

func (v Vector) hasOne() bool {
	for _, w := range v.val {
		if w != 0 {
			return true
		}
	}
	return false
}

func (v Vector) hasZero() bool {
	for i := range v.val {
		z := ^v.val[i] &^ v.unk[i]
		if i == len(v.val)-1 {
			z &= v.topMask()
		}
		if z != 0 {
			return true
		}
	}
	return false
}

// HasX reports whether any digit of v is unknown.
//
func (v Vector) HasX() bool {
	for _, w := range v.unk {
		if w != 0 {
			return true
		}
	}
	return false
}

// IsHigh reports whether all digits of v are 1. Empty vectors are not high.
//
func (v Vector) IsHigh() bool { return v.n > 0 && !v.HasX() && !v.hasZero() }

// IsLow reports whether all digits of v are 0. Empty vectors are not low.
//
func (v Vector) IsLow() bool { return v.n > 0 && !v.HasX() && !v.hasOne() }

// Uint returns the value of v as an unsigned integer. ok is false if v has
// unknown digits or if a set bit does not fit in 64 bits.
//
func (v Vector) Uint() (u uint64, ok bool) {
	if v.HasX() {
		return 0, false
	}
	for i := 1; i < len(v.val); i++ {
		if v.val[i] != 0 {
			return 0, false
		}
	}
	if len(v.val) == 0 {
		return 0, true
	}
	return v.val[0], true
}

// Add returns v + o modulo 2^width. The result is all X if any input digit is
// unknown.
//
func (v Vector) Add(o Vector) Vector {
	v.sameWidth(o)
	if v.HasX() || o.HasX() {
		return Xes(v.n)
	}
	r := alloc(v.n)
	var c uint64
	for i := range v.val {
		r.val[i], c = bits.Add64(v.val[i], o.val[i], c)
	}
	return r.norm()
}

// Sub returns v - o modulo 2^width. The result is all X if any input digit is
// unknown.
//
func (v Vector) Sub(o Vector) Vector {
	v.sameWidth(o)
	if v.HasX() || o.HasX() {
		return Xes(v.n)
	}
	r := alloc(v.n)
	var b uint64
	for i := range v.val {
		r.val[i], b = bits.Sub64(v.val[i], o.val[i], b)
	}
	return r.norm()
}

// Compare compares v and o as unsigned integers. ok is false if either has
// unknown digits.
//
func (v Vector) Compare(o Vector) (cmp int, ok bool) {
	v.sameWidth(o)
	if v.HasX() || o.HasX() {
		return 0, false
	}
	for i := len(v.val) - 1; i >= 0; i-- {
		switch {
		case v.val[i] < o.val[i]:
			return -1, true
		case v.val[i] > o.val[i]:
			return 1, true
		}
	}
	return 0, true
}

// Slice returns digits [lo, hi) of v.
//
func (v Vector) Slice(lo, hi int) Vector {
	if lo < 0 || hi > v.n || lo > hi {
		panic("slice bounds out of range")
	}
	r := alloc(hi - lo)
	for i := lo; i < hi; i++ {
		r.set(i-lo, v.Digit(i))
	}
	return r
}

// Concat concatenates vectors, the first one holding the least significant digits.
//
func Concat(vs ...Vector) Vector {
	n := 0
	for _, v := range vs {
		n += v.n
	}
	r := alloc(n)
	pos := 0
	for _, v := range vs {
		for i := 0; i < v.n; i++ {
			r.set(pos, v.Digit(i))
			pos++
		}
	}
	return r
}

// Bit returns a vector of width n with a single 1 at position i, like the
// masks used to flip one input bit.
//
func Bit(n, i int) Vector {
	return Zeros(n).With(i, One)
}
