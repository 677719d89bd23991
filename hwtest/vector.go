// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/db47h/hwcheck/ternary"
)

// A Vector maps net names to values. Vectors are immutable: Set returns a new
// Vector and leaves the receiver untouched, so that a reference function can
// never alter the stimulus it is given. The zero value is an empty Vector.
//
type Vector struct {
	m *immutable.SortedMap
}

// NewVector returns a Vector holding the given values.
//
func NewVector(vs map[string]ternary.Vector) Vector {
	var v Vector
	for k, x := range vs {
		v = v.Set(k, x)
	}
	return v
}

// V is a shorthand for building vectors from binary strings:
//
//	V("a", "01x", "b", "1")
//
// It panics on malformed input.
//
func V(kv ...string) Vector {
	if len(kv)%2 != 0 {
		panic("odd argument count")
	}
	var v Vector
	for i := 0; i < len(kv); i += 2 {
		v = v.Set(kv[i], ternary.MustParse(kv[i+1]))
	}
	return v
}

// Set returns a copy of v where net is set to x.
//
func (v Vector) Set(net string, x ternary.Vector) Vector {
	m := v.m
	if m == nil {
		m = immutable.NewSortedMap(&stringComparer{})
	}
	return Vector{m.Set(net, x)}
}

// Delete returns a copy of v without net.
//
func (v Vector) Delete(net string) Vector {
	if v.m == nil {
		return v
	}
	return Vector{v.m.Delete(net)}
}

// Get returns the value of net.
//
func (v Vector) Get(net string) (ternary.Vector, bool) {
	if v.m == nil {
		return ternary.Vector{}, false
	}
	x, ok := v.m.Get(net)
	if !ok {
		return ternary.Vector{}, false
	}
	return x.(ternary.Vector), true
}

// Value returns the value of net, or an empty ternary.Vector if not set.
//
func (v Vector) Value(net string) ternary.Vector {
	x, _ := v.Get(net)
	return x
}

// Uint returns the value of net as an unsigned integer. ok is false if net is
// not set or has unknown digits.
//
func (v Vector) Uint(net string) (u uint64, ok bool) {
	x, ok := v.Get(net)
	if !ok {
		return 0, false
	}
	return x.Uint()
}

// Len returns the number of nets in v.
//
func (v Vector) Len() int {
	if v.m == nil {
		return 0
	}
	return v.m.Len()
}

// Each calls f for each net in v, in net name order.
//
func (v Vector) Each(f func(net string, x ternary.Vector)) {
	if v.m == nil {
		return
	}
	itr := v.m.Iterator()
	for itr.First(); !itr.Done(); {
		k, x := itr.Next()
		f(k.(string), x.(ternary.Vector))
	}
}

// Nets returns the net names in v, sorted.
//
func (v Vector) Nets() []string {
	ns := make([]string, 0, v.Len())
	v.Each(func(n string, _ ternary.Vector) { ns = append(ns, n) })
	return ns
}

// Without returns a copy of v without the given nets.
//
func (v Vector) Without(nets ...string) Vector {
	for _, n := range nets {
		if n != "" {
			v = v.Delete(n)
		}
	}
	return v
}

// String renders v as space separated net:value pairs with values as fixed
// width binary strings.
//
func (v Vector) String() string {
	var b strings.Builder
	v.Each(func(n string, x ternary.Vector) {
		if b.Len() > 0 {
			b.WriteRune(' ')
		}
		b.WriteString(n)
		b.WriteRune(':')
		b.WriteString(x.String())
	})
	return b.String()
}

// A RefFunc is a reference behavioral model. It receives the inputs of a test
// vector and, in clocked mode, the outputs observed before the clock pulse
// (prev is empty in other modes). It returns the expected outputs.
//
type RefFunc func(in, prev Vector) Vector

// stringComparer orders net names. Implements immutable.Comparer.
type stringComparer struct{}

func (*stringComparer) Compare(a, b interface{}) int {
	return strings.Compare(a.(string), b.(string))
}
