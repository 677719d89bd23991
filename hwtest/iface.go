// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"sort"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/internal/hdl"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// Interface is the expected boundary of a circuit: net names and widths of its
// inputs and outputs.
//
type Interface struct {
	Inputs  map[string]int
	Outputs map[string]int
}

// ParseInterface builds an Interface from pin lists like "a[4], b, cin".
//
func ParseInterface(in, out string) (Interface, error) {
	var i Interface
	var err error
	if i.Inputs, err = pinMap(in); err != nil {
		return Interface{}, errors.Wrap(err, "inputs")
	}
	if i.Outputs, err = pinMap(out); err != nil {
		return Interface{}, errors.Wrap(err, "outputs")
	}
	return i, nil
}

// MustParseInterface is like ParseInterface but panics on error.
//
func MustParseInterface(in, out string) Interface {
	i, err := ParseInterface(in, out)
	if err != nil {
		panic(err)
	}
	return i
}

func pinMap(s string) (map[string]int, error) {
	ps, err := hdl.ParseIO(s)
	if err != nil {
		return nil, err
	}
	m := make(map[string]int, len(ps))
	for _, p := range ps {
		m[p.Name] = p.Bits
	}
	return m, nil
}

// Check verifies that all widths are positive.
//
func (i Interface) Check() error {
	for _, d := range []struct {
		dir string
		m   map[string]int
	}{{"input", i.Inputs}, {"output", i.Outputs}} {
		for n, w := range d.m {
			if n == "" {
				return errors.New("empty " + d.dir + " name")
			}
			if w <= 0 {
				return errors.Errorf("%s %s: invalid width %d", d.dir, n, w)
			}
		}
	}
	return nil
}

func (i Interface) width(net string) (int, bool) {
	if w, ok := i.Inputs[net]; ok {
		return w, true
	}
	w, ok := i.Outputs[net]
	return w, ok
}

// InterfaceResult is the outcome of ValidateInterface. It is passed to every
// check that depends on the circuit interface; these checks fail with
// ErrInterfaceInvalid when Err is not nil.
//
type InterfaceResult struct {
	Expected Interface
	Err      error // nil or *InterfaceError
}

// OK returns true if the interface matched.
//
func (r InterfaceResult) OK() bool { return r.Err == nil }

// InterfaceOf returns the interface declared by ps.
//
func InterfaceOf(ps *hwcheck.PortSet) Interface {
	i := Interface{Inputs: make(map[string]int), Outputs: make(map[string]int)}
	for _, p := range ps.Inputs {
		i.Inputs[p.Net] = p.Bits
	}
	for _, p := range ps.Outputs {
		i.Outputs[p.Net] = p.Bits
	}
	return i
}

// ValidateInterface compares the ports of a circuit with the expected
// interface. Duplicate nets, missing or unexpected ports and width mismatches
// are reported as *PortError in an *InterfaceError.
//
func ValidateInterface(ps *hwcheck.PortSet, expected Interface) InterfaceResult {
	r := InterfaceResult{Expected: expected}
	got := Interface{
		Inputs:  make(map[string]int),
		Outputs: make(map[string]int),
	}
	var errs []*PortError
	for _, d := range []struct {
		dir   string
		ports []hwcheck.Port
		got   map[string]int
		want  map[string]int
	}{
		{"input", ps.Inputs, got.Inputs, expected.Inputs},
		{"output", ps.Outputs, got.Outputs, expected.Outputs},
	} {
		for _, p := range d.ports {
			if _, dup := d.got[p.Net]; dup {
				errs = append(errs, &PortError{Dir: d.dir, Net: p.Net, Want: d.want[p.Net], Got: p.Bits})
				continue
			}
			d.got[p.Net] = p.Bits
			w, ok := d.want[p.Net]
			if !ok || w != p.Bits {
				errs = append(errs, &PortError{Dir: d.dir, Net: p.Net, Want: w, Got: p.Bits})
			}
		}
		var missing []string
		for n := range d.want {
			if _, ok := d.got[n]; !ok {
				missing = append(missing, n)
			}
		}
		sort.Strings(missing)
		for _, n := range missing {
			errs = append(errs, &PortError{Dir: d.dir, Net: n, Want: d.want[n]})
		}
	}
	if len(errs) > 0 {
		r.Err = &InterfaceError{Ports: errs, Diff: cmp.Diff(expected, got)}
	}
	return r
}
