// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides the checks of the hwcheck verification harness:
// interface validation, primitive audits, critical path analysis and
// equivalence checking of a simulated circuit against a reference function.
//
// A Fixture bundles a model, its simulation engine and the result of its
// interface validation, and collects check results in a Report:
//
//	c, err := sim.New(m)
//	// ...
//	f, err := hwtest.NewFixture(m, c, hwtest.MustParseInterface("a, b", "o"))
//	// ...
//	f.TestInterface()
//	f.TestPrimitives([]string{"gate"}, false)
//	err = f.TestFun(func(in, _ hwtest.Vector) hwtest.Vector {
//		return hwtest.NewVector(map[string]ternary.Vector{
//			"o": in.Value("a").And(in.Value("b")),
//		})
//	}, hwtest.Options{})
//	// ...
//	f.Report.Run(t)
//
package hwtest

import (
	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

// A Fixture runs checks against a circuit under test.
//
type Fixture struct {
	Model     *hwcheck.Model
	Ports     *hwcheck.PortSet
	Engine    Engine
	Interface InterfaceResult
	Timeout   int // default settle bound, DefaultTimeout if 0
	Report    Report
}

// NewFixture validates the interface of m against expected and returns a new
// fixture. The result of the validation is stored in f.Interface; an invalid
// interface is not an error here, but makes all dependent checks fail.
//
func NewFixture(m *hwcheck.Model, e Engine, expected Interface) (*Fixture, error) {
	if err := expected.Check(); err != nil {
		return nil, errors.Wrap(err, "invalid interface specification")
	}
	ps := m.Ports()
	return &Fixture{
		Model:     m,
		Ports:     ps,
		Engine:    e,
		Interface: ValidateInterface(ps, expected),
	}, nil
}

func (f *Fixture) timeout() int {
	if f.Timeout <= 0 {
		return DefaultTimeout
	}
	return f.Timeout
}

func (f *Fixture) add(r Result) Result {
	f.Report.Add(r)
	return r
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return Errors(errs)
}

// TestInterface records the result of the interface validation.
//
func (f *Fixture) TestInterface() Result {
	return f.add(Result{Name: "interface", Err: f.Interface.Err})
}

// TestPrimitives audits the primitives used in the model. See
// AuditPrimitives.
//
func (f *Fixture) TestPrimitives(prims []string, deny bool) Result {
	name := "only allowed primitives"
	if deny {
		name = "no forbidden primitives"
	}
	return f.add(Result{Name: name, Err: joinErrors(AuditPrimitives(f.Model, prims, deny))})
}

// TestMemoryPorts checks memory devices. See CheckMemoryPorts.
//
func (f *Fixture) TestMemoryPorts(rd, wr int, rt ReadType) Result {
	return f.add(Result{Name: "memory ports", Err: joinErrors(CheckMemoryPorts(f.Model, rd, wr, rt))})
}

// TestCriticalPath checks the static critical path of the model. See
// CriticalPath.
//
func (f *Fixture) TestCriticalPath(bound int) Result {
	r := Result{Name: "critical path"}
	if !f.Interface.OK() {
		r.Err = ErrInterfaceInvalid
	} else {
		r.Err = joinErrors(CriticalPath(f.Model, bound))
	}
	return f.add(r)
}

// TestSettleTime drives all inputs to x, 1, x then 0 and checks that the
// circuit settles within timeout steps after each change.
//
func (f *Fixture) TestSettleTime(timeout int) Result {
	r := Result{Name: "settle time"}
	if !f.Interface.OK() {
		r.Err = ErrInterfaceInvalid
		return f.add(r)
	}
	for _, fill := range []ternary.Digit{ternary.X, ternary.One, ternary.X, ternary.Zero} {
		for _, p := range f.Ports.Inputs {
			f.Engine.SetInput(p.Name, ternary.Fill(p.Bits, fill))
		}
		if err := Settle(f.Engine, timeout); err != nil {
			r.Err = errors.Wrap(err, "inputs set to "+fill.String())
			break
		}
	}
	return f.add(r)
}

// Reset pulses the given input: drives it to polarity, then to its opposite,
// settling the circuit after each change.
//
func (f *Fixture) Reset(net string, polarity bool) error {
	p, ok := f.Ports.Input(net)
	if !ok {
		return errors.New("reset: no such input " + net)
	}
	if p.Bits != 1 {
		return errors.Errorf("reset: input %s: expected 1 bit, got %d", net, p.Bits)
	}
	for _, b := range []bool{polarity, !polarity} {
		f.Engine.SetInput(p.Name, ternary.FromBool(b))
		if err := Settle(f.Engine, f.timeout()); err != nil {
			return errors.Wrap(err, "reset")
		}
	}
	return nil
}

// Checker returns a new Checker for the fixture's circuit.
//
func (f *Fixture) Checker(opts Options) (*Checker, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = f.timeout()
	}
	return NewChecker(f.Interface, f.Engine, f.Ports, opts)
}

// Expect checks the circuit for a single input vector and records the results.
//
func (f *Fixture) Expect(in Vector, ref RefFunc, opts Options) ([]Result, error) {
	c, err := f.Checker(opts)
	if err != nil {
		return nil, err
	}
	rs := c.Expect(in, ref)
	f.Report.Add(rs...)
	return rs, nil
}

// TestFun checks the circuit against the reference function ref, using
// exhaustive or random input vectors depending on the number of free input
// bits. Configuration errors are returned, check results are recorded in
// f.Report.
//
func (f *Fixture) TestFun(ref RefFunc, opts Options) error {
	c, err := f.Checker(opts)
	if err != nil {
		return err
	}
	rs, _, err := c.Run(ref)
	if err != nil {
		return err
	}
	f.Report.Add(rs...)
	return nil
}
