// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"math/rand"
	"sort"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

// Algo configures the handshake of algorithmic circuits: Start is an input
// asserted for one clock cycle, Ready an output reading 1 when the circuit is
// idle. Timeout is the maximum number of clock cycles to wait for Ready.
//
type Algo struct {
	Start   string
	Ready   string
	Timeout int // defaults to DefaultTimeout
}

// Options configures an equivalence check.
//
// Without Clock, the circuit is checked as combinational. With Clock set,
// each vector is one clock cycle and the reference function receives the
// outputs observed before the cycle. With Clock and Algo set, each vector is
// a start/ready handshake.
//
type Options struct {
	Clock             string
	Algo              *Algo
	Fixed             map[string]ternary.Vector
	Precondition      func(Vector) bool
	Timeout           int  // settle bound in steps, defaults to the fixture's
	NoUnknowns        bool // do not generate x input digits
	Wildcard          bool // x digits in expected values match anything
	Glitch            bool // combinational only
	ClockTestPolarity bool // drive the clock low again after each pulse
	MaxComplete       int  // exhaustive threshold in free bits, defaults to DefaultThreshold
	Trials            int  // random vector count, defaults to DefaultTrials
	MaxRejects        int
	Rand              *rand.Rand
}

// A Checker runs test vectors against a circuit and a reference function.
//
type Checker struct {
	iface InterfaceResult
	eng   Engine
	ports *hwcheck.PortSet
	opts  Options
}

// NewChecker returns a new Checker for the circuit driven by e, whose ports are
// ps. The options are checked against iface.Expected.
//
func NewChecker(iface InterfaceResult, e Engine, ps *hwcheck.PortSet, opts Options) (*Checker, error) {
	exp := iface.Expected
	checkNet := func(what, net string, m map[string]int) error {
		w, ok := m[net]
		if !ok {
			return errors.New(what + " " + net + ": no such port")
		}
		if w != 1 {
			return errors.Errorf("%s %s: expected 1 bit, got %d", what, net, w)
		}
		return nil
	}
	if opts.Clock != "" {
		if err := checkNet("clock", opts.Clock, exp.Inputs); err != nil {
			return nil, err
		}
	}
	if a := opts.Algo; a != nil {
		if opts.Clock == "" {
			return nil, errors.New("algorithmic mode requires a clock")
		}
		if err := checkNet("start", a.Start, exp.Inputs); err != nil {
			return nil, err
		}
		if err := checkNet("ready", a.Ready, exp.Outputs); err != nil {
			return nil, err
		}
	}
	if opts.Glitch && opts.Clock != "" {
		return nil, errors.New("glitch checking requires combinational mode")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Checker{iface: iface, eng: e, ports: ps, opts: opts}, nil
}

func (c *Checker) excluded() []string {
	ex := []string{c.opts.Clock}
	if c.opts.Algo != nil {
		ex = append(ex, c.opts.Algo.Start)
	}
	return ex
}

// Generator returns a vector generator configured from the checker's options.
// Clock and start inputs are excluded.
//
func (c *Checker) Generator() *Generator {
	var ps []hwcheck.Port
	for n, w := range c.iface.Expected.Inputs {
		ps = append(ps, hwcheck.Port{Name: n, Net: n, Bits: w})
	}
	sortPorts(ps)
	ex := make(map[string]bool)
	for _, n := range c.excluded() {
		if n != "" {
			ex[n] = true
		}
	}
	return &Generator{
		Ports:        ps,
		Exclude:      ex,
		Fixed:        c.opts.Fixed,
		Precondition: c.opts.Precondition,
		NoUnknowns:   c.opts.NoUnknowns,
		Threshold:    c.opts.MaxComplete,
		Trials:       c.opts.Trials,
		MaxRejects:   c.opts.MaxRejects,
		Rand:         c.opts.Rand,
	}
}

// Run generates input vectors and checks each of them. Configuration errors
// (bad fixed values, unsatisfiable precondition) are returned as errors, check
// failures are recorded in the returned results.
//
func (c *Checker) Run(ref RefFunc) ([]Result, Stats, error) {
	vs, s, err := c.Generator().Vectors()
	if err != nil {
		return nil, s, err
	}
	var rs []Result
	for _, v := range vs {
		rs = append(rs, c.Expect(v, ref)...)
	}
	return rs, s, nil
}

// Expect checks a single input vector. It returns the functional check result,
// followed by the glitch check result if enabled.
//
func (c *Checker) Expect(in Vector, ref RefFunc) []Result {
	switch {
	case c.opts.Clock == "":
		r := c.combinational(in, ref)
		if !c.opts.Glitch {
			return []Result{r}
		}
		return []Result{r, c.glitch(in, r)}
	case c.opts.Algo != nil:
		return []Result{c.algorithmic(in, ref)}
	default:
		return []Result{c.clocked(in, ref)}
	}
}

func sortPorts(ps []hwcheck.Port) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Net < ps[j].Net })
}

func (c *Checker) input(net string) (string, bool) {
	p, ok := c.ports.Input(net)
	return p.Name, ok
}

func (c *Checker) apply(in Vector) error {
	var err error
	in.Each(func(n string, v ternary.Vector) {
		if err != nil {
			return
		}
		p, ok := c.ports.Input(n)
		switch {
		case !ok:
			err = errors.New("no such input " + n)
		case p.Bits != v.Width():
			err = errors.Errorf("input %s: expected %d bits, got %d", n, p.Bits, v.Width())
		default:
			c.eng.SetInput(p.Name, v)
		}
	})
	return err
}

func (c *Checker) set(net string, v ternary.Vector) {
	name, _ := c.input(net)
	c.eng.SetInput(name, v)
}

func (c *Checker) output(net string) ternary.Vector {
	p, _ := c.ports.Output(net)
	return c.eng.Output(p.Name)
}

// outputs returns the current values of all outputs.
//
func (c *Checker) outputs() Vector {
	var v Vector
	for _, p := range c.ports.Outputs {
		v = v.Set(p.Net, c.eng.Output(p.Name))
	}
	return v
}

// compare sets r.Observed and r.Err from the current circuit outputs. Outputs
// in skip are not compared.
//
func (c *Checker) compare(r *Result, skip string) {
	r.Observed = c.outputs()
	for _, p := range c.ports.Outputs {
		if p.Net == skip {
			continue
		}
		obs := r.Observed.Value(p.Net)
		exp, ok := r.Expected.Get(p.Net)
		if !ok {
			r.Err = errors.New("reference function returned no value for output " + p.Net)
			return
		}
		if !exp.Match(obs, c.opts.Wildcard) {
			r.Err = &MismatchError{Net: p.Net, Expected: exp, Observed: obs}
			return
		}
	}
}

func (c *Checker) combinational(in Vector, ref RefFunc) Result {
	exp := ref(in, Vector{})
	r := Result{Name: in.String() + " " + exp.String(), Inputs: in, Expected: exp}
	if !c.iface.OK() {
		r.Err = ErrInterfaceInvalid
		return r
	}
	if r.Err = c.apply(in); r.Err != nil {
		return r
	}
	if r.Err = Settle(c.eng, c.opts.Timeout); r.Err != nil {
		return r
	}
	c.compare(&r, "")
	return r
}

func (c *Checker) clocked(in Vector, ref RefFunc) Result {
	in = in.Without(c.opts.Clock)
	r := Result{Name: in.String(), Inputs: in}
	if !c.iface.OK() {
		r.Err = ErrInterfaceInvalid
		return r
	}
	r.Expected = ref(in, c.outputs())
	if r.Err = c.apply(in); r.Err != nil {
		return r
	}
	clk, _ := c.input(c.opts.Clock)
	if r.Err = ClockPulse(c.eng, clk, c.opts.Timeout, c.opts.ClockTestPolarity); r.Err != nil {
		return r
	}
	c.compare(&r, "")
	return r
}

func (c *Checker) algorithmic(in Vector, ref RefFunc) Result {
	a := c.opts.Algo
	in = in.Without(c.opts.Clock, a.Start)
	exp := ref(in, Vector{})
	r := Result{Name: in.String() + " " + exp.Without(a.Ready).String(), Inputs: in, Expected: exp}
	if !c.iface.OK() {
		r.Err = ErrInterfaceInvalid
		return r
	}
	if rdy := c.output(a.Ready); !rdy.IsHigh() {
		r.Observed = c.outputs()
		r.Err = &NotReadyError{Ready: a.Ready, Observed: rdy}
		return r
	}
	if r.Err = c.apply(in); r.Err != nil {
		return r
	}
	clk, _ := c.input(c.opts.Clock)
	timeout := c.opts.Timeout
	c.set(a.Start, ternary.Ones(1))
	if r.Err = ClockPulse(c.eng, clk, timeout, false); r.Err != nil {
		return r
	}
	c.set(a.Start, ternary.Zeros(1))
	cycles := a.Timeout
	if cycles <= 0 {
		cycles = DefaultTimeout
	}
	for i := 0; i < cycles && !c.output(a.Ready).IsHigh(); i++ {
		if r.Err = ClockPulse(c.eng, clk, timeout, false); r.Err != nil {
			return r
		}
	}
	if rdy := c.output(a.Ready); !rdy.IsHigh() {
		r.Observed = c.outputs()
		r.Err = &HandshakeTimeoutError{Ready: a.Ready, Cycles: cycles, Observed: rdy}
		return r
	}
	c.compare(&r, a.Ready)
	return r
}
