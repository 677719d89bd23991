// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/hwcheck/ternary"
)

// glitch checks that flipping any single input bit from the stable state
// reached with in makes each output bit change at most once.
//
// For each input bit, the circuit is settled with in, the bit is flipped, then
// the circuit is single stepped. An output bit glitches if it makes a definite
// 0/1 transition after it already changed since the flip.
//
func (c *Checker) glitch(in Vector, fr Result) Result {
	r := Result{Name: "glitch " + fr.Name, Inputs: in, Expected: fr.Expected}
	if !c.iface.OK() {
		r.Err = ErrInterfaceInvalid
		return r
	}
	if fr.Err != nil {
		r.Skipped = true
		return r
	}
	timeout := c.opts.Timeout
	if r.Err = c.apply(in); r.Err != nil {
		return r
	}
	if r.Err = Settle(c.eng, timeout); r.Err != nil {
		return r
	}
	var vs []GlitchViolation
	for _, net := range in.Nets() {
		v := in.Value(net)
		for i := 0; i < v.Width(); i++ {
			c.set(net, v)
			if r.Err = Settle(c.eng, timeout); r.Err != nil {
				return r
			}
			prev := make([]ternary.Vector, len(c.ports.Outputs))
			seen := make([]ternary.Vector, len(c.ports.Outputs))
			for k, p := range c.ports.Outputs {
				prev[k] = c.eng.Output(p.Name)
				seen[k] = ternary.Zeros(prev[k].Width())
			}
			c.set(net, v.Xor(ternary.Bit(v.Width(), i)))
			for step := 1; step <= timeout && c.eng.HasPendingEvents(); step++ {
				c.eng.Step()
				for k, p := range c.ports.Outputs {
					cur := c.eng.Output(p.Name)
					mask := cur.Xor(prev[k])
					if again := mask.And(seen[k]); again.ReduceOr().IsHigh() {
						for j := 0; j < again.Width(); j++ {
							if again.Digit(j) == ternary.One {
								vs = append(vs, GlitchViolation{Input: net, InBit: i, Output: p.Net, OutBit: j, Step: step})
							}
						}
					}
					prev[k] = cur
					seen[k] = seen[k].Or(mask)
				}
			}
			if c.eng.HasPendingEvents() {
				r.Err = &SettlementTimeoutError{Steps: timeout}
				return r
			}
		}
	}
	// back to the stable state for in
	if r.Err = c.apply(in); r.Err != nil {
		return r
	}
	if r.Err = Settle(c.eng, timeout); r.Err != nil {
		return r
	}
	r.Observed = c.outputs()
	if len(vs) > 0 {
		r.Err = &GlitchError{Violations: vs}
	}
	return r
}
