// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/hwcheck/ternary"
)

// Engine is the simulation engine driving a circuit under test. Ports are
// designated by the name of their Input or Output device. sim.Circuit
// implements Engine.
//
type Engine interface {
	// SetInput drives an input port. The change takes effect on the next
	// Step.
	SetInput(port string, v ternary.Vector)
	// Output returns the current value of an output port.
	Output(port string) ternary.Vector
	// HasPendingEvents returns true if the circuit is not settled.
	HasPendingEvents() bool
	// Step processes the next batch of pending events.
	Step()
}

// DefaultTimeout is the default number of steps allowed for a circuit to settle.
//
const DefaultTimeout = 100

// Settle steps e until it has no pending events, at most timeout times.
//
func Settle(e Engine, timeout int) error {
	for i := 0; i < timeout && e.HasPendingEvents(); i++ {
		e.Step()
	}
	if e.HasPendingEvents() {
		return &SettlementTimeoutError{Steps: timeout}
	}
	return nil
}

// ClockPulse settles e, then drives clk low and high, settling the circuit
// after each transition. If full is set, clk is driven low again, which
// exercises devices triggered on the falling edge.
//
func ClockPulse(e Engine, clk string, timeout int, full bool) error {
	if err := Settle(e, timeout); err != nil {
		return err
	}
	levels := []ternary.Vector{ternary.Zeros(1), ternary.Ones(1)}
	if full {
		levels = append(levels, ternary.Zeros(1))
	}
	for _, v := range levels {
		e.SetInput(clk, v)
		if err := Settle(e, timeout); err != nil {
			return err
		}
	}
	return nil
}
