// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"strconv"
	"strings"

	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

// Sentinel failures. Use errors.Cause to compare wrapped errors.
//
var (
	// ErrInterfaceInvalid is reported by every check depending on a circuit
	// interface that failed validation.
	ErrInterfaceInvalid = errors.New("interface incorrect, aborting")
	// ErrCyclicCircuit is reported by the critical path analyzer when the
	// dependency graph has a cycle.
	ErrCyclicCircuit = errors.New("circuit is not acyclic")
	// ErrPreconditionUnsatisfiable is returned by the vector generator when
	// rejection sampling exceeds its bound.
	ErrPreconditionUnsatisfiable = errors.New("precondition rejected too many random vectors")
)

// PortError describes a port that does not match the expected interface.
// Want is 0 for unexpected ports, Got is 0 for missing ones.
//
type PortError struct {
	Dir       string // "input" or "output"
	Net       string
	Want, Got int
}

func (e *PortError) Error() string {
	switch {
	case e.Got == 0:
		return e.Dir + " " + e.Net + ": missing, expected " + strconv.Itoa(e.Want) + " bits"
	case e.Want == 0:
		return e.Dir + " " + e.Net + ": unexpected port with " + strconv.Itoa(e.Got) + " bits"
	}
	return e.Dir + " " + e.Net + ": expected " + strconv.Itoa(e.Want) + " bits, got " + strconv.Itoa(e.Got)
}

// InterfaceError lists all offending ports of a circuit interface. Diff holds
// a human readable difference between the expected and declared interfaces.
//
type InterfaceError struct {
	Ports []*PortError
	Diff  string
}

func (e *InterfaceError) Error() string {
	var b strings.Builder
	b.WriteString("interface mismatch")
	for _, p := range e.Ports {
		b.WriteString("; ")
		b.WriteString(p.Error())
	}
	if e.Diff != "" {
		b.WriteString("\n(-expected +declared):\n")
		b.WriteString(e.Diff)
	}
	return b.String()
}

// PrimitiveError reports a device whose type is not allowed.
//
type PrimitiveError struct {
	Circuit string
	Device  string
	Type    string
}

func (e *PrimitiveError) Error() string {
	return e.Circuit + ": device " + e.Device + ": primitive " + e.Type + " not allowed"
}

// MemoryPortError reports a memory device exceeding the allowed port counts or
// using the wrong read port type.
//
type MemoryPortError struct {
	Circuit string
	Device  string
	Reason  string
}

func (e *MemoryPortError) Error() string {
	return e.Circuit + ": memory " + e.Device + ": " + e.Reason
}

// CriticalPathError reports an output whose worst case propagation delay
// exceeds the bound.
//
type CriticalPathError struct {
	Output string
	Delay  int
	Bound  int
}

func (e *CriticalPathError) Error() string {
	return "output " + e.Output + ": critical path " + strconv.Itoa(e.Delay) + " exceeds " + strconv.Itoa(e.Bound)
}

// SettlementTimeoutError reports a circuit that still had pending events after
// the given number of simulation steps.
//
type SettlementTimeoutError struct {
	Steps int
}

func (e *SettlementTimeoutError) Error() string {
	return "circuit not settled after " + strconv.Itoa(e.Steps) + " steps"
}

// NotReadyError reports an algorithmic circuit that was not ready before a
// start request.
//
type NotReadyError struct {
	Ready    string
	Observed ternary.Vector
}

func (e *NotReadyError) Error() string {
	return "ready output " + e.Ready + " is " + e.Observed.String() + " before start, expected 1"
}

// HandshakeTimeoutError reports an algorithmic circuit that did not assert its
// ready output within the cycle bound.
//
type HandshakeTimeoutError struct {
	Ready    string
	Cycles   int
	Observed ternary.Vector
}

func (e *HandshakeTimeoutError) Error() string {
	return "ready output " + e.Ready + " is " + e.Observed.String() + " after " + strconv.Itoa(e.Cycles) + " cycles"
}

// MismatchError reports an output that differs from the reference value.
//
type MismatchError struct {
	Net      string
	Expected ternary.Vector
	Observed ternary.Vector
}

func (e *MismatchError) Error() string {
	return "output " + e.Net + ": expected " + e.Expected.String() + ", got " + e.Observed.String()
}

// GlitchViolation is a second transition of output bit OutBit after flipping
// input bit InBit.
//
type GlitchViolation struct {
	Input  string
	InBit  int
	Output string
	OutBit int
	Step   int
}

func (v GlitchViolation) String() string {
	return v.Input + "[" + strconv.Itoa(v.InBit) + "] -> " + v.Output + "[" + strconv.Itoa(v.OutBit) + "] at step " + strconv.Itoa(v.Step)
}

// GlitchError lists all glitches found for a test vector.
//
type GlitchError struct {
	Violations []GlitchViolation
}

func (e *GlitchError) Error() string {
	var b strings.Builder
	b.WriteString("glitch: ")
	for i, v := range e.Violations {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// Errors is a list of errors reported by a single check.
//
type Errors []error

func (e Errors) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}
