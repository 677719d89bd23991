// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"strconv"

	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwlib"
)

// AuditPrimitives checks the device types used in all circuits of m.
//
// In allow mode (deny == false), only the primitive types and classes in prims
// plus the base primitives (Input, Output, Constant) are allowed. In deny
// mode, the types and classes in prims are forbidden, except for the base
// primitives. Class names are expanded
// by hwlib.Group. Subcircuit instances are never reported; their contents are
// audited with the circuit they instantiate.
//
// AuditPrimitives returns one *PrimitiveError per offending device.
//
func AuditPrimitives(m *hwcheck.Model, prims []string, deny bool) []error {
	set := hwlib.Expand(prims...)
	for _, b := range hwlib.Base {
		set[b] = !deny
	}
	var errs []error
	for _, c := range m.Circuits {
		for _, d := range c.Devices {
			if _, ok := d.(*hwcheck.Subcircuit); ok {
				continue
			}
			if set[d.Type()] == deny {
				errs = append(errs, &PrimitiveError{Circuit: c.Name, Device: d.Name(), Type: d.Type()})
			}
		}
	}
	return errs
}

// ReadType restricts the kind of memory read ports.
//
type ReadType int

// Supported ReadTypes.
//
const (
	ReadAny ReadType = iota
	ReadSync
	ReadAsync
)

func (r ReadType) String() string {
	switch r {
	case ReadSync:
		return "sync"
	case ReadAsync:
		return "async"
	}
	return "any"
}

// CheckMemoryPorts checks that every memory device in m has at most rd read
// ports and wr write ports, and that read ports are of the given type.
// A negative rd or wr disables the corresponding count check.
//
func CheckMemoryPorts(m *hwcheck.Model, rd, wr int, rt ReadType) []error {
	var errs []error
	for _, c := range m.Circuits {
		for _, d := range c.Devices {
			mem, ok := d.(*hwcheck.Memory)
			if !ok {
				continue
			}
			fail := func(reason string) {
				errs = append(errs, &MemoryPortError{Circuit: c.Name, Device: mem.Label, Reason: reason})
			}
			if rd >= 0 && len(mem.ReadPorts) > rd {
				fail("too many read ports: " + strconv.Itoa(len(mem.ReadPorts)) + ", max " + strconv.Itoa(rd))
			}
			if wr >= 0 && len(mem.WritePorts) > wr {
				fail("too many write ports: " + strconv.Itoa(len(mem.WritePorts)) + ", max " + strconv.Itoa(wr))
			}
			for i, p := range mem.ReadPorts {
				switch {
				case rt == ReadSync && p.Clocked == nil:
					fail("read port " + strconv.Itoa(i) + " is asynchronous, expected synchronous")
				case rt == ReadAsync && p.Clocked != nil:
					fail("read port " + strconv.Itoa(i) + " is synchronous, expected asynchronous")
				}
			}
		}
	}
	return errs
}
