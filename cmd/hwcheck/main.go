// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwcheck runs the structural checks of the hwcheck harness on a JSON
// netlist:
//
//	hwcheck -in 'a[4], b[4], cin' -out 'o[4], cout' -prims gate -critical 20 adder.json
//
// Without -in and -out, the interface declared by the netlist is taken as
// expected and not reported. It exits with status 1 if any check fails.
//
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/db47h/hwcheck"
	"github.com/db47h/hwcheck/hwtest"
	"github.com/db47h/hwcheck/sim"
	"github.com/pkg/errors"
)

var (
	errUsage  = errors.New("usage")
	errFailed = errors.New("checks failed")
)

func readType(s string) (hwtest.ReadType, error) {
	switch s {
	case "", "any":
		return hwtest.ReadAny, nil
	case "sync":
		return hwtest.ReadSync, nil
	case "async":
		return hwtest.ReadAsync, nil
	}
	return hwtest.ReadAny, errors.New("invalid read port type " + s)
}

func splitList(s string) []string {
	var l []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			l = append(l, f)
		}
	}
	return l
}

func writeDot(m *hwcheck.Model, name string) error {
	g, err := hwtest.BuildGraph(m)
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = g.WriteDot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// run executes the command with the given arguments. It returns errUsage on
// bad usage and errFailed if any check fails.
//
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hwcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		in       = fs.String("in", "", "expected `inputs`, e.g. \"a[4], b\"")
		out      = fs.String("out", "", "expected `outputs`")
		prims    = fs.String("prims", "", "comma separated list of allowed primitives or classes (gate, arith, mux, dff, mem, bus)")
		deny     = fs.Bool("deny", false, "treat -prims as a list of forbidden primitives")
		rd       = fs.Int("rd", -1, "maximum number of memory read ports, -1 for no limit")
		wr       = fs.Int("wr", -1, "maximum number of memory write ports, -1 for no limit")
		read     = fs.String("read", "any", "memory read port `type`: any, sync or async")
		critical = fs.Int("critical", 0, "maximum critical path delay, 0 to disable")
		settle   = fs.Int("settle", 0, "maximum settle `steps` of the simulated circuit, 0 to disable")
		dot      = fs.String("dot", "", "write the dependency graph to `file` in Graphviz format")
		dump     = fs.Bool("dump", false, "dump the loaded model")
	)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hwcheck [flags] netlist.json")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	rt, err := readType(*read)
	if err != nil {
		return err
	}
	m, err := hwcheck.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if *dump {
		spew.Fdump(stderr, m)
	}

	checkIface := *in != "" || *out != ""
	iface := hwtest.InterfaceOf(m.Ports())
	if checkIface {
		if iface, err = hwtest.ParseInterface(*in, *out); err != nil {
			return err
		}
	}

	var eng hwtest.Engine
	if *settle > 0 {
		c, err := sim.New(m)
		if err != nil {
			return err
		}
		eng = c
	}
	f, err := hwtest.NewFixture(m, eng, iface)
	if err != nil {
		return err
	}
	if checkIface {
		f.TestInterface()
	}
	if *prims != "" {
		f.TestPrimitives(splitList(*prims), *deny)
	}
	f.TestMemoryPorts(*rd, *wr, rt)
	if *critical > 0 {
		f.TestCriticalPath(*critical)
	}
	if *settle > 0 {
		f.TestSettleTime(*settle)
	}
	if *dot != "" {
		if err = writeDot(m, *dot); err != nil {
			log.Print(err)
		}
	}

	fmt.Fprint(stdout, f.Report.String())
	if !f.Report.OK() {
		if *dump {
			f.Report.Dump(stderr)
		}
		return errFailed
	}
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("hwcheck: ")

	switch err := run(os.Args[1:], os.Stdout, os.Stderr); err {
	case nil:
	case flag.ErrHelp:
	case errUsage:
		os.Exit(2)
	case errFailed:
		os.Exit(1)
	default:
		log.Fatal(err)
	}
}
