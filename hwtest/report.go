// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// Result is the outcome of a single check.
//
type Result struct {
	Name     string
	Err      error
	Skipped  bool
	Inputs   Vector
	Expected Vector
	Observed Vector
}

// Passed returns true if the check ran and succeeded.
//
func (r Result) Passed() bool { return !r.Skipped && r.Err == nil }

func (r Result) String() string {
	switch {
	case r.Skipped:
		return "SKIP " + r.Name
	case r.Err == nil:
		return "PASS " + r.Name
	}
	var b strings.Builder
	b.WriteString("FAIL ")
	b.WriteString(r.Name)
	b.WriteString(": ")
	b.WriteString(r.Err.Error())
	if r.Inputs.Len() > 0 {
		fmt.Fprintf(&b, "\n\tinputs:   %v", r.Inputs)
	}
	if r.Expected.Len() > 0 {
		fmt.Fprintf(&b, "\n\texpected: %v", r.Expected)
	}
	if r.Observed.Len() > 0 {
		fmt.Fprintf(&b, "\n\tobserved: %v", r.Observed)
	}
	return b.String()
}

// A Report collects check results.
//
type Report struct {
	Results []Result
}

// Add appends results to the report.
//
func (r *Report) Add(rs ...Result) {
	r.Results = append(r.Results, rs...)
}

// Failed returns the failed results.
//
func (r *Report) Failed() []Result {
	var fs []Result
	for i := range r.Results {
		if res := &r.Results[i]; !res.Skipped && res.Err != nil {
			fs = append(fs, *res)
		}
	}
	return fs
}

// OK returns true if no check failed.
//
func (r *Report) OK() bool { return len(r.Failed()) == 0 }

// Counts returns the number of passed, failed and skipped results.
//
func (r *Report) Counts() (passed, failed, skipped int) {
	for i := range r.Results {
		switch res := &r.Results[i]; {
		case res.Skipped:
			skipped++
		case res.Err != nil:
			failed++
		default:
			passed++
		}
	}
	return
}

func (r *Report) String() string {
	var b strings.Builder
	for i := range r.Results {
		b.WriteString(r.Results[i].String())
		b.WriteRune('\n')
	}
	p, f, s := r.Counts()
	fmt.Fprintf(&b, "%d passed, %d failed, %d skipped\n", p, f, s)
	return b.String()
}

// Run replays every result as a subtest of t.
//
func (r *Report) Run(t *testing.T) {
	t.Helper()
	for i := range r.Results {
		res := &r.Results[i]
		t.Run(res.Name, func(t *testing.T) {
			switch {
			case res.Skipped:
				t.Skip("skipped")
			case res.Err != nil:
				t.Error(res.String())
			}
		})
	}
}

// Dump writes a detailed dump of all failed results to w.
//
func (r *Report) Dump(w io.Writer) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	for _, res := range r.Failed() {
		fmt.Fprintf(w, "%s\n", res.Name)
		cfg.Fdump(w, res.Err)
	}
}
