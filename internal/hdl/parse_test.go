// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl_test

import (
	"testing"

	"github.com/db47h/hwcheck/internal/hdl"
	"github.com/google/go-cmp/cmp"
)

func TestParseIO(t *testing.T) {
	td := []struct {
		in   string
		pins []hdl.Pin
		err  string
	}{
		{"", nil, ""},
		{"a", []hdl.Pin{{"a", 1, 0}}, ""},
		{"in[2], sel", []hdl.Pin{{"in", 2, 0}, {"sel", 1, 7}}, ""},
		{" a_0 [16] ,b", []hdl.Pin{{"a_0", 16, 1}, {"b", 1, 11}}, ""},
		{"a, a", nil, `in "a, a" at pos 4: duplicate pin name a, got identifier`},
		{"a[", nil, `in "a[" at pos 3: missing bus size, got end of input`},
		{"a[0]", nil, `in "a[0]" at pos 3: zero bus size, got integer`},
		{"a[2", nil, `in "a[2" at pos 4: missing close bracket, got end of input`},
		{"a b", nil, `in "a b" at pos 3: expected bus size specification or comma, got identifier`},
		{"a,", nil, `in "a," at pos 3: expected pin name, got end of input`},
		{"a,%", nil, `in "a,%" at pos 3: expected pin name, got '%'`},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			pins, err := hdl.ParseIO(d.in)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Fatalf("Got error %q, expected %q", err, d.err)
			}
			if diff := cmp.Diff(d.pins, pins); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
