// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semver

import "testing"

func TestParseAndString(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"0.8.0", false},
		{"1.2.3", false},
		{"1.2.3-alpha", false},
		{"1.2.3+build.1", false},
		{"1.2.3-alpha+build.1", false},
		{"v1.2.3", true},
		{"01.2.3", true},
		{"1.2", true},
		{"", true},
	}

	for _, c := range cases {
		v, err := Parse(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", c.in, v)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", c.in, err)
			continue
		}
		if v.String() != c.in {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, v.String(), c.in)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0-alpha", "1.0.0", 0}, // Compare ignores prerelease/build
	}

	for _, c := range cases {
		a := MustParse(c.a)
		b := MustParse(c.b)
		if got := a.Compare(b); got != c.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
