// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sourceunit

import "testing"

func TestParseRemapping(t *testing.T) {
	cases := []struct {
		in      string
		want    Remapping
		wantErr bool
	}{
		{"zeppelin/=node_modules/@openzeppelin/", Remapping{Prefix: "zeppelin/", Target: "node_modules/@openzeppelin/"}, false},
		{"main:zeppelin/=node_modules/@openzeppelin/", Remapping{Context: "main", Prefix: "zeppelin/", Target: "node_modules/@openzeppelin/"}, false},
		{"zeppelin/=", Remapping{Prefix: "zeppelin/", Target: ""}, false},
		{"noequals", Remapping{}, true},
		{"=target", Remapping{}, true},
	}

	for _, c := range cases {
		got, err := ParseRemapping(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseRemapping(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRemapping(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseRemapping(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestApplyRemappingsLongestPrefixWins(t *testing.T) {
	remappings := []Remapping{
		{Prefix: "a/", Target: "X/"},
		{Prefix: "a/b/", Target: "Y/"},
	}
	got := applyRemappings(remappings, "main.sol", "a/b/Token.sol")
	want := "Y/Token.sol"
	if got != want {
		t.Errorf("applyRemappings = %q, want %q", got, want)
	}
}

func TestApplyRemappingsContextScoped(t *testing.T) {
	remappings := []Remapping{
		{Context: "lib/", Prefix: "x/", Target: "LIB_X/"},
	}

	if got := applyRemappings(remappings, "lib/Foo.sol", "x/Bar.sol"); got != "LIB_X/Bar.sol" {
		t.Errorf("in-context remap = %q, want LIB_X/Bar.sol", got)
	}
	if got := applyRemappings(remappings, "main/Foo.sol", "x/Bar.sol"); got != "x/Bar.sol" {
		t.Errorf("out-of-context remap = %q, want unchanged x/Bar.sol", got)
	}
}

func TestRemappingStringRoundTrip(t *testing.T) {
	cases := []string{"zeppelin/=node_modules/@openzeppelin/", "main:zeppelin/=node_modules/@openzeppelin/"}
	for _, s := range cases {
		r, err := ParseRemapping(s)
		if err != nil {
			t.Fatalf("ParseRemapping(%q): %v", s, err)
		}
		if got := r.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}
