// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semver

import "testing"

func TestParseExpressionCaret(t *testing.T) {
	e, err := ParseExpression("^0.8.0")
	if err != nil {
		t.Fatalf("ParseExpression: unexpected error: %v", err)
	}

	in := []string{"0.8.0", "0.8.13"}
	for _, s := range in {
		if !e.Contains(MustParse(s)) {
			t.Errorf("expected %s to be contained in %q", s, e.String())
		}
	}

	out := []string{"0.9.0", "0.7.9"}
	for _, s := range out {
		if e.Contains(MustParse(s)) {
			t.Errorf("expected %s to NOT be contained in %q", s, e.String())
		}
	}
}

func TestParseExpressionDisjunction(t *testing.T) {
	e, err := ParseExpression(">=0.8.0 <0.8.5 || >=0.8.10 <0.9.0")
	if err != nil {
		t.Fatalf("ParseExpression: unexpected error: %v", err)
	}

	for _, s := range []string{"0.8.0", "0.8.4", "0.8.10", "0.8.20"} {
		if !e.Contains(MustParse(s)) {
			t.Errorf("expected %s to be contained in %q", s, e.String())
		}
	}
	for _, s := range []string{"0.8.5", "0.8.9", "0.9.0"} {
		if e.Contains(MustParse(s)) {
			t.Errorf("expected %s to NOT be contained in %q", s, e.String())
		}
	}
}

func TestParseExpressionEmpty(t *testing.T) {
	if _, err := ParseExpression(""); err == nil {
		t.Error("ParseExpression(\"\"): expected error")
	}
	if _, err := ParseExpression("   "); err == nil {
		t.Error("ParseExpression(\"   \"): expected error")
	}
	if _, err := ParseExpression("1.0.0 ||"); err == nil {
		t.Error("ParseExpression with trailing empty disjunct: expected error")
	}
}

func TestRangesIntersectCommutative(t *testing.T) {
	a, err := ParseExpression("^1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseExpression(">=1.0.0 <2.0.0")
	if err != nil {
		t.Fatal(err)
	}

	ab := a.Ranges().Intersect(b.Ranges())
	ba := b.Ranges().Intersect(a.Ranges())

	for _, s := range []string{"1.2.0", "1.5.0", "1.9.9"} {
		v := MustParse(s)
		if ab.Contains(v) != ba.Contains(v) {
			t.Errorf("intersection not commutative at %s: a∩b=%v b∩a=%v", s, ab.Contains(v), ba.Contains(v))
		}
	}
}

func TestEmptyRangeIdempotent(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Error("Empty.IsEmpty() = false, want true")
	}
	again := Empty.Intersect(Empty)
	if !again.IsEmpty() {
		t.Error("Empty.Intersect(Empty).IsEmpty() = false, want true")
	}
	if Empty.Contains(Zero) {
		t.Error("Empty.Contains(Zero) = true, want false")
	}
}
