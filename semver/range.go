// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semver

// Range is a lower bound (inclusive or exclusive) and an optional upper
// bound. An unset lower bound is treated as 0.0.0 inclusive. Range values
// are immutable; every mutating-looking operation returns a new Range.
//
// The canonical empty range is (0.0.0, exclusive, 0.0.0, exclusive) — see
// Empty below and IsEmpty.
type Range struct {
	Lower          Version
	LowerInclusive bool
	// Upper is nil for an unbounded ("+∞") upper bound.
	Upper          *Version
	UpperInclusive bool
}

// Empty is the canonical representation of the empty range.
var Empty = Range{Lower: Zero, LowerInclusive: false, Upper: &Version{}, UpperInclusive: false}

// NewRange builds a Range from explicit bounds. A nil lower bound defaults
// to 0.0.0 inclusive. If the resulting interval is empty per the invariant
// (lower > upper, or lower == upper with at least one endpoint exclusive,
// except inclusive/inclusive which denotes the single version), the
// canonical Empty range is returned instead.
func NewRange(lower *Version, lowerInclusive bool, upper *Version, upperInclusive bool) Range {
	lo := Zero
	loInc := true
	if lower != nil {
		lo = *lower
		loInc = lowerInclusive
	}

	if upper == nil {
		return Range{Lower: lo, LowerInclusive: loInc}
	}

	hi := *upper
	switch lo.Compare(hi) {
	case 1:
		return Empty
	case 0:
		if !loInc || !upperInclusive {
			return Empty
		}
	}
	return Range{Lower: lo, LowerInclusive: loInc, Upper: &hi, UpperInclusive: upperInclusive}
}

// IsEmpty reports whether r denotes the empty set of versions.
func (r Range) IsEmpty() bool {
	return r.Lower.Equal(Zero) && !r.LowerInclusive &&
		r.Upper != nil && r.Upper.Equal(Zero) && !r.UpperInclusive
}

// Contains reports whether v falls within r.
func (r Range) Contains(v Version) bool {
	if r.IsEmpty() {
		return false
	}
	lowerOK := v.Compare(r.Lower) > 0 || (r.LowerInclusive && v.Equal(r.Lower))
	if !lowerOK {
		return false
	}
	if r.Upper == nil {
		return true
	}
	return v.Compare(*r.Upper) < 0 || (r.UpperInclusive && v.Equal(*r.Upper))
}

// Intersect computes the intersection of r and other: the stricter lower
// bound (exclusive dominates on a numeric tie) and the stricter upper bound
// (absent upper = +∞, also exclusive-dominates on a tie).
func (r Range) Intersect(other Range) Range {
	if r.IsEmpty() || other.IsEmpty() {
		return Empty
	}

	lower, lowerInc := r.Lower, r.LowerInclusive
	switch r.Lower.Compare(other.Lower) {
	case -1:
		lower, lowerInc = other.Lower, other.LowerInclusive
	case 0:
		if !other.LowerInclusive {
			lowerInc = false
		}
	}

	var upper *Version
	var upperInc bool
	switch {
	case r.Upper == nil:
		upper, upperInc = other.Upper, other.UpperInclusive
	case other.Upper == nil:
		upper, upperInc = r.Upper, r.UpperInclusive
	default:
		switch r.Upper.Compare(*other.Upper) {
		case 1:
			upper, upperInc = other.Upper, other.UpperInclusive
		case -1:
			upper, upperInc = r.Upper, r.UpperInclusive
		default:
			u := *r.Upper
			upper = &u
			upperInc = r.UpperInclusive && other.UpperInclusive
		}
	}

	return NewRange(&lower, lowerInc, upper, upperInc)
}

// String renders r as ">=lower <=upper"-style text, matching the
// SolidityVersionRange.__str__ convention it is grounded on.
func (r Range) String() string {
	s := ""
	if r.LowerInclusive {
		s += ">="
	} else {
		s += ">"
	}
	s += r.Lower.String()
	if r.Upper != nil {
		if r.UpperInclusive {
			s += " <="
		} else {
			s += " <"
		}
		s += r.Upper.String()
	}
	return s
}

// Ranges is an ordered sequence of Range, interpreted as their union.
type Ranges []Range

// Any is the unbounded "matches every version" Ranges value.
func Any() Ranges { return Ranges{NewRange(nil, true, nil, false)} }

// Contains reports whether v is a member of any contained range.
func (rs Ranges) Contains(v Version) bool {
	for _, r := range rs {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// Intersect returns the set of non-empty pairwise intersections between rs
// and other, i.e. the union-of-intersections interpretation required for
// disjunctive expressions.
func (rs Ranges) Intersect(other Ranges) Ranges {
	var out Ranges
	for _, a := range rs {
		for _, b := range other {
			ix := a.Intersect(b)
			if !ix.IsEmpty() {
				out = append(out, ix)
			}
		}
	}
	return out
}

// IsEmpty reports whether rs contains no non-empty range, i.e. can never
// match any version.
func (rs Ranges) IsEmpty() bool {
	for _, r := range rs {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

func (rs Ranges) String() string {
	if len(rs) == 0 {
		return Empty.String()
	}
	s := rs[0].String()
	for _, r := range rs[1:] {
		s += " || " + r.String()
	}
	return s
}
