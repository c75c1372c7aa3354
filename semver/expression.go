// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semver

import (
	"regexp"
	"strconv"
	"strings"
)

// Expression is a parsed pragma-like version constraint string ("^0.8.0",
// ">=1.0.0 <2.0.0 || ~3.1", etc). It holds both the original text and the
// Ranges it evaluates to.
type Expression struct {
	text   string
	ranges Ranges
}

// Ranges returns the parsed, evaluated constraint.
func (e Expression) Ranges() Ranges { return e.ranges }

// String returns the original expression text.
func (e Expression) String() string { return e.text }

// Contains reports whether v satisfies the expression.
func (e Expression) Contains(v Version) bool { return e.ranges.Contains(v) }

const numberPattern = `x|X|\*|0|[1-9][0-9]*`

var (
	partialPattern = `(?P<major>` + numberPattern + `)\s*(?:\.\s*(?P<minor>` + numberPattern + `))?\s*(?:\.\s*(?P<patch>` + numberPattern + `))?`
	partialRe      = regexp.MustCompile(`^\s*` + partialPattern + `\s*$`)
	atomPattern    = `(?P<operator>\^|~|<=|<|>=|>|=)?\s*` + partialPattern
	atomRe         = regexp.MustCompile(`\s*` + atomPattern + `\s*`)
	disjunctRe     = regexp.MustCompile(`^(\s*` + atomPattern + `\s*)+$`)
)

// partial is a parsed (possibly wildcarded) version triple: a nil field
// means "x"/"X"/"*"/absent, legal only at the rightmost present position.
type partial struct {
	major, minor, patch *int
}

// ParseExpression parses a pragma-like version constraint expression.
func ParseExpression(expr string) (Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return Expression{}, &EmptyVersionExpressionError{Value: expr}
	}

	var all Ranges
	for _, disjunct := range strings.Split(expr, "||") {
		if strings.TrimSpace(disjunct) == "" {
			return Expression{}, &EmptyVersionExpressionError{Value: expr}
		}
		var r Range
		var err error
		if strings.Contains(disjunct, "-") {
			r, err = parseHyphenRange(disjunct)
		} else {
			r, err = parseRange(disjunct)
		}
		if err != nil {
			return Expression{}, err
		}
		all = append(all, r)
	}

	return Expression{text: expr, ranges: all}, nil
}

func parseRange(s string) (Range, error) {
	if !disjunctRe.MatchString(s) {
		return Range{}, &InvalidVersionExpressionError{Value: s, Reason: "does not match the atom grammar"}
	}

	matches := atomRe.FindAllStringSubmatch(s, -1)
	ret := NewRange(nil, true, nil, false)
	for _, m := range matches {
		if strings.TrimSpace(m[0]) == "" {
			continue
		}
		r, err := evalAtom(m, atomRe.SubexpNames())
		if err != nil {
			return Range{}, err
		}
		ret = ret.Intersect(r)
	}
	return ret, nil
}

func parseHyphenRange(s string) (Range, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Range{}, &InvalidVersionExpressionError{Value: s, Reason: "hyphen range must have exactly two sides"}
	}
	left, err := parsePartialString(parts[0], s)
	if err != nil {
		return Range{}, err
	}
	right, err := parsePartialString(parts[1], s)
	if err != nil {
		return Range{}, err
	}
	lo := evalGE(left)
	hi := evalLE(right)
	return lo.Intersect(hi), nil
}

func parsePartialString(s, whole string) (partial, error) {
	m := partialRe.FindStringSubmatch(s)
	if m == nil {
		return partial{}, &InvalidVersionExpressionError{Value: whole, Reason: "invalid hyphen range operand " + strconv.Quote(s)}
	}
	return parsePartialMatch(m, partialRe.SubexpNames())
}

func parsePartialMatch(m []string, names []string) (partial, error) {
	get := func(name string) string {
		for i, n := range names {
			if n == name {
				return m[i]
			}
		}
		return ""
	}
	toField := func(raw string) (*int, error) {
		switch raw {
		case "", "x", "X", "*":
			return nil, nil
		default:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, err
			}
			return &n, nil
		}
	}

	major, err := toField(get("major"))
	if err != nil {
		return partial{}, err
	}
	minor, err := toField(get("minor"))
	if err != nil {
		return partial{}, err
	}
	patch, err := toField(get("patch"))
	if err != nil {
		return partial{}, err
	}

	// partials must be in ascending wildcard order: 1.0.x, 1.x.x, x.x.x —
	// never x.0.1 or 1.x.5.
	if major == nil && (minor != nil || patch != nil) {
		return partial{}, &InvalidVersionExpressionError{Reason: "wildcard major may not precede a concrete minor/patch"}
	}
	if minor == nil && patch != nil {
		return partial{}, &InvalidVersionExpressionError{Reason: "wildcard minor may not precede a concrete patch"}
	}
	return partial{major: major, minor: minor, patch: patch}, nil
}

func evalAtom(m []string, names []string) (Range, error) {
	get := func(name string) string {
		for i, n := range names {
			if n == name {
				return m[i]
			}
		}
		return ""
	}
	p, err := parsePartialMatch(m, names)
	if err != nil {
		return Range{}, err
	}
	op := get("operator")

	switch op {
	case "^":
		return evalCaret(p)
	case "~":
		return evalTilde(p)
	case "<":
		return evalLT(p)
	case "<=":
		return evalLE(p), nil
	case ">":
		return evalGT(p)
	case ">=":
		return evalGE(p), nil
	case "=", "":
		return evalEQ(p), nil
	default:
		return Range{}, &InvalidVersionExpressionError{Reason: "unknown operator " + op}
	}
}

func v(major, minor, patch int) Version { return Version{Major: major, Minor: minor, Patch: patch} }

func or0(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func evalCaret(p partial) (Range, error) {
	if p.major == nil {
		return Range{}, &InvalidVersionExpressionError{Reason: "^ requires a major version"}
	}
	major := *p.major
	switch {
	case p.minor == nil:
		// ^1.x.x := >=1.0.0 <2.0.0
		return NewRange(ptr(v(major, 0, 0)), true, ptr(v(major+1, 0, 0)), false), nil
	case p.patch == nil:
		if major != 0 {
			return NewRange(ptr(v(major, *p.minor, 0)), true, ptr(v(major+1, 0, 0)), false), nil
		}
		return NewRange(ptr(v(major, *p.minor, 0)), true, ptr(v(major, *p.minor+1, 0)), false), nil
	case major != 0:
		return NewRange(ptr(v(major, *p.minor, *p.patch)), true, ptr(v(major+1, 0, 0)), false), nil
	case *p.minor != 0:
		return NewRange(ptr(v(major, *p.minor, *p.patch)), true, ptr(v(major, *p.minor+1, 0)), false), nil
	default:
		return NewRange(ptr(v(major, 0, *p.patch)), true, ptr(v(major, 0, *p.patch+1)), false), nil
	}
}

func evalTilde(p partial) (Range, error) {
	if p.major == nil {
		return Range{}, &InvalidVersionExpressionError{Reason: "~ requires a major version"}
	}
	major := *p.major
	if p.minor == nil {
		return NewRange(ptr(v(major, 0, 0)), true, ptr(v(major+1, 0, 0)), false), nil
	}
	minor := *p.minor
	return NewRange(ptr(v(major, minor, or0(p.patch))), true, ptr(v(major, minor+1, 0)), false), nil
}

func evalLT(p partial) (Range, error) {
	if p.major == nil {
		return Range{}, &InvalidVersionExpressionError{Reason: "< requires a major version"}
	}
	return NewRange(nil, true, ptr(v(*p.major, or0(p.minor), or0(p.patch))), false), nil
}

func evalLE(p partial) Range {
	if p.major == nil {
		// a wildcard major ("<=x", or "x" as a hyphen range's upper side)
		// leaves the upper bound open.
		return NewRange(nil, true, nil, false)
	}
	major := *p.major
	switch {
	case p.minor == nil:
		return NewRange(nil, true, ptr(v(major+1, 0, 0)), false)
	case p.patch == nil:
		return NewRange(nil, true, ptr(v(major, *p.minor+1, 0)), false)
	default:
		return NewRange(nil, true, ptr(v(major, *p.minor, *p.patch)), true)
	}
}

func evalGT(p partial) (Range, error) {
	if p.major == nil {
		return Range{}, &InvalidVersionExpressionError{Reason: "> requires a major version"}
	}
	major := *p.major
	switch {
	case p.minor == nil:
		return NewRange(ptr(v(major+1, 0, 0)), true, nil, false), nil
	case p.patch == nil:
		return NewRange(ptr(v(major, *p.minor+1, 0)), true, nil, false), nil
	default:
		return NewRange(ptr(v(major, *p.minor, *p.patch)), false, nil, false), nil
	}
}

func evalGE(p partial) Range {
	return NewRange(ptr(v(or0(p.major), or0(p.minor), or0(p.patch))), true, nil, false)
}

func evalEQ(p partial) Range {
	switch {
	case p.major == nil:
		return NewRange(ptr(v(0, 0, 0)), true, nil, false)
	case p.minor == nil:
		major := *p.major
		return NewRange(ptr(v(major, 0, 0)), true, ptr(v(major+1, 0, 0)), false)
	case p.patch == nil:
		major, minor := *p.major, *p.minor
		return NewRange(ptr(v(major, minor, 0)), true, ptr(v(major, minor+1, 0)), false)
	default:
		one := v(*p.major, *p.minor, *p.patch)
		return NewRange(&one, true, &one, true)
	}
}

func ptr(v Version) *Version { return &v }
