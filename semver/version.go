// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package semver implements the NPM/solc-flavored semantic version algebra
// that drives every version-based decision in the build orchestrator: a
// single Version, inclusive/exclusive bounded VersionRange, their union
// VersionRanges, and the pragma-like VersionExpression grammar that parses
// into them.
//
// The grammar intentionally diverges from both strict SemVer 2.0.0 and from
// github.com/Masterminds/semver: versions never carry a leading "v", partial
// versions ("1.2.x") are legal only at the rightmost position, and caret/tilde
// zero-major handling follows solc's own SemVerHandler rather than npm's.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an immutable (major, minor, patch) triple plus optional
// prerelease and build metadata. Ordering and equality ignore prerelease and
// build; both are preserved only for string rendering.
type Version struct {
	Major, Minor, Patch int
	Prerelease          string
	Build               string
}

// numberChars is the digit alphabet takeNumber consumes; takeNumber itself
// rejects leading zeros.
const numberChars = "0123456789"

// Parse parses a strict "MAJOR.MINOR.PATCH[-prerelease][+build]" string. It
// rejects a leading "v", leading zeros in any numeric component, and any
// deviation from the grammar with InvalidVersionError.
func Parse(s string) (Version, error) {
	rest := s
	major, rest, err := takeNumber(rest)
	if err != nil {
		return Version{}, &InvalidVersionError{Value: s, Reason: err.Error()}
	}
	rest, err = expect(rest, '.')
	if err != nil {
		return Version{}, &InvalidVersionError{Value: s, Reason: err.Error()}
	}
	minor, rest, err := takeNumber(rest)
	if err != nil {
		return Version{}, &InvalidVersionError{Value: s, Reason: err.Error()}
	}
	rest, err = expect(rest, '.')
	if err != nil {
		return Version{}, &InvalidVersionError{Value: s, Reason: err.Error()}
	}
	patch, rest, err := takeNumber(rest)
	if err != nil {
		return Version{}, &InvalidVersionError{Value: s, Reason: err.Error()}
	}

	var prerelease, build string
	if strings.HasPrefix(rest, "-") {
		rest = rest[1:]
		prerelease, rest = takeDotted(rest)
		if prerelease == "" {
			return Version{}, &InvalidVersionError{Value: s, Reason: "empty prerelease"}
		}
	}
	if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
		build, rest = takeDotted(rest)
		if build == "" {
			return Version{}, &InvalidVersionError{Value: s, Reason: "empty build"}
		}
	}
	if rest != "" {
		return Version{}, &InvalidVersionError{Value: s, Reason: "trailing characters: " + rest}
	}

	return Version{Major: major, Minor: minor, Patch: patch, Prerelease: prerelease, Build: build}, nil
}

// MustParse is Parse but panics on error; intended for package-level
// constants and tests, never for untrusted input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func takeNumber(s string) (int, string, error) {
	i := 0
	for i < len(s) && strings.IndexByte(numberChars, s[i]) >= 0 {
		i++
	}
	if i == 0 {
		return 0, s, fmt.Errorf("expected a number at %q", s)
	}
	digits := s[:i]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, s, fmt.Errorf("leading zero in number %q", digits)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, s, err
	}
	return n, s[i:], nil
}

func expect(s string, c byte) (string, error) {
	if len(s) == 0 || s[0] != c {
		return s, fmt.Errorf("expected %q at %q", c, s)
	}
	return s[1:], nil
}

// takeDotted consumes a dot-separated sequence of tokens from
// [0-9A-Za-z-]+, stopping at the first character outside that alphabet
// (typically "+" separating build from prerelease, or end of string).
func takeDotted(s string) (string, string) {
	isTokenChar := func(c byte) bool {
		return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '-'
	}
	i := 0
	for i < len(s) {
		if s[i] == '.' {
			// a dot must be followed by at least one token char to be part
			// of the dotted sequence; otherwise it terminates it.
			if i+1 < len(s) && isTokenChar(s[i+1]) {
				i++
				continue
			}
			break
		}
		if !isTokenChar(s[i]) {
			break
		}
		i++
	}
	return s[:i], s[i:]
}

// String renders the version in canonical form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing only (major, minor, patch). Prerelease and build never
// participate.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpInt(v.Minor, other.Minor)
	}
	return cmpInt(v.Patch, other.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other denote the same (major, minor, patch),
// ignoring prerelease and build.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Zero is the 0.0.0 version used as the default lower bound.
var Zero = Version{}
