// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sourceunit

import (
	"path"
	"strings"
)

// ErrNotInRoots is returned by ResolveCmdlineArg when an absolute path does
// not fall under any of the search roots it was given.
type ErrNotInRoots struct {
	Path string
}

func (e *ErrNotInRoots) Error() string {
	return "path " + e.Path + " is not contained in any configured search root"
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrNotInRoots) Kind() string { return "resolve-error" }

// Resolver resolves import strings to canonical source unit names, honoring
// an ordered list of Remapping rules. It holds no mutable state: the
// remapping list is read-only for the resolver's lifetime, per the Design
// Notes' "shared configuration is read-only after build start."
type Resolver struct {
	Remappings []Remapping
}

// NewResolver builds a Resolver over the given ordered remappings.
func NewResolver(remappings []Remapping) *Resolver {
	return &Resolver{Remappings: remappings}
}

// ResolveImport computes the canonical source unit name of an import string
// found inside the source unit named parent. Relative imports ("./x",
// "../y/z") are normalized against parent's directory first; all imports
// then pass through remapping selection.
func (r *Resolver) ResolveImport(parent, importStr string) string {
	if strings.HasPrefix(importStr, "./") || strings.HasPrefix(importStr, "../") {
		return r.resolveRelative(parent, importStr)
	}
	return applyRemappings(r.Remappings, parent, importStr)
}

// resolveRelative performs a POSIX-style join of parent's directory with
// importStr's path components, normalizing "." and ".." without touching
// the filesystem, then applies remapping. This mirrors the reference
// resolver's two-pass normalization: collapse ".." against already-seen
// import components first, then walk any remaining leading ".." up out of
// the parent's directory.
func (r *Resolver) resolveRelative(parent, importStr string) string {
	var importParts []string
	for _, p := range strings.Split(importStr, "/") {
		if p == "" || p == "." {
			continue
		}
		importParts = append(importParts, p)
	}

	parentParts := strings.Split(parent, "/")
	for len(parentParts) > 0 && parentParts[len(parentParts)-1] == "" {
		parentParts = parentParts[:len(parentParts)-1]
	}
	if len(parentParts) > 0 {
		// drop parent's own filename, keeping only its directory
		parentParts = parentParts[:len(parentParts)-1]
	}
	for len(parentParts) > 0 && parentParts[len(parentParts)-1] == "" {
		parentParts = parentParts[:len(parentParts)-1]
	}

	var normalized []string
	for _, part := range importParts {
		if part == ".." {
			if len(normalized) == 0 || normalized[len(normalized)-1] == ".." {
				normalized = append(normalized, "..")
			} else {
				normalized = normalized[:len(normalized)-1]
			}
		} else {
			normalized = append(normalized, part)
		}
	}

	// Any ".." left at the front of normalized must climb out of the
	// parent's own directory components; this never ascends above zero
	// components (climbing past an empty parentParts is simply dropped).
	// If every remaining component is "..", the reference algorithm leaves
	// normalized untouched (the loop never reaches the slicing branch) —
	// preserved here for fidelity.
climb:
	for i, part := range normalized {
		if part == ".." {
			for len(parentParts) > 0 && parentParts[len(parentParts)-1] == "" {
				parentParts = parentParts[:len(parentParts)-1]
			}
			if len(parentParts) > 0 {
				parentParts = parentParts[:len(parentParts)-1]
			}
			continue
		}
		normalized = normalized[i:]
		break climb
	}

	var name string
	if len(parentParts) > 0 {
		name = strings.Join(parentParts, "/") + "/" + strings.Join(normalized, "/")
	} else {
		name = strings.Join(normalized, "/")
	}
	return applyRemappings(r.Remappings, parent, name)
}

// ResolveCmdlineArg converts an absolute filesystem path, known to live
// under one of roots (the graph builder passes the project root first,
// then the include paths; no built-in contracts directory is added), into
// its canonical forward-slash source unit name: the longest matching root
// is chosen and the remainder is returned relative to it.
func ResolveCmdlineArg(absPath string, roots []string) (string, error) {
	best := -1
	for _, root := range roots {
		r := strings.TrimRight(filepathToSlash(root), "/")
		p := filepathToSlash(absPath)
		if p == r || strings.HasPrefix(p, r+"/") {
			if len(r) > best {
				best = len(r)
			}
		}
	}
	if best < 0 {
		return "", &ErrNotInRoots{Path: absPath}
	}

	// recompute using the winning (longest) root, matching the same
	// longest-prefix-wins convention used for remapping selection.
	var winner string
	p := filepathToSlash(absPath)
	for _, root := range roots {
		r := strings.TrimRight(filepathToSlash(root), "/")
		if len(r) == best && (p == r || strings.HasPrefix(p, r+"/")) {
			winner = r
		}
	}
	rel := strings.TrimPrefix(p, winner)
	rel = strings.TrimPrefix(rel, "/")
	return path.Clean(rel), nil
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
