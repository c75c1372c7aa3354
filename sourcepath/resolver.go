// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sourcepath maps a canonical source unit name back to a filesystem
// path by searching the project root and configured include paths in
// order, detecting ambiguity between them.
package sourcepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver holds the ordered list of search roots: project root first, then
// each configured include path. Read-only for the resolver's lifetime.
type Resolver struct {
	Roots []string
}

// NewResolver builds a Resolver. projectRoot is always searched first.
func NewResolver(projectRoot string, includePaths ...string) *Resolver {
	roots := make([]string, 0, 1+len(includePaths))
	roots = append(roots, projectRoot)
	roots = append(roots, includePaths...)
	return &Resolver{Roots: roots}
}

// ErrUnresolvedImport is returned when no search root contains the source
// unit name as a regular file.
type ErrUnresolvedImport struct {
	SourceUnitName string
}

func (e *ErrUnresolvedImport) Error() string {
	return fmt.Sprintf("unable to find %q in the project root dir or include paths", e.SourceUnitName)
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrUnresolvedImport) Kind() string { return "resolve-error" }

// ErrAmbiguousImport is returned when the source unit name exists under
// more than one search root; the caller must disambiguate via remappings
// or include-path configuration.
type ErrAmbiguousImport struct {
	SourceUnitName string
	Candidates     []string
}

func (e *ErrAmbiguousImport) Error() string {
	msg := fmt.Sprintf("source unit name %q is ambiguous, it can be included as:", e.SourceUnitName)
	for _, c := range e.Candidates {
		msg += "\n" + c
	}
	return msg
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrAmbiguousImport) Kind() string { return "resolve-error" }

// Resolve tries each search root in order and returns the single path
// under which root/sourceUnitName exists as a regular file. It returns
// ErrUnresolvedImport if none exist and ErrAmbiguousImport (listing every
// candidate) if more than one does.
func (r *Resolver) Resolve(sourceUnitName string) (string, error) {
	var matches []string
	for _, root := range r.Roots {
		candidate := filepath.Join(root, filepath.FromSlash(sourceUnitName))
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		matches = append(matches, candidate)
	}

	switch len(matches) {
	case 0:
		return "", &ErrUnresolvedImport{SourceUnitName: sourceUnitName}
	case 1:
		return matches[0], nil
	default:
		return "", &ErrAmbiguousImport{SourceUnitName: sourceUnitName, Candidates: matches}
	}
}

// Matches reports whether the given file path is reachable as
// sourceUnitName under any configured search root.
func (r *Resolver) Matches(sourceUnitName, file string) bool {
	for _, root := range r.Roots {
		candidate := filepath.Join(root, filepath.FromSlash(sourceUnitName))
		if sameFile(candidate, file) {
			return true
		}
	}
	return false
}

func sameFile(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}
