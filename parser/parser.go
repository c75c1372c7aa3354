// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser is a regex-based, comment-aware pre-parser for Solidity
// source: it strips comments, extracts pragma solidity version constraints
// and import literals, and hashes the raw source bytes, without building a
// full AST.
package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/solgraph/solc-build/semver"
)

var (
	pragmaSolidityRe = regexp.MustCompile(`pragma\s+solidity\s+(?P<version>[^;]+)\s*;`)
	importRe         = regexp.MustCompile(`import\s*(?P<import>[^;]+)\s*;`)
	multilineEndRe   = regexp.MustCompile(`\*/`)
	commentStartRe   = regexp.MustCompile(`(?m)(//.*$|/\*)`)
)

// ErrUnterminatedComment is fatal unless parsing is run in tolerant
// ("ignore errors") mode, in which case the unterminated comment and
// everything after it is simply dropped from the stripped text.
type ErrUnterminatedComment struct{}

func (e *ErrUnterminatedComment) Error() string { return "multi-line comment not closed" }

// Kind identifies this error's category for programmatic matching by
// callers that want to react differently to parse errors than to, say,
// configuration or compiler errors.
func (e *ErrUnterminatedComment) Kind() string { return "parse-error" }

// Result is the outcome of parsing one source file: its declared version
// constraints (or "any" when no pragma is present), its raw (unresolved)
// import string literals in first-seen order with duplicates removed, and
// the BLAKE2b-256 hash of the original, unstripped bytes.
type Result struct {
	Versions semver.Ranges
	Imports  []string
	Hash     [32]byte
}

// Parse runs the pre-parser over raw source bytes. When ignoreErrors is
// true, individual malformed pragmas and unterminated comments are skipped
// rather than treated as fatal. An import directive with no quoted path is
// skipped in both modes.
func Parse(content []byte, ignoreErrors bool) (Result, error) {
	hash := blake2b.Sum256(content)

	stripped, err := stripComments(string(content), ignoreErrors)
	if err != nil {
		return Result{}, err
	}

	versions, err := parsePragmas(stripped, ignoreErrors)
	if err != nil {
		return Result{}, err
	}

	imports := parseImports(stripped, ignoreErrors)

	return Result{Versions: versions, Imports: imports, Hash: hash}, nil
}

// stringClosed reports whether the given line (the text preceding a
// candidate comment marker, up to end of line) leaves no single- or
// double-quoted string literal open, honoring "\\" escapes.
func stringClosed(line string) bool {
	var opening byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if opening == 0 {
			if c == '"' || c == '\'' {
				opening = c
			}
			continue
		}
		if c == opening {
			if i > 0 && line[i-1] == '\\' {
				continue
			}
			opening = 0
		}
	}
	return opening == 0
}

// precedingLineClosed reports whether the last line of source[:pos] leaves
// no string literal open, the same guard the reference pre-parser applies
// before treating a match as live code rather than inside a string.
func precedingLineClosed(source string, pos int) bool {
	prefix := source[:pos]
	idx := strings.LastIndexByte(prefix, '\n')
	line := prefix[idx+1:]
	return stringClosed(line)
}

func stripComments(source string, ignoreErrors bool) (string, error) {
	for {
		loc := findLiveMatch(commentStartRe, source)
		if loc == nil {
			return source, nil
		}

		start, end := loc[0], loc[1]
		if source[start:end] == "/*" {
			endLoc := multilineEndRe.FindStringIndex(source[end:])
			if endLoc == nil {
				if ignoreErrors {
					return source[:start], nil
				}
				return "", &ErrUnterminatedComment{}
			}
			source = source[:start] + source[end+endLoc[1]:]
		} else {
			source = source[:start] + source[end:]
		}
	}
}

// findLiveMatch returns the first match of re in source whose preceding
// text on the same line leaves no string literal open, or nil if none.
func findLiveMatch(re *regexp.Regexp, source string) []int {
	for _, loc := range re.FindAllStringIndex(source, -1) {
		if precedingLineClosed(source, loc[0]) {
			return loc
		}
	}
	return nil
}

func parsePragmas(source string, ignoreErrors bool) (semver.Ranges, error) {
	var versions semver.Ranges
	have := false

	for _, m := range pragmaSolidityRe.FindAllStringSubmatchIndex(source, -1) {
		if !precedingLineClosed(source, m[0]) {
			continue
		}
		versionStr := source[m[2]:m[3]]
		expr, err := semver.ParseExpression(versionStr)
		if err != nil {
			if ignoreErrors {
				continue
			}
			return nil, errors.Wrapf(err, "parsing pragma solidity %q", versionStr)
		}
		if !have {
			versions = expr.Ranges()
			have = true
		} else {
			versions = versions.Intersect(expr.Ranges())
		}
	}

	if !have {
		return semver.Any(), nil
	}
	return versions, nil
}

func parseImports(source string, ignoreErrors bool) []string {
	seen := make(map[string]bool)
	var imports []string

	for _, m := range importRe.FindAllStringSubmatchIndex(source, -1) {
		if !precedingLineClosed(source, m[0]) {
			continue
		}
		importExpr := source[m[2]:m[3]]
		filename, ok := extractImportPath(importExpr)
		if !ok {
			if ignoreErrors {
				continue
			}
			continue
		}
		if !seen[filename] {
			seen[filename] = true
			imports = append(imports, filename)
		}
	}

	return imports
}

// importPathRe extracts the quoted path literal from an import directive's
// body, ignoring any named-import syntax ("{A, B} from") around it.
var importPathRe = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)

func extractImportPath(importBody string) (string, bool) {
	m := importPathRe.FindStringSubmatch(importBody)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}
