// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solc implements the standard-JSON protocol used to drive a solc
// compiler binary as a subprocess.
package solc

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/pkg/errors"
)

// Source describes one entry in a standard-JSON "sources" map: either a
// filesystem reference (Urls) or inline content, never both.
type Source struct {
	URLs    []string `json:"urls,omitempty"`
	Content *string  `json:"content,omitempty"`
}

// OutputSelection mirrors the standard-JSON outputSelection shape:
// per-source-unit (or "*") per-contract (or "*") list of requested outputs.
type OutputSelection map[string]map[string][]string

// Settings is the standard-JSON "settings" object.
type Settings struct {
	Remappings      []string        `json:"remappings,omitempty"`
	EVMVersion      string          `json:"evmVersion,omitempty"`
	OutputSelection OutputSelection `json:"outputSelection"`
}

// Input is the full standard-JSON request document.
type Input struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

// Diagnostic is one entry in the standard-JSON "errors" array.
type Diagnostic struct {
	SourceLocation   *SourceLocation `json:"sourceLocation,omitempty"`
	Type             string          `json:"type"`
	Component        string          `json:"component"`
	Severity         string          `json:"severity"`
	Message          string          `json:"message"`
	FormattedMessage string          `json:"formattedMessage,omitempty"`
}

// SourceLocation locates a diagnostic within a source unit.
type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// IsError reports whether the diagnostic's severity is "error" (as opposed
// to a warning or info item).
func (d Diagnostic) IsError() bool { return d.Severity == "error" }

// Output is the full standard-JSON response document.
type Output struct {
	Errors    []Diagnostic                          `json:"errors,omitempty"`
	Sources   map[string]json.RawMessage            `json:"sources,omitempty"`
	Contracts map[string]map[string]json.RawMessage `json:"contracts,omitempty"`
}

// ErrCompilerInvocationFailed wraps a non-zero exit accompanied by
// non-empty stderr output.
type ErrCompilerInvocationFailed struct {
	Path   string
	Stderr string
}

func (e *ErrCompilerInvocationFailed) Error() string {
	return "compiler invocation failed (" + e.Path + "): " + e.Stderr
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrCompilerInvocationFailed) Kind() string { return "compiler-error" }

// Runner invokes one solc binary via the standard-JSON protocol.
type Runner struct {
	// BinaryPath is the absolute path to the solc executable.
	BinaryPath string
	// BasePath, IncludePaths, and AllowPaths map to the corresponding
	// solc command-line flags. Empty BasePath omits --base-path (used for
	// compiler versions predating base-path support, i.e. < 0.8.8).
	BasePath     string
	IncludePaths []string
	AllowPaths   []string
}

// Run serializes in as standard-JSON, invokes the compiler subprocess, and
// parses its stdout response. A non-zero exit with non-empty stderr is
// fatal; a non-zero exit with empty stderr (some old solc builds write
// fatal errors only to stdout) still attempts to parse stdout as JSON.
func (r *Runner) Run(ctx context.Context, in *Input) (*Output, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling standard-json input")
	}

	args := []string{"--standard-json"}
	if r.BasePath != "" {
		args = append(args, "--base-path="+r.BasePath)
	}
	for _, p := range r.IncludePaths {
		args = append(args, "--include-path="+p)
	}
	if len(r.AllowPaths) > 0 {
		args = append(args, "--allow-paths=."+joinComma(r.AllowPaths))
	}

	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil && stderr.Len() > 0 {
		return nil, &ErrCompilerInvocationFailed{Path: r.BinaryPath, Stderr: stderr.String()}
	}

	var out Output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		if runErr != nil {
			return nil, &ErrCompilerInvocationFailed{Path: r.BinaryPath, Stderr: stderr.String()}
		}
		return nil, errors.Wrap(err, "parsing compiler stdout")
	}
	return &out, nil
}

func joinComma(paths []string) string {
	s := ""
	for _, p := range paths {
		s += "," + p
	}
	return s
}
