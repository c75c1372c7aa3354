// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads a project's build configuration from a TOML manifest,
// parsing remapping strings and paths into their typed representations at
// load time so the rest of the system never re-parses raw configuration.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/solgraph/solc-build/semver"
	"github.com/solgraph/solc-build/sourceunit"
)

// FileName is the project configuration file's conventional name.
const FileName = "solc-build.toml"

// ErrInvalidConfiguration is fatal: the TOML document is malformed or
// contains a value this system cannot interpret (an unparseable remapping
// string or target version, a project root or include path that does not
// exist).
type ErrInvalidConfiguration struct {
	Cause error
}

func (e *ErrInvalidConfiguration) Error() string {
	return "invalid configuration: " + e.Cause.Error()
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrInvalidConfiguration) Kind() string { return "config-error" }

// rawConfig mirrors the on-disk TOML shape.
type rawConfig struct {
	ProjectRoot string `toml:"project_root"`

	Compiler struct {
		Solc struct {
			TargetVersion string `toml:"target_version"`
		} `toml:"solc"`
	} `toml:"compiler"`

	Build struct {
		IncludePaths []string `toml:"include_paths"`
		AllowPaths   []string `toml:"allow_paths"`
		EVMVersion   string   `toml:"evm_version"`
		Remappings   []string `toml:"remappings"`
		Reuse        *bool    `toml:"reuse"`
		Maximize     bool     `toml:"maximize_compilation_units"`
		OutputKinds  []string `toml:"output_kinds"`
	} `toml:"build"`
}

// ProjectConfig is the typed, validated configuration used by every other
// subsystem. Read-only once loaded.
type ProjectConfig struct {
	ProjectRoot string

	TargetVersion *semver.Version

	IncludePaths []string
	AllowPaths   []string
	EVMVersion   string
	Remappings   []sourceunit.Remapping
	Reuse        bool
	Maximize     bool
	OutputKinds  []string
}

// Load reads and validates a ProjectConfig from path.
func Load(path string) (*ProjectConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &ErrInvalidConfiguration{Cause: err}
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ErrInvalidConfiguration{Cause: err}
	}

	cfg := &ProjectConfig{
		ProjectRoot:  raw.ProjectRoot,
		IncludePaths: raw.Build.IncludePaths,
		AllowPaths:   raw.Build.AllowPaths,
		EVMVersion:   raw.Build.EVMVersion,
		Reuse:        true, // default: reuse cached artifacts unless disabled
		Maximize:     raw.Build.Maximize,
		OutputKinds:  raw.Build.OutputKinds,
	}
	if raw.Build.Reuse != nil {
		cfg.Reuse = *raw.Build.Reuse
	}

	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = filepath.Dir(path)
	}
	if len(cfg.OutputKinds) == 0 {
		cfg.OutputKinds = []string{"abi", "evm.bytecode", "evm.deployedBytecode"}
	}

	if raw.Compiler.Solc.TargetVersion != "" {
		v, err := semver.Parse(raw.Compiler.Solc.TargetVersion)
		if err != nil {
			return nil, &ErrInvalidConfiguration{Cause: errors.Wrap(err, "compiler.solc.target_version")}
		}
		cfg.TargetVersion = &v
	}

	for _, remappingStr := range raw.Build.Remappings {
		r, err := sourceunit.ParseRemapping(remappingStr)
		if err != nil {
			return nil, &ErrInvalidConfiguration{Cause: errors.Wrapf(err, "remapping %q", remappingStr)}
		}
		cfg.Remappings = append(cfg.Remappings, r)
	}

	if err := validatePaths(cfg); err != nil {
		return nil, &ErrInvalidConfiguration{Cause: err}
	}

	return cfg, nil
}

func validatePaths(cfg *ProjectConfig) error {
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		return fmt.Errorf("project_root %q: %w", cfg.ProjectRoot, err)
	}
	for _, p := range cfg.IncludePaths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("include path %q: %w", p, err)
		}
	}
	return nil
}
