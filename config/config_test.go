// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.ProjectRoot != dir {
		t.Errorf("ProjectRoot = %q, want %q (defaults to config file's directory)", cfg.ProjectRoot, dir)
	}
	wantKinds := []string{"abi", "evm.bytecode", "evm.deployedBytecode"}
	if len(cfg.OutputKinds) != len(wantKinds) {
		t.Fatalf("OutputKinds = %v, want %v", cfg.OutputKinds, wantKinds)
	}
	if !cfg.Reuse {
		t.Error("Reuse = false, want true (default when the key is absent)")
	}
}

func TestLoadReuseExplicitFalse(t *testing.T) {
	dir := t.TempDir()
	body := `
project_root = "."

[build]
reuse = false
`
	path := writeConfig(t, dir, body)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.Reuse {
		t.Error("Reuse = true, want false (explicitly disabled in config)")
	}
}

func TestLoadParsesRemappingsAndVersion(t *testing.T) {
	dir := t.TempDir()
	body := `
project_root = "."

[compiler.solc]
target_version = "0.8.19"

[build]
remappings = ["zeppelin/=node_modules/@openzeppelin/"]
reuse = true
`
	path := writeConfig(t, dir, body)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.TargetVersion == nil || cfg.TargetVersion.String() != "0.8.19" {
		t.Errorf("TargetVersion = %v, want 0.8.19", cfg.TargetVersion)
	}
	if len(cfg.Remappings) != 1 || cfg.Remappings[0].Prefix != "zeppelin/" {
		t.Errorf("Remappings = %+v, want one entry with prefix zeppelin/", cfg.Remappings)
	}
	if !cfg.Reuse {
		t.Error("Reuse = false, want true")
	}
}

func TestLoadInvalidRemapping(t *testing.T) {
	dir := t.TempDir()
	body := `
project_root = "."

[build]
remappings = ["not-a-remapping"]
`
	path := writeConfig(t, dir, body)

	if _, err := Load(path); err == nil {
		t.Error("expected ErrInvalidConfiguration for a malformed remapping")
	}
}

func TestLoadMissingProjectRoot(t *testing.T) {
	dir := t.TempDir()
	body := `project_root = "/does/not/exist"`
	path := writeConfig(t, dir, body)

	if _, err := Load(path); err == nil {
		t.Error("expected ErrInvalidConfiguration for a nonexistent project_root")
	}
}
