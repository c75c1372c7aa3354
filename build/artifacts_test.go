// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/solgraph/solc-build/solc"
)

func TestWriteUnitRecordsPostPromotionPaths(t *testing.T) {
	dir := t.TempDir()
	req := &Request{BuildDir: dir}
	output := &solc.Output{
		Sources: map[string]json.RawMessage{
			"Token.sol": json.RawMessage(`{"ast":true}`),
		},
	}

	record, err := writeUnit(dir, "deadbeef", []string{"Token.sol"}, req, solc.Settings{}, output)
	if err != nil {
		t.Fatalf("writeUnit: unexpected error: %v", err)
	}

	rel, ok := record.Sources["Token.sol"]
	if !ok {
		t.Fatal("record.Sources missing Token.sol")
	}
	if filepath.Dir(rel) != "deadbeef" {
		t.Errorf("recorded path %q is not rooted at the final unit directory (hash alone, no tmp/ prefix)", rel)
	}

	// the staged file must actually exist under tmp/<hash>/, not under the
	// final (not-yet-promoted) location the manifest path describes.
	staged := filepath.Join(dir, "tmp", "deadbeef", filepath.Base(rel))
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("expected staged artifact at %q: %v", staged, err)
	}
}

func TestLoadCachedMissingArtifactErrors(t *testing.T) {
	dir := t.TempDir()
	prev := UnitRecord{Sources: map[string]string{"Token.sol": "deadbeef/missing.json"}}

	if _, err := loadCached(dir, prev); err == nil {
		t.Error("expected an error when a cached artifact file is missing")
	}
}

func TestLoadCachedValidArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "deadbeef"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "deadbeef", "Token.ast.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	prev := UnitRecord{Sources: map[string]string{"Token.sol": "deadbeef/Token.ast.json"}}
	got, err := loadCached(dir, prev)
	if err != nil {
		t.Fatalf("loadCached: unexpected error: %v", err)
	}
	if got.Sources["Token.sol"] != prev.Sources["Token.sol"] {
		t.Error("loadCached should return the record unchanged on success")
	}
}
