// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solgraph/solc-build/sourcepath"
	"github.com/solgraph/solc-build/sourceunit"
)

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func newBuilder(root string) *Builder {
	return &Builder{
		NameResolver: sourceunit.NewResolver(nil),
		PathResolver: sourcepath.NewResolver(root),
		Roots:        []string{root},
	}
}

func TestBuildResolvesRelativeImport(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "Token.sol", `pragma solidity ^0.8.0; import "./Math.sol"; contract Token {}`)
	entry := writeSource(t, root, "Math.sol", `pragma solidity ^0.8.0; library Math {}`)
	_ = entry

	b := newBuilder(root)
	g, err := b.Build([]EntryFile{{Path: filepath.Join(root, "Token.sol")}})
	if err != nil {
		t.Fatalf("Build: unexpected error: %v", err)
	}

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}

	tokenIdx, ok := g.NodeByName("Token.sol")
	if !ok {
		t.Fatal("Token.sol node not found")
	}
	mathIdx, ok := g.NodeByName("Math.sol")
	if !ok {
		t.Fatal("Math.sol node not found")
	}

	found := false
	for _, dst := range g.OutEdges(mathIdx) {
		if dst == tokenIdx {
			found = true
		}
	}
	if !found {
		t.Error("expected edge Math.sol -> Token.sol (Token imports Math)")
	}
}

func TestBuildDuplicateSourceUnitNameFatal(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	pathA := writeSource(t, rootA, "Token.sol", "pragma solidity ^0.8.0; contract Token {}")
	pathB := writeSource(t, rootB, "Token.sol", "pragma solidity ^0.8.0; contract Token {}")

	b := &Builder{
		NameResolver: sourceunit.NewResolver(nil),
		PathResolver: sourcepath.NewResolver(rootA, rootB),
		Roots:        []string{rootA, rootB},
	}

	_, err := b.Build([]EntryFile{{Path: pathA}, {Path: pathB}})
	if err == nil {
		t.Fatal("expected ErrDuplicateSourceUnitName")
	}
	if _, ok := err.(*ErrDuplicateSourceUnitName); !ok {
		t.Errorf("expected *ErrDuplicateSourceUnitName, got %T", err)
	}
}

func TestBuildIgnoreErrorsRecordsUnresolvedImport(t *testing.T) {
	root := t.TempDir()
	entry := writeSource(t, root, "Token.sol", `pragma solidity ^0.8.0; import "./Missing.sol"; contract Token {}`)

	b := newBuilder(root)
	b.IgnoreErrors = true

	g, err := b.Build([]EntryFile{{Path: entry}})
	if err != nil {
		t.Fatalf("Build: unexpected error in tolerant mode: %v", err)
	}

	idx, ok := g.NodeByName("Token.sol")
	if !ok {
		t.Fatal("Token.sol node not found")
	}
	if !g.Node(idx).UnresolvedImports["Missing.sol"] {
		t.Error("expected Missing.sol recorded as an unresolved import")
	}
}
