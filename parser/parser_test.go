// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/solgraph/solc-build/semver"
)

func TestParsePragmaAndImports(t *testing.T) {
	src := `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

import "./Token.sol";
import {Ownable} from "@openzeppelin/contracts/access/Ownable.sol";

contract C {}
`
	result, err := Parse([]byte(src), false)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}

	if !result.Versions.Contains(semver.MustParse("0.8.13")) {
		t.Error("expected 0.8.13 to satisfy ^0.8.0")
	}
	if result.Versions.Contains(semver.MustParse("0.9.0")) {
		t.Error("expected 0.9.0 to NOT satisfy ^0.8.0")
	}

	wantImports := []string{"./Token.sol", "@openzeppelin/contracts/access/Ownable.sol"}
	if len(result.Imports) != len(wantImports) {
		t.Fatalf("Imports = %v, want %v", result.Imports, wantImports)
	}
	for i, w := range wantImports {
		if result.Imports[i] != w {
			t.Errorf("Imports[%d] = %q, want %q", i, result.Imports[i], w)
		}
	}
}

func TestParseNoPragmaMeansAny(t *testing.T) {
	result, err := Parse([]byte("contract C {}"), false)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if !result.Versions.Contains(semver.MustParse("99.0.0")) {
		t.Error("expected no-pragma source to impose no version constraint")
	}
}

func TestParseIgnoresImportInsideString(t *testing.T) {
	src := `contract C { string s = "import \"fake.sol\";"; }`
	result, err := Parse([]byte(src), false)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(result.Imports) != 0 {
		t.Errorf("Imports = %v, want none (import token was inside a string)", result.Imports)
	}
}

func TestParseUnterminatedComment(t *testing.T) {
	src := "contract C {} /* never closed"

	if _, err := Parse([]byte(src), false); err == nil {
		t.Error("expected ErrUnterminatedComment in strict mode")
	}
	if _, err := Parse([]byte(src), true); err != nil {
		t.Errorf("tolerant mode: unexpected error: %v", err)
	}
}

func TestParseHashDeterministic(t *testing.T) {
	src := []byte("contract C {}")
	a, err := Parse(src, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(src, false)
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash != b.Hash {
		t.Error("Parse of identical content produced different hashes")
	}
}
