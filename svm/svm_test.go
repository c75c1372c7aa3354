// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/solgraph/solc-build/semver"
)

func newTestServer(t *testing.T, binary []byte) (*httptest.Server, Catalog) {
	t.Helper()

	sha := sha256.Sum256(binary)
	kec := crypto.Keccak256(binary)

	cat := Catalog{
		Builds: []Build{{
			Path:        "solc-v0.8.19",
			Version:     "0.8.19",
			LongVersion: "0.8.19+commit.abcdef",
			SHA256:      "0x" + hex.EncodeToString(sha[:]),
			Keccak256:   "0x" + hex.EncodeToString(kec),
			URLs:        []string{"solc-v0.8.19"},
		}},
		Releases: map[string]string{"0.8.19": "solc-v0.8.19"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/list.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(cat)
	})
	mux.HandleFunc("/solc-v0.8.19", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(binary)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, cat
}

func TestInstallAndPath(t *testing.T) {
	srv, _ := newTestServer(t, []byte("#!/bin/sh\necho fake-solc\n"))

	m := NewManager(srv.URL, t.TempDir())
	v := semver.MustParse("0.8.19")

	if _, ok := m.Path(v); ok {
		t.Fatal("expected version not yet installed")
	}

	path, err := m.Install(context.Background(), v)
	if err != nil {
		t.Fatalf("Install: unexpected error: %v", err)
	}
	if path == "" {
		t.Fatal("Install returned empty path")
	}

	if gotPath, ok := m.Path(v); !ok || gotPath != path {
		t.Errorf("Path after install = (%q, %v), want (%q, true)", gotPath, ok, path)
	}
}

func TestInstallChecksumMismatch(t *testing.T) {
	srv, cat := newTestServer(t, []byte("good content"))
	cat.Builds[0].SHA256 = "0xdeadbeef"

	mux := http.NewServeMux()
	mux.HandleFunc("/list.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(cat)
	})
	mux.HandleFunc("/solc-v0.8.19", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("good content"))
	})
	badSrv := httptest.NewServer(mux)
	t.Cleanup(badSrv.Close)

	m := NewManager(badSrv.URL, t.TempDir())
	_, err := m.Install(context.Background(), semver.MustParse("0.8.19"))
	if err == nil {
		t.Fatal("expected ErrChecksumMismatch")
	}
	if _, ok := err.(*ErrChecksumMismatch); !ok {
		t.Errorf("expected *ErrChecksumMismatch, got %T", err)
	}
	_ = srv
}

func TestInstallUnsupportedVersion(t *testing.T) {
	srv, _ := newTestServer(t, []byte("x"))
	m := NewManager(srv.URL, t.TempDir())

	_, err := m.Install(context.Background(), semver.MustParse("0.1.0"))
	if err == nil {
		t.Fatal("expected ErrUnsupportedCompilerVersion")
	}
	if _, ok := err.(*ErrUnsupportedCompilerVersion); !ok {
		t.Errorf("expected *ErrUnsupportedCompilerVersion, got %T", err)
	}
}

func TestEnumerateInstalledEmptyCache(t *testing.T) {
	m := NewManager("http://unused.invalid", t.TempDir())
	versions, err := m.EnumerateInstalled()
	if err != nil {
		t.Fatalf("EnumerateInstalled: unexpected error: %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("EnumerateInstalled on empty cache = %v, want none", versions)
	}
}
