// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solc

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeSolc writes an executable shell script standing in for solc: it reads
// stdin (and ignores it) and writes a canned standard-JSON response to
// stdout, optionally exiting non-zero.
func fakeSolc(t *testing.T, stdout string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solc script requires a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "solc")
	script := "#!/bin/sh\ncat > /dev/null\ncat <<'EOF'\n" + stdout + "\nEOF\nexit " + itoa(exitCode) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func TestRunParsesOutput(t *testing.T) {
	bin := fakeSolc(t, `{"contracts":{"Token.sol":{"Token":{}}}}`, 0)

	r := &Runner{BinaryPath: bin}
	out, err := r.Run(context.Background(), &Input{
		Language: "Solidity",
		Sources:  map[string]Source{"Token.sol": {URLs: []string{"Token.sol"}}},
		Settings: Settings{OutputSelection: OutputSelection{"*": {"*": {"abi"}}}},
	})
	if err != nil {
		t.Fatalf("Run: unexpected error: %v", err)
	}
	if _, ok := out.Contracts["Token.sol"]; !ok {
		t.Errorf("Contracts missing Token.sol entry: %+v", out.Contracts)
	}
}

func TestRunFatalOnNonZeroExitWithStderr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solc")
	script := "#!/bin/sh\ncat > /dev/null\necho boom 1>&2\nexit 1\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	r := &Runner{BinaryPath: path}
	_, err := r.Run(context.Background(), &Input{Language: "Solidity", Settings: Settings{OutputSelection: OutputSelection{}}})
	if err == nil {
		t.Fatal("expected ErrCompilerInvocationFailed")
	}
	if _, ok := err.(*ErrCompilerInvocationFailed); !ok {
		t.Errorf("expected *ErrCompilerInvocationFailed, got %T", err)
	}
}

func TestDiagnosticIsError(t *testing.T) {
	cases := []struct {
		severity string
		want     bool
	}{
		{"error", true},
		{"warning", false},
		{"info", false},
	}
	for _, c := range cases {
		d := Diagnostic{Severity: c.severity}
		if got := d.IsError(); got != c.want {
			t.Errorf("IsError() for severity %q = %v, want %v", c.severity, got, c.want)
		}
	}
}
