// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"testing"
)

func TestLogUnitfln(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.LogUnitfln("deadbeef", "compiling %d source unit(s)", 3)

	want := "[deadbeef] compiling 3 source unit(s)\n"
	if buf.String() != want {
		t.Errorf("LogUnitfln wrote %q, want %q", buf.String(), want)
	}
}

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Logf("%s", "hello")
	if buf.String() != "hello" {
		t.Errorf("Logf wrote %q, want %q", buf.String(), "hello")
	}
}
