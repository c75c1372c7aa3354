// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log is a minimal structured logger for build events: it wraps an
// io.Writer with line/format helpers and a build-scoped prefix, matching
// the rest of this system's preference for small stdlib-based logging over
// a full logging framework.
package log

import (
	"fmt"
	"io"
)

// Logger is a minimal wrapper around an io.Writer.
type Logger struct {
	io.Writer
}

// New returns a new logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// LogUnitfln logs a formatted line prefixed with the compilation unit's
// hash, the unit of work the build driver reports progress against.
func (l *Logger) LogUnitfln(unitHash, format string, args ...interface{}) {
	fmt.Fprintf(l, "[%s] "+format+"\n", append([]interface{}{unitHash}, args...)...)
}
