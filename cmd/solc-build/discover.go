// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/karrick/godirwalk"
)

// discoverEntries walks root and returns every .sol file, used when the
// build command is invoked with no explicit entry files.
func discoverEntries(root string) ([]string, error) {
	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if filepath.Ext(path) == ".sol" {
				files = append(files, path)
			}
			return nil
		},
		Unsorted: false,
	})
	return files, err
}
