// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/solgraph/solc-build/solc"
)

// ManifestFileName is the build manifest's fixed filename within the
// project build directory.
const ManifestFileName = "build.json"

// UnitRecord is one compilation unit's entry in the on-disk manifest. All
// paths are relative to the manifest file itself.
type UnitRecord struct {
	BuildDir     string                       `json:"build_dir"`
	Sources      map[string]string            `json:"sources"`
	Contracts    map[string]map[string]string `json:"contracts"`
	Errors       []solc.Diagnostic            `json:"errors"`
	SourceUnits  []string                     `json:"source_units"`
	AllowPaths   []string                     `json:"allow_paths"`
	IncludePaths []string                     `json:"include_paths"`
	Settings     solc.Settings                `json:"settings"`
}

// Manifest is the root build.json document.
type Manifest struct {
	CompilationUnits map[string]UnitRecord `json:"compilation_units"`
}

func emptyManifest() *Manifest {
	return &Manifest{CompilationUnits: make(map[string]UnitRecord)}
}

// LoadManifest reads build.json from dir, returning an empty Manifest if
// the file does not yet exist.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, ManifestFileName))
	if os.IsNotExist(err) {
		return emptyManifest(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading build manifest")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing build manifest")
	}
	if m.CompilationUnits == nil {
		m.CompilationUnits = make(map[string]UnitRecord)
	}
	return &m, nil
}

// Write serializes the manifest to dir/build.json.
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling build manifest")
	}
	return ioutil.WriteFile(filepath.Join(dir, ManifestFileName), data, 0o644)
}

// reusable reports whether a prior UnitRecord can be reused verbatim for a
// unit with the given source unit names (compared as sorted sets), include
// paths, allow paths, and compiler settings. The content hash is matched by
// the caller, which looks the record up by unit hash. No mtimes are
// consulted — reuse is decided purely from these values.
func reusable(prev UnitRecord, sourceUnitNames, includePaths, allowPaths []string, settings solc.Settings) bool {
	if !stringSlicesEqual(sortedCopy(prev.SourceUnits), sortedCopy(sourceUnitNames)) {
		return false
	}
	if !stringSlicesEqual(sortedCopy(prev.IncludePaths), sortedCopy(includePaths)) {
		return false
	}
	if !stringSlicesEqual(sortedCopy(prev.AllowPaths), sortedCopy(allowPaths)) {
		return false
	}
	prevSettings, _ := json.Marshal(prev.Settings)
	curSettings, _ := json.Marshal(settings)
	return string(prevSettings) == string(curSettings)
}

func sortedCopy(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
