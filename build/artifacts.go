// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/solgraph/solc-build/solc"
)

// writeUnit stages a compiled unit's AST and contract JSON under
// buildDir/tmp/<hash>/ and returns the UnitRecord describing where each
// artifact landed, relative to the build directory.
func writeUnit(buildDir, hash string, sourceUnitNames []string, req *Request, settings solc.Settings, output *solc.Output) (UnitRecord, error) {
	unitDir := filepath.Join("tmp", hash)
	absUnitDir := filepath.Join(buildDir, unitDir)
	if err := os.MkdirAll(absUnitDir, 0o755); err != nil {
		return UnitRecord{}, errors.Wrap(err, "creating unit staging directory")
	}

	record := UnitRecord{
		BuildDir:     hash,
		Sources:      make(map[string]string),
		Contracts:    make(map[string]map[string]string),
		Errors:       output.Errors,
		SourceUnits:  sourceUnitNames,
		AllowPaths:   req.AllowPaths,
		IncludePaths: req.IncludePaths,
		Settings:     settings,
	}

	for name, raw := range output.Sources {
		fname := safeFileName(name) + ".ast.json"
		if err := ioutil.WriteFile(filepath.Join(absUnitDir, fname), raw, 0o644); err != nil {
			return UnitRecord{}, errors.Wrapf(err, "writing ast for %q", name)
		}
		// relative to build.json's final, post-promotion location — the
		// unit directory there is named by hash alone, without the tmp/
		// staging prefix.
		record.Sources[name] = filepath.Join(hash, fname)
	}

	for sourceName, contracts := range output.Contracts {
		record.Contracts[sourceName] = make(map[string]string)
		for contractName, raw := range contracts {
			fname := safeFileName(sourceName+":"+contractName) + ".json"
			if err := ioutil.WriteFile(filepath.Join(absUnitDir, fname), raw, 0o644); err != nil {
				return UnitRecord{}, errors.Wrapf(err, "writing contract %q/%q", sourceName, contractName)
			}
			record.Contracts[sourceName][contractName] = filepath.Join(hash, fname)
		}
	}

	return record, nil
}

// loadCached verifies that every artifact a prior UnitRecord references
// still exists and deserializes, returning the record unchanged if so.
// Any missing file or parse failure forces the caller to recompile this
// unit only — the rest of the cache remains trusted.
func loadCached(buildDir string, prev UnitRecord) (UnitRecord, error) {
	for _, rel := range prev.Sources {
		if err := checkArtifact(buildDir, rel); err != nil {
			return UnitRecord{}, err
		}
	}
	for _, byContract := range prev.Contracts {
		for _, rel := range byContract {
			if err := checkArtifact(buildDir, rel); err != nil {
				return UnitRecord{}, err
			}
		}
	}
	return prev, nil
}

func checkArtifact(buildDir, rel string) error {
	data, err := ioutil.ReadFile(filepath.Join(buildDir, rel))
	if err != nil {
		return err
	}
	var v json.RawMessage
	return json.Unmarshal(data, &v)
}
