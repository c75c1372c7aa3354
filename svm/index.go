// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svm

import (
	"encoding/json"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var installsBucket = []byte("installs")

// InstallRecord is the metadata the index stores per installed version:
// when it was installed and which digests it was verified against, so
// "compilers list" can report provenance without re-reading the catalog.
type InstallRecord struct {
	InstalledAt time.Time `json:"installed_at"`
	SHA256      string    `json:"sha256"`
	Keccak256   string    `json:"keccak256"`
}

func (m *Manager) indexPath() string {
	return filepath.Join(m.CacheDir, "index.db")
}

func (m *Manager) recordInstall(version string, build *Build) error {
	db, err := bbolt.Open(m.indexPath(), 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	rec := InstallRecord{InstalledAt: installTime(), SHA256: build.SHA256, Keccak256: build.Keccak256}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(installsBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(version), data)
	})
}

// LookupInstallRecord returns the recorded metadata for an installed
// version, or false if the index has no entry (e.g. it predates the index,
// or was removed and reinstalled by a version of this tool without
// indexing).
func (m *Manager) LookupInstallRecord(version string) (rec InstallRecord, ok bool) {
	db, err := bbolt.Open(m.indexPath(), 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return InstallRecord{}, false
	}
	defer func() { _ = db.Close() }()

	found := false
	_ = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(installsBucket)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(version))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err == nil {
			found = true
		}
		return nil
	})
	return rec, found
}

// installTime is a seam so the index remains testable without relying on
// wall-clock time; overridden in tests.
var installTime = time.Now
