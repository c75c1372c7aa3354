// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build drives compilation of a project's compilation units: it
// selects a compiler version per unit, reuses cached artifacts where
// possible, invokes solc concurrently for the rest, and promotes the
// results into the project's build directory atomically.
package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"github.com/sdboyer/constext"
	"github.com/theckman/go-flock"
	shutil "github.com/termie/go-shutil"
	"golang.org/x/sync/errgroup"

	"github.com/solgraph/solc-build/graph"
	buildlog "github.com/solgraph/solc-build/log"
	"github.com/solgraph/solc-build/partition"
	"github.com/solgraph/solc-build/semver"
	"github.com/solgraph/solc-build/solc"
	"github.com/solgraph/solc-build/svm"
)

// UnitState is the BuildDriver's per-unit state machine position.
type UnitState int

const (
	StateNew UnitState = iota
	StatePlanned
	StateCached
	StateCompiling
	StateWritten
	StateFailed
)

func (s UnitState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StatePlanned:
		return "PLANNED"
	case StateCached:
		return "CACHED"
	case StateCompiling:
		return "COMPILING"
	case StateWritten:
		return "WRITTEN"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// ErrIncompatibleTargetVersion is fatal: a user-configured target version
// is not a member of a unit's intersected VersionRanges.
type ErrIncompatibleTargetVersion struct {
	UnitHash string
	Target   semver.Version
}

func (e *ErrIncompatibleTargetVersion) Error() string {
	return "target compiler version " + e.Target.String() + " incompatible with unit " + e.UnitHash
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrIncompatibleTargetVersion) Kind() string { return "version-error" }

// ErrNoCompatibleCompilerVersion is fatal: no known compiler version is a
// member of the unit's VersionRanges.
type ErrNoCompatibleCompilerVersion struct {
	UnitHash string
}

func (e *ErrNoCompatibleCompilerVersion) Error() string {
	return "no known compiler version satisfies unit " + e.UnitHash
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrNoCompatibleCompilerVersion) Kind() string { return "version-error" }

// Request describes one build invocation.
type Request struct {
	Graph         *graph.Graph
	Policy        partition.Policy
	BuildDir      string
	IncludePaths  []string
	AllowPaths    []string
	EVMVersion    string
	OutputKinds   []string
	Remappings    []string
	TargetVersion *semver.Version
	Reuse         bool
	// KnownVersions lists every compiler version available in the svm
	// cache/catalog; the driver picks the greatest member when no target
	// version is configured.
	KnownVersions []semver.Version
}

// Driver owns the compiler version manager and solc runner factory used to
// execute units.
type Driver struct {
	Compilers *svm.Manager
	// NewRunner builds a Runner for a given installed solc binary. A field
	// rather than a hardcoded constructor to keep the package testable.
	NewRunner func(binaryPath, basePath string, includePaths, allowPaths []string) *solc.Runner
	// Log receives per-unit progress lines; nil disables logging.
	Log *buildlog.Logger
}

func (d *Driver) logf(unitHash, format string, args ...interface{}) {
	if d.Log != nil {
		d.Log.LogUnitfln(unitHash, format, args...)
	}
}

// UnitResult is one compiled (or cached, or failed) unit's outcome.
type UnitResult struct {
	Hash   string
	State  UnitState
	Record UnitRecord
	Err    error
}

// Run executes a full build: partitions the graph, selects versions,
// reuses what it can, compiles the rest concurrently, and promotes results
// into req.BuildDir. Returns results sorted by unit hash.
func (d *Driver) Run(ctx context.Context, req *Request) ([]UnitResult, error) {
	units, err := partition.Partition(req.Graph, req.Policy)
	if err != nil {
		return nil, err
	}

	prevManifest, err := LoadManifest(req.BuildDir)
	if err != nil {
		return nil, err
	}

	tmpDir := filepath.Join(req.BuildDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating tmp staging directory")
	}

	fl := flock.NewFlock(filepath.Join(req.BuildDir, ".lock"))
	if err := fl.Lock(); err != nil {
		return nil, errors.Wrap(err, "acquiring build directory lock")
	}
	defer func() { _ = fl.Unlock() }()

	groupCtx, cancel := constext.Cons(ctx, ctx)
	defer cancel()

	eg, gctx := errgroup.WithContext(groupCtx)
	results := make([]UnitResult, len(units))

	for i, u := range units {
		i, u := i, u
		eg.Go(func() error {
			res := d.runUnit(gctx, req, u, req.Graph, prevManifest)
			results[i] = res
			if res.State == StateFailed {
				// every StateFailed cause here is fatal to the whole build
				// (version selection, install, or compiler invocation
				// failure); compiler-reported diagnostics never reach this
				// path since they're recorded on an otherwise-successful
				// StateWritten result instead. Returning the error cancels
				// gctx, stopping sibling unit tasks.
				return res.Err
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Hash < results[b].Hash })

	newManifest := emptyManifest()
	for _, r := range results {
		if r.State == StateWritten || r.State == StateCached {
			newManifest.CompilationUnits[r.Hash] = r.Record
		}
	}

	if err := promote(req.BuildDir, tmpDir, newManifest); err != nil {
		return nil, err
	}

	return results, nil
}

func (d *Driver) runUnit(ctx context.Context, req *Request, u *partition.Unit, g *graph.Graph, prev *Manifest) UnitResult {
	names := u.SourceUnitNames(g)

	version, err := selectVersion(u, req)
	if err != nil {
		return UnitResult{Hash: u.Hash, State: StateFailed, Err: err}
	}

	settings := solc.Settings{
		Remappings: req.Remappings,
		EVMVersion: req.EVMVersion,
		OutputSelection: solc.OutputSelection{
			"*": {"": req.OutputKinds, "*": req.OutputKinds},
		},
	}

	if req.Reuse {
		if prevRecord, ok := prev.CompilationUnits[u.Hash]; ok {
			if reusable(prevRecord, names, req.IncludePaths, req.AllowPaths, settings) {
				if loaded, err := loadCached(req.BuildDir, prevRecord); err == nil {
					d.logf(u.Hash, "reused cached artifacts")
					return UnitResult{Hash: u.Hash, State: StateCached, Record: loaded}
				}
				// fall through to recompilation on any I/O/parse failure
			}
		}
	}

	binaryPath, ok := d.Compilers.Path(version)
	if !ok {
		d.logf(u.Hash, "installing solc %s", version)
		installed, err := d.Compilers.Install(ctx, version)
		if err != nil {
			return UnitResult{Hash: u.Hash, State: StateFailed, Err: err}
		}
		binaryPath = installed
	}

	d.logf(u.Hash, "compiling %d source unit(s) with solc %s", len(u.Nodes), version)

	basePath := ""
	if version.Major > 0 || version.Minor > 8 || (version.Minor == 8 && version.Patch >= 8) {
		basePath = "."
	}

	runner := d.NewRunner(binaryPath, basePath, req.IncludePaths, req.AllowPaths)

	input := &solc.Input{
		Language: "Solidity",
		Sources:  make(map[string]solc.Source),
		Settings: settings,
	}
	for _, idx := range u.Nodes {
		n := g.Node(idx)
		if n.Content != nil {
			input.Sources[n.SourceUnitName] = solc.Source{Content: n.Content}
		} else {
			input.Sources[n.SourceUnitName] = solc.Source{URLs: []string{n.Path}}
		}
	}

	output, err := runner.Run(ctx, input)
	if err != nil {
		return UnitResult{Hash: u.Hash, State: StateFailed, Err: err}
	}

	record, err := writeUnit(req.BuildDir, u.Hash, names, req, settings, output)
	if err != nil {
		return UnitResult{Hash: u.Hash, State: StateFailed, Err: err}
	}

	return UnitResult{Hash: u.Hash, State: StateWritten, Record: record}
}

// selectVersion picks the target compiler version: the user-configured
// target if set (validated against the unit's ranges), otherwise the
// greatest known version within range.
func selectVersion(u *partition.Unit, req *Request) (semver.Version, error) {
	if req.TargetVersion != nil {
		if !u.VersionRanges.Contains(*req.TargetVersion) {
			return semver.Version{}, &ErrIncompatibleTargetVersion{UnitHash: u.Hash, Target: *req.TargetVersion}
		}
		return *req.TargetVersion, nil
	}

	var best *semver.Version
	for i := range req.KnownVersions {
		v := req.KnownVersions[i]
		if !u.VersionRanges.Contains(v) {
			continue
		}
		if best == nil || best.Less(v) {
			best = &req.KnownVersions[i]
		}
	}
	if best == nil {
		return semver.Version{}, &ErrNoCompatibleCompilerVersion{UnitHash: u.Hash}
	}
	return *best, nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// safeFileName rewrites a source unit name into a filesystem-safe filename:
// unsafe characters are replaced with "_", and collisions between distinct
// names are avoided by appending a short suffix taken from the SHA-256 of
// the name rather than relying on character substitution alone.
func safeFileName(sourceUnitName string) string {
	sum := sha256.Sum256([]byte(sourceUnitName))
	suffix := hex.EncodeToString(sum[:6])
	base := unsafeNameChars.ReplaceAllString(sourceUnitName, "_")
	if len(base) > 100 {
		base = base[:100]
	}
	return base + "-" + suffix
}

func promote(buildDir, tmpDir string, m *Manifest) error {
	if err := m.Write(tmpDir); err != nil {
		return err
	}

	for hash, record := range m.CompilationUnits {
		src := filepath.Join(tmpDir, record.BuildDir)
		dst := filepath.Join(buildDir, record.BuildDir)
		if _, err := os.Stat(src); err != nil {
			continue // this unit's files were loaded from the existing cache, not staged
		}
		_ = os.RemoveAll(dst)
		if err := shutil.CopyTree(src, dst, nil); err != nil {
			return errors.Wrapf(err, "promoting compilation unit %s", hash)
		}
	}

	if err := m.Write(buildDir); err != nil {
		return err
	}

	keep := make(map[string]bool, len(m.CompilationUnits))
	for _, record := range m.CompilationUnits {
		keep[record.BuildDir] = true
	}
	entries, err := os.ReadDir(buildDir)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() || e.Name() == "tmp" {
				continue
			}
			if !keep[e.Name()] {
				_ = os.RemoveAll(filepath.Join(buildDir, e.Name()))
			}
		}
	}

	return os.RemoveAll(tmpDir)
}
