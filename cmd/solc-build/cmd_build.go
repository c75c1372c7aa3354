// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/solgraph/solc-build/build"
	"github.com/solgraph/solc-build/config"
	"github.com/solgraph/solc-build/graph"
	buildlog "github.com/solgraph/solc-build/log"
	"github.com/solgraph/solc-build/partition"
	"github.com/solgraph/solc-build/semver"
	"github.com/solgraph/solc-build/solc"
	"github.com/solgraph/solc-build/sourcepath"
	"github.com/solgraph/solc-build/sourceunit"
	"github.com/solgraph/solc-build/svm"
)

type buildCommand struct {
	configPath string
	buildDir   string
}

func (c *buildCommand) Name() string      { return "build" }
func (c *buildCommand) Args() string      { return "[files...]" }
func (c *buildCommand) ShortHelp() string { return "compile a project's Solidity sources" }
func (c *buildCommand) LongHelp() string {
	return "Resolves imports, partitions sources into compilation units, " +
		"and invokes solc for each, reusing cached artifacts where possible."
}
func (c *buildCommand) Hidden() bool { return false }

func (c *buildCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", config.FileName, "path to the project configuration file")
	fs.StringVar(&c.buildDir, "build-dir", "build", "path to the build output directory")
}

func (c *buildCommand) Run(ctx *Ctx, args []string) error {
	cfg, err := config.Load(filepath.Join(ctx.WorkingDir, c.configPath))
	if err != nil {
		return err
	}
	ctx.Vlogf("loaded configuration from %s", c.configPath)

	entryPaths := args
	if len(entryPaths) == 0 {
		found, err := discoverEntries(cfg.ProjectRoot)
		if err != nil {
			return err
		}
		entryPaths = found
	}

	nameResolver := sourceunit.NewResolver(cfg.Remappings)
	pathResolver := sourcepath.NewResolver(cfg.ProjectRoot, cfg.IncludePaths...)

	builder := &graph.Builder{
		NameResolver: nameResolver,
		PathResolver: pathResolver,
		Roots:        append([]string{cfg.ProjectRoot}, cfg.IncludePaths...),
	}

	var entries []graph.EntryFile
	for _, p := range entryPaths {
		entries = append(entries, graph.EntryFile{Path: p})
	}

	g, err := builder.Build(entries)
	if err != nil {
		return err
	}
	ctx.Vlogf("built import graph with %d source units", g.Len())

	policy := partition.Minimize
	if cfg.Maximize {
		policy = partition.Maximize
	}

	cacheDir := filepath.Join(ctx.WorkingDir, ".solc-build", "compilers")
	compilers := svm.NewManager(defaultCatalogBaseURL(), cacheDir)

	cat, err := compilers.Catalog(context.Background())
	if err != nil {
		return err
	}
	known := make([]semver.Version, 0, len(cat.Releases))
	for version := range cat.Releases {
		v, err := semver.Parse(version)
		if err != nil {
			continue
		}
		known = append(known, v)
	}

	driver := &build.Driver{
		Compilers: compilers,
		NewRunner: func(binaryPath, basePath string, includePaths, allowPaths []string) *solc.Runner {
			return &solc.Runner{
				BinaryPath:   binaryPath,
				BasePath:     basePath,
				IncludePaths: includePaths,
				AllowPaths:   allowPaths,
			}
		},
		Log: buildlog.New(ctx.Out.Writer()),
	}

	req := &build.Request{
		Graph:         g,
		Policy:        policy,
		BuildDir:      filepath.Join(ctx.WorkingDir, c.buildDir),
		IncludePaths:  cfg.IncludePaths,
		AllowPaths:    cfg.AllowPaths,
		EVMVersion:    cfg.EVMVersion,
		OutputKinds:   cfg.OutputKinds,
		TargetVersion: cfg.TargetVersion,
		Reuse:         cfg.Reuse,
		KnownVersions: known,
	}
	for _, r := range cfg.Remappings {
		req.Remappings = append(req.Remappings, r.String())
	}

	results, err := driver.Run(context.Background(), req)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.State == build.StateFailed {
			failed++
			ctx.Err.Printf("unit %s failed: %v\n", r.Hash, r.Err)
			continue
		}
		ctx.Out.Printf("unit %s: %s\n", r.Hash, r.State)
	}
	if failed > 0 {
		return fmt.Errorf("%d compilation unit(s) failed", failed)
	}
	return nil
}

func defaultCatalogBaseURL() string {
	return "https://binaries.soliditylang.org/linux-amd64"
}
