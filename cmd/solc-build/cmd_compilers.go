// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/solgraph/solc-build/semver"
	"github.com/solgraph/solc-build/svm"
)

type compilersCommand struct{}

func (c *compilersCommand) Name() string      { return "compilers" }
func (c *compilersCommand) Args() string      { return "<list|install|remove> [version]" }
func (c *compilersCommand) ShortHelp() string { return "manage installed solc compiler binaries" }
func (c *compilersCommand) LongHelp() string {
	return "Lists, installs, or removes solc compiler binaries from the local cache."
}
func (c *compilersCommand) Hidden() bool { return false }

func (c *compilersCommand) Register(fs *flag.FlagSet) {}

func (c *compilersCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("compilers: expected a subcommand (list, install, remove)")
	}

	manager := svm.NewManager(defaultCatalogBaseURL(), filepath.Join(ctx.WorkingDir, ".solc-build", "compilers"))

	switch args[0] {
	case "list":
		return c.list(ctx, manager, args[1:])
	case "install":
		return c.install(ctx, manager, args[1:])
	case "remove":
		return c.remove(ctx, manager, args[1:])
	default:
		return fmt.Errorf("compilers: unknown subcommand %q", args[0])
	}
}

func (c *compilersCommand) list(ctx *Ctx, manager *svm.Manager, args []string) error {
	installed, err := manager.EnumerateInstalled()
	if err != nil {
		return err
	}
	ctx.Out.Println("installed:")
	for _, v := range installed {
		if rec, ok := manager.LookupInstallRecord(v.String()); ok {
			ctx.Out.Printf("  %s (installed %s, sha256=%s keccak256=%s)\n",
				v, rec.InstalledAt.Format("2006-01-02T15:04:05Z07:00"), rec.SHA256, rec.Keccak256)
			continue
		}
		ctx.Out.Println("  " + v.String())
	}

	cat, err := manager.Catalog(context.Background())
	if err != nil {
		ctx.Err.Printf("warning: could not fetch remote catalog: %v\n", err)
		return nil
	}
	ctx.Out.Println("available:")
	for version := range cat.Releases {
		ctx.Out.Println("  " + version)
	}
	return nil
}

func (c *compilersCommand) install(ctx *Ctx, manager *svm.Manager, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("compilers install: expected exactly one version")
	}
	v, err := semver.Parse(args[0])
	if err != nil {
		return err
	}
	path, err := manager.Install(context.Background(), v)
	if err != nil {
		return err
	}
	ctx.Out.Printf("installed solc %s at %s\n", v, path)
	return nil
}

func (c *compilersCommand) remove(ctx *Ctx, manager *svm.Manager, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("compilers remove: expected exactly one version")
	}
	v, err := semver.Parse(args[0])
	if err != nil {
		return err
	}
	if err := manager.Remove(v); err != nil {
		return err
	}
	ctx.Out.Printf("removed solc %s\n", v)
	return nil
}
