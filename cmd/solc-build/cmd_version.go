// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "flag"

// Version is set at link time (-ldflags "-X main.Version=...").
var Version = "dev"

type versionCommand struct{}

func (c *versionCommand) Name() string           { return "version" }
func (c *versionCommand) Args() string           { return "" }
func (c *versionCommand) ShortHelp() string      { return "print the solc-build version" }
func (c *versionCommand) LongHelp() string       { return "Prints the solc-build binary's own version." }
func (c *versionCommand) Hidden() bool           { return false }
func (c *versionCommand) Register(*flag.FlagSet) {}

func (c *versionCommand) Run(ctx *Ctx, args []string) error {
	ctx.Out.Println("solc-build " + Version)
	return nil
}
