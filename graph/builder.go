// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"os"

	"github.com/pkg/errors"

	"github.com/solgraph/solc-build/parser"
	"github.com/solgraph/solc-build/sourcepath"
	"github.com/solgraph/solc-build/sourceunit"
)

// ErrDuplicateSourceUnitName is fatal: two distinct files resolved to the
// same canonical source unit name.
type ErrDuplicateSourceUnitName struct {
	Name       string
	FirstPath  string
	SecondPath string
}

func (e *ErrDuplicateSourceUnitName) Error() string {
	return "same source unit name `" + e.Name + "` for multiple source files:\n" +
		e.FirstPath + "\n" + e.SecondPath
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrDuplicateSourceUnitName) Kind() string { return "graph-error" }

// EntryFile is one requested build input: an absolute filesystem path with
// an optional in-memory content override (an unsaved editor buffer).
type EntryFile struct {
	Path    string
	Content *string
}

// Builder drives the pre-parser, the source-unit-name resolver, and the
// source-path resolver recursively over a set of entry files, producing
// the immutable import Graph consumed by the partitioner.
type Builder struct {
	NameResolver *sourceunit.Resolver
	PathResolver *sourcepath.Resolver
	Roots        []string // project root first, then include paths

	// IgnoreErrors enables tolerant pre-parsing: malformed pragmas/imports
	// and unresolved imports are recorded rather than treated as fatal.
	// Never the default for batch builds — only for editor integration.
	IgnoreErrors bool
}

type queueItem struct {
	name    string
	path    string
	content *string
}

// Build resolves every entry file's source unit name, then recursively
// parses and resolves every transitive import, producing the completed
// Graph.
func (b *Builder) Build(entries []EntryFile) (*Graph, error) {
	g := New()
	pathOf := make(map[string]string)
	var queue []queueItem
	var pendingEdges []pendingEdge

	for _, e := range entries {
		abs := e.Path
		if _, err := os.Stat(abs); err != nil {
			if b.IgnoreErrors {
				continue
			}
			return nil, errors.Wrapf(err, "resolving entry file %q", e.Path)
		}

		name, err := sourceunit.ResolveCmdlineArg(abs, b.Roots)
		if err != nil {
			return nil, err
		}
		if existing, ok := pathOf[name]; ok && existing != abs {
			return nil, &ErrDuplicateSourceUnitName{Name: name, FirstPath: existing, SecondPath: abs}
		}
		pathOf[name] = abs
		queue = append(queue, queueItem{name: name, path: abs, content: e.Content})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if _, ok := g.NodeByName(item.name); ok {
			continue
		}

		result, err := b.parseOne(item)
		if err != nil {
			if b.IgnoreErrors {
				continue
			}
			return nil, err
		}

		node := &SourceNode{
			SourceUnitName:    item.name,
			Path:              item.path,
			Versions:          result.Versions,
			Hash:              result.Hash,
			Content:           item.content,
			UnresolvedImports: make(map[string]bool),
		}
		idx := g.AddNode(node)

		for _, rawImport := range result.Imports {
			importName := b.NameResolver.ResolveImport(item.name, rawImport)

			importPath, err := b.PathResolver.Resolve(importName)
			if err != nil {
				if b.IgnoreErrors {
					node.UnresolvedImports[importName] = true
					continue
				}
				return nil, err
			}

			if existing, ok := pathOf[importName]; ok {
				if existing != importPath {
					return nil, &ErrDuplicateSourceUnitName{Name: importName, FirstPath: existing, SecondPath: importPath}
				}
			} else {
				pathOf[importName] = importPath
				queue = append(queue, queueItem{name: importName, path: importPath, content: nil})
			}

			if importIdx, ok := g.NodeByName(importName); ok {
				g.AddEdge(importIdx, idx)
			} else {
				// the imported node has not been parsed yet (it was just
				// queued, or will be reached later by another path);
				// resolved in the pass below once every node exists.
				pendingEdges = append(pendingEdges, pendingEdge{fromName: importName, to: idx})
			}
		}
	}

	for _, p := range pendingEdges {
		if idx, ok := g.NodeByName(p.fromName); ok {
			g.AddEdge(idx, p.to)
		}
	}

	return g, nil
}

type pendingEdge struct {
	fromName string
	to       int
}

func (b *Builder) parseOne(item queueItem) (parser.Result, error) {
	var content []byte
	if item.content != nil {
		content = []byte(*item.content)
	} else {
		data, err := os.ReadFile(item.path)
		if err != nil {
			return parser.Result{}, errors.Wrapf(err, "reading %q", item.path)
		}
		content = data
	}

	result, err := parser.Parse(content, b.IgnoreErrors)
	if err != nil {
		return parser.Result{}, errors.Wrapf(err, "parsing %q", item.path)
	}
	return result, nil
}
