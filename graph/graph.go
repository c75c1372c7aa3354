// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph builds and represents the import DAG: a directed graph
// whose nodes are source units and whose edges point from an imported unit
// to the unit that imports it (so sinks are terminals that must be
// compiled together with their dependencies). Nodes live in an arena
// indexed by int; adjacency is expressed purely as index slices, so the
// graph never relies on ownership relationships between nodes — the same
// shape the teacher's package-tree and dependency-solver graphs use.
package graph

import "github.com/solgraph/solc-build/semver"

// SourceNode is one node of the import graph: a parsed, hashed source
// file. Immutable once added to a Graph.
type SourceNode struct {
	Index int

	SourceUnitName string
	Path           string
	Versions       semver.Ranges
	Hash           [32]byte

	// Content, when non-nil, is an in-memory override of the file's
	// contents (e.g. an unsaved editor buffer), as opposed to reading Path
	// from disk.
	Content *string

	// UnresolvedImports holds source unit names that could not be resolved
	// to a filesystem path; populated only when the graph was built in
	// tolerant ("ignore errors") mode. Empty on a clean build.
	UnresolvedImports map[string]bool
}

// Graph is the immutable import DAG produced by a Builder. Multiple cycles
// are legal — Solidity permits cyclic imports.
type Graph struct {
	nodes       []*SourceNode
	indexByName map[string]int

	// out[i] holds every j such that an edge i->j exists, i.e. node j
	// imports node i. in[j] is the inverse adjacency.
	out [][]int
	in  [][]int
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{indexByName: make(map[string]int)}
}

// AddNode inserts a node, returning its newly assigned index. The caller
// must ensure SourceUnitName is not already present (checked by the
// Builder prior to calling this).
func (g *Graph) AddNode(n *SourceNode) int {
	idx := len(g.nodes)
	n.Index = idx
	g.nodes = append(g.nodes, n)
	g.indexByName[n.SourceUnitName] = idx
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// NodeByName returns the node index for a source unit name, if present.
func (g *Graph) NodeByName(name string) (int, bool) {
	idx, ok := g.indexByName[name]
	return idx, ok
}

// Node returns the node at index i.
func (g *Graph) Node(i int) *SourceNode { return g.nodes[i] }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// AddEdge records that node `to` imports node `from` (from -> to in the
// graph's reversed-edge convention).
func (g *Graph) AddEdge(from, to int) {
	for _, existing := range g.out[from] {
		if existing == to {
			return
		}
	}
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
}

// OutEdges returns the indices of nodes that import node i.
func (g *Graph) OutEdges(i int) []int { return g.out[i] }

// InEdges returns the indices of nodes imported by node i.
func (g *Graph) InEdges(i int) []int { return g.in[i] }

// OutDegree is len(OutEdges(i)).
func (g *Graph) OutDegree(i int) int { return len(g.out[i]) }

// InDegree is len(InEdges(i)).
func (g *Graph) InDegree(i int) int { return len(g.in[i]) }

// Sinks returns every node index with out-degree zero: nothing imports it.
func (g *Graph) Sinks() []int {
	var sinks []int
	for i := range g.nodes {
		if g.OutDegree(i) == 0 {
			sinks = append(sinks, i)
		}
	}
	return sinks
}

// WeaklyConnectedComponents partitions all node indices into weakly
// connected components (treating edges as undirected), in first-encounter
// order.
func (g *Graph) WeaklyConnectedComponents() [][]int {
	seen := make([]bool, len(g.nodes))
	var components [][]int

	for start := range g.nodes {
		if seen[start] {
			continue
		}
		var component []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, n)
			for _, nb := range g.out[n] {
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
			for _, nb := range g.in[n] {
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// SimpleCycles enumerates every simple (elementary) cycle in the graph
// using Johnson's algorithm restricted to this small, file-count-sized
// graph — adequate since compilation units rarely exceed a few thousand
// nodes. Each cycle is returned as a slice of node indices.
func (g *Graph) SimpleCycles() [][]int {
	var cycles [][]int
	blocked := make([]bool, len(g.nodes))
	blockMap := make([]map[int]bool, len(g.nodes))
	var stack []int

	var unblock func(int)
	unblock = func(u int) {
		blocked[u] = false
		for w := range blockMap[u] {
			delete(blockMap[u], w)
			if blocked[w] {
				unblock(w)
			}
		}
	}

	var circuit func(v, start int) bool
	circuit = func(v, start int) bool {
		found := false
		stack = append(stack, v)
		blocked[v] = true

		for _, w := range g.out[v] {
			if w < start {
				continue
			}
			if w == start {
				cyc := make([]int, len(stack))
				copy(cyc, stack)
				cycles = append(cycles, cyc)
				found = true
			} else if !blocked[w] {
				if circuit(w, start) {
					found = true
				}
			}
		}

		if found {
			unblock(v)
		} else {
			for _, w := range g.out[v] {
				if w < start {
					continue
				}
				if blockMap[w] == nil {
					blockMap[w] = make(map[int]bool)
				}
				blockMap[w][v] = true
			}
		}

		stack = stack[:len(stack)-1]
		return found
	}

	for start := range g.nodes {
		for i := range blocked {
			blocked[i] = false
			blockMap[i] = nil
		}
		stack = nil
		circuit(start, start)
	}
	return cycles
}
