// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package partition slices an import graph into compilation units: closed
// sets of source nodes sharing a non-empty intersected version range, ready
// to hand to a single compiler invocation.
package partition

import (
	"encoding/hex"
	"sort"

	"github.com/pkg/errors"

	"github.com/solgraph/solc-build/graph"
	"github.com/solgraph/solc-build/semver"
)

// Policy selects how the graph is sliced into units.
type Policy int

const (
	// Minimize puts every weakly connected component into one unit
	// (the default).
	Minimize Policy = iota
	// Maximize builds one unit per sink node via reverse BFS, plus one
	// unit per self-contained simple cycle, permitting overlapping
	// coverage of a node across units.
	Maximize
)

// ErrEmptyVersionRange is fatal: a candidate unit's members have no
// pragma-compatible overlap.
type ErrEmptyVersionRange struct {
	SourceUnitNames []string
}

func (e *ErrEmptyVersionRange) Error() string {
	return "source units have no compatible compiler version: " + joinNames(e.SourceUnitNames)
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrEmptyVersionRange) Kind() string { return "version-error" }

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

// Unit is a compilable group of source nodes plus their intersected version
// range.
type Unit struct {
	Nodes         []int
	VersionRanges semver.Ranges
	Hash          string // lowercase hex
}

// SourceUnitNames returns the unit's member source unit names, sorted.
func (u *Unit) SourceUnitNames(g *graph.Graph) []string {
	names := make([]string, len(u.Nodes))
	for i, idx := range u.Nodes {
		names[i] = g.Node(idx).SourceUnitName
	}
	sort.Strings(names)
	return names
}

// Partition slices g into compilation units per the given policy, returning
// them sorted by ascending hex hash.
func Partition(g *graph.Graph, policy Policy) ([]*Unit, error) {
	var units []*Unit
	var err error

	switch policy {
	case Maximize:
		units, err = maximize(g)
	default:
		units, err = minimize(g)
	}
	if err != nil {
		return nil, err
	}

	for _, u := range units {
		u.Hash = hashUnit(g, u.Nodes)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Hash < units[j].Hash })
	return units, nil
}

func minimize(g *graph.Graph) ([]*Unit, error) {
	var units []*Unit
	for _, component := range g.WeaklyConnectedComponents() {
		ranges := intersectAll(g, component)
		if ranges.IsEmpty() {
			names := make([]string, len(component))
			for i, idx := range component {
				names[i] = g.Node(idx).SourceUnitName
			}
			return nil, errors.WithStack(&ErrEmptyVersionRange{SourceUnitNames: names})
		}
		units = append(units, &Unit{Nodes: component, VersionRanges: ranges})
	}
	return units, nil
}

func maximize(g *graph.Graph) ([]*Unit, error) {
	var units []*Unit

	emptyErr := func(nodes []int) error {
		names := make([]string, len(nodes))
		for i, idx := range nodes {
			names[i] = g.Node(idx).SourceUnitName
		}
		return errors.WithStack(&ErrEmptyVersionRange{SourceUnitNames: names})
	}

	for _, sink := range g.Sinks() {
		ancestors := reverseBFS(g, sink)
		ranges := intersectAll(g, ancestors)
		if ranges.IsEmpty() {
			return nil, emptyErr(ancestors)
		}
		units = append(units, &Unit{Nodes: ancestors, VersionRanges: ranges})
	}

	for _, cycle := range g.SimpleCycles() {
		if !selfContained(g, cycle) {
			continue
		}
		ranges := intersectAll(g, cycle)
		if ranges.IsEmpty() {
			return nil, emptyErr(cycle)
		}
		units = append(units, &Unit{Nodes: cycle, VersionRanges: ranges})
	}

	return units, nil
}

// reverseBFS collects start and every node reachable by walking inbound
// edges (i.e. every ancestor it imports, transitively).
func reverseBFS(g *graph.Graph, start int) []int {
	seen := map[int]bool{start: true}
	queue := []int{start}
	var result []int
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)
		for _, nb := range g.InEdges(n) {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return result
}

// selfContained reports whether every outgoing edge ("is imported by") of
// every node in the cycle stays within the cycle's own member set.
func selfContained(g *graph.Graph, cycle []int) bool {
	members := make(map[int]bool, len(cycle))
	for _, idx := range cycle {
		members[idx] = true
	}
	for _, idx := range cycle {
		for _, out := range g.OutEdges(idx) {
			if !members[out] {
				return false
			}
		}
	}
	return true
}

func intersectAll(g *graph.Graph, nodes []int) semver.Ranges {
	if len(nodes) == 0 {
		return semver.Any()
	}
	ranges := g.Node(nodes[0]).Versions
	for _, idx := range nodes[1:] {
		ranges = ranges.Intersect(g.Node(idx).Versions)
	}
	return ranges
}

// hashUnit computes the unit's content hash: the XOR of every member's
// content hash, commutative and order-independent regardless of traversal
// order.
func hashUnit(g *graph.Graph, nodes []int) string {
	var xor [32]byte
	for _, idx := range nodes {
		h := g.Node(idx).Hash
		for i := range xor {
			xor[i] ^= h[i]
		}
	}
	return hex.EncodeToString(xor[:])
}
