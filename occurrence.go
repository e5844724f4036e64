// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	"fmt"

	bs "github.com/dopfrag/fragments/internal/bitset"
	"github.com/dopfrag/fragments/internal/prodindex"
)

// OccurrenceCounter counts exact occurrences of previously extracted
// fragments across the trees of a target arena (spec.md 4.6). It is
// built once per target arena and reused across many fragments, since
// building the production reverse index dominates its setup cost.
type OccurrenceCounter struct {
	target *prodindex.Index
	trees  *Ctrees
}

// NewOccurrenceCounter builds (or reuses) the per-production reverse
// index over target and returns a counter ready to answer occurrence
// queries against it.
func NewOccurrenceCounter(target *Ctrees) *OccurrenceCounter {
	if target.ProdIndex() == nil {
		target.BuildProdIndex()
	}
	return &OccurrenceCounter{target: target.ProdIndex(), trees: target}
}

// ExactCount returns the total number of times f occurs anywhere in
// the target arena, counting every matching anchor node in every
// matching tree — a fragment may occur more than once within a single
// tree.
func (c *OccurrenceCounter) ExactCount(source *Ctrees, f *Fragment) (int, error) {
	indexed, err := c.IndexedCount(source, f)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range indexed {
		total += n
	}
	return total, nil
}

// IndexedCount is ExactCount broken down per target tree id, for
// callers that need per-tree multiplicity rather than a single scalar.
// It returns ErrIndexOutOfRange, per spec.md 7's "always a programmer
// error, fatal for the worker" classification, if f.Root does not
// address a real node of f.TreeID in source.
func (c *OccurrenceCounter) IndexedCount(source *Ctrees, f *Fragment) (map[int32]int, error) {
	counts := map[int32]int{}

	a := source.Nodes(f.TreeID)
	i := int(f.Root)
	if i < 0 || i >= len(a) {
		return nil, newTreeError(ErrIndexOutOfRange, int(f.TreeID),
			fmt.Errorf("fragment root %d out of range [0,%d)", i, len(a)))
	}

	prods := c.candidateProds(a, f)
	candidates := prodindex.Intersect(c.target, prods)
	if candidates.IsEmpty() {
		return counts, nil
	}

	rootProd := a[i].Prod
	for _, treeID32 := range candidates.ToArray() {
		treeID := int32(treeID32)
		b := c.trees.Nodes(treeID)
		matches := 0
		for j := range b {
			if b[j].Prod == rootProd && containsAt(a, b, f.Bits, i, j) {
				matches++
			}
		}
		if matches > 0 {
			counts[treeID] = matches
		}
	}
	return counts, nil
}

// candidateProds collects the productions of every node set in f
// (spec.md 4.6, step 2), skipping terminals — the reverse index only
// tracks real, non-negative production ids (internal/prodindex.Add).
func (c *OccurrenceCounter) candidateProds(a []Node, f *Fragment) []int32 {
	var prods []int32
	cur := bs.NewCursor(f.Bits)
	for {
		k, ok := cur.Next()
		if !ok {
			break
		}
		// spec.md 9 Ambiguity (b): iteratesetbits may hand back an
		// index past the source tree's length; assert the bound
		// instead of trusting the fragment blindly.
		if k >= len(a) {
			break
		}
		if a[k].Prod >= 0 {
			prods = append(prods, a[k].Prod)
		}
	}
	return prods
}

// containsAt is the structural match at the core of occurrence
// counting: it follows only children whose bit is set in R, treating
// an unset bit as a frontier that matches unconditionally. Unary
// nodes (Right == -1) are handled by following the left child alone,
// resolving spec.md 9 Ambiguity (a) — canonicalize enforces that
// Right == -1 only ever means "no right child", never "terminal",
// so this never masks a real structural mismatch.
func containsAt(a, b []Node, r []uint64, i, j int) bool {
	if i < 0 || i >= len(a) || j < 0 || j >= len(b) {
		return false
	}
	if !bs.Test(r, i) {
		return true // frontier: any subtree here satisfies the match
	}

	aNode, bNode := a[i], b[j]
	if aNode.Prod != bNode.Prod {
		return false
	}
	if aNode.IsTerminal() {
		return true
	}
	if aNode.Right < 0 {
		return containsAt(a, b, r, int(aNode.Left), int(bNode.Left))
	}
	return containsAt(a, b, r, int(aNode.Left), int(bNode.Left)) &&
		containsAt(a, b, r, int(aNode.Right), int(bNode.Right))
}
