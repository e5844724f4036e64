// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/dopfrag/fragments/internal/prodindex"
)

// Ctrees is an append-only arena holding many small trees packed into
// one contiguous node pool, plus an ordered sequence of NodeArray
// views into that pool (spec.md 3, "Ctrees (arena)").
//
// Once appended, a tree's slice never moves relative to its Offset;
// growth reallocates the whole pool, not individual trees. Callers
// hold no raw pointers into the pool across a Push call.
type Ctrees struct {
	pool     []Node
	arrays   []NodeArray
	maxnodes int32

	// seenProds is the arena-wide set of production ids observed
	// during ingest. Unlike a per-fragment bitset (internal/bitset,
	// fixed-width, sized once from maxnodes) this set grows without a
	// known bound as new productions are discovered tree by tree, so
	// it is backed by a general-purpose growable bitset rather than
	// the fixed-width fragment bitset type (SPEC_FULL.md 3).
	seenProds *bitset.BitSet

	treeswithprod *prodindex.Index
}

// NewCtrees returns an empty arena, optionally reserving capacity for
// treesHint trees of roughly nodesHint nodes each.
func NewCtrees(treesHint, nodesHint int) *Ctrees {
	c := &Ctrees{
		seenProds: bitset.New(0),
	}
	if treesHint > 0 {
		c.arrays = make([]NodeArray, 0, treesHint)
	}
	if treesHint > 0 && nodesHint > 0 {
		c.pool = make([]Node, 0, treesHint*nodesHint)
	}
	return c
}

// Len returns the number of trees in the arena.
func (c *Ctrees) Len() int { return len(c.arrays) }

// Maxnodes returns the largest per-tree node count seen so far, used
// to size fragment bitsets (spec.md 3).
func (c *Ctrees) Maxnodes() int32 { return c.maxnodes }

// Tree returns the NodeArray view for treeID.
func (c *Ctrees) Tree(treeID int32) NodeArray {
	return c.arrays[treeID]
}

// NodeAt returns the node at local index i within treeID's slice.
func (c *Ctrees) NodeAt(treeID int32, i int16) Node {
	a := c.arrays[treeID]
	return c.pool[int(a.Offset)+int(i)]
}

// Nodes returns the raw node slice for treeID, sorted by production
// ascending, exactly as it was canonicalised on insertion.
func (c *Ctrees) Nodes(treeID int32) []Node {
	a := c.arrays[treeID]
	return c.pool[a.Offset : a.Offset+a.Len]
}

// grow ensures the pool has capacity for need more nodes, reallocating if needed,
// using a fixed, non-random geometric growth factor (spec.md 4.2:
// "grows geometrically... if needed"). The factor is a compile-time
// constant rather than jittered, since arena growth must be
// deterministic for a given ingest sequence.
func grow(pool []Node, need int) []Node {
	if cap(pool)-len(pool) >= need {
		return pool
	}
	newCap := len(pool) + need
	geometric := len(pool) + len(pool)/8 + 6
	if geometric > newCap {
		newCap = geometric
	}
	grown := make([]Node, len(pool), newCap)
	copy(grown, pool)
	return grown
}

// Push copies nodes into the arena as a new tree rooted at root,
// canonicalising node order by production ascending (terminals
// sentinel-lowest) and rewriting child indices to match. It returns
// the new tree's id.
//
// Push validates structural invariants before committing anything to
// the arena: on failure the arena is left exactly as it was
// (spec.md 7, "writes are staged and committed only after
// validation").
func (c *Ctrees) Push(nodes []Node, root int16) (int32, error) {
	if len(nodes) == 0 {
		return 0, newError(ErrMalformedTree, fmt.Errorf("empty tree"))
	}
	if int(root) < 0 || int(root) >= len(nodes) {
		return 0, newError(ErrMalformedTree, fmt.Errorf("root %d out of range [0,%d)", root, len(nodes)))
	}

	staged, newRoot, err := canonicalize(nodes, root)
	if err != nil {
		return 0, err
	}

	c.pool = grow(c.pool, len(staged))
	offset := int32(len(c.pool))
	c.pool = append(c.pool, staged...)

	treeID := int32(len(c.arrays))
	c.arrays = append(c.arrays, NodeArray{
		Offset: offset,
		Len:    int32(len(staged)),
		Root:   newRoot,
	})

	if int32(len(staged)) > c.maxnodes {
		c.maxnodes = int32(len(staged))
	}
	for _, n := range staged {
		if n.Prod >= 0 {
			c.seenProds.Set(uint(n.Prod))
		}
	}

	return treeID, nil
}

// canonicalize sorts nodes by Prod ascending (stable, so siblings keep
// their relative order on ties) and rewrites every Left/Right child
// index to the new positions. Terminals sort first since TerminalProd
// is negative and every real production id is >= 0.
//
// It also asserts the unary invariant spec.md 9 Ambiguity (a) calls
// out: a node with a non-negative Left and Right == -1 must in fact
// have no second child, i.e. exactly the unary shape extractAt relies
// on to skip the right-branch recursion safely.
func canonicalize(nodes []Node, root int16) ([]Node, int16, error) {
	n := len(nodes)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return nodes[order[i]].Prod < nodes[order[j]].Prod
	})

	oldToNew := make([]int16, n)
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = int16(newIdx)
	}

	staged := make([]Node, n)
	for newIdx, oldIdx := range order {
		nd := nodes[oldIdx]
		if !nd.IsTerminal() {
			if int(nd.Left) < 0 || int(nd.Left) >= n {
				return nil, 0, newError(ErrMalformedTree, fmt.Errorf("left child %d out of range", nd.Left))
			}
			nd.Left = oldToNew[nd.Left]
			if nd.Right >= 0 {
				if int(nd.Right) >= n {
					return nil, 0, newError(ErrMalformedTree, fmt.Errorf("right child %d out of range", nd.Right))
				}
				nd.Right = oldToNew[nd.Right]
			} else if nd.Right != -1 {
				return nil, 0, newError(ErrMalformedTree, fmt.Errorf("right child sentinel %d invalid, want -1 or >=0", nd.Right))
			}
		}
		staged[newIdx] = nd
	}

	return staged, oldToNew[root], nil
}

// NumProds returns one past the largest production id seen by Push so
// far, derived from seenProds rather than rescanning the node pool —
// Set(i) on a bits-and-blooms/bitset already grows it to length i+1,
// so its length is exactly the bound BuildProdIndex needs to size the
// reverse index.
func (c *Ctrees) NumProds() int {
	return int(c.seenProds.Len())
}

// BuildProdIndex builds the per-production reverse index over every
// tree currently in the arena (spec.md 4.2). It should be called once
// after ingest completes; the index is immutable and safe for
// concurrent readers thereafter (spec.md 5).
func (c *Ctrees) BuildProdIndex() {
	idx := prodindex.New(c.NumProds())
	for treeID, a := range c.arrays {
		seen := make(map[int32]bool)
		for i := int32(0); i < a.Len; i++ {
			p := c.pool[a.Offset+i].Prod
			if p < 0 || seen[p] {
				continue
			}
			seen[p] = true
			idx.Add(p, int32(treeID))
		}
	}
	c.treeswithprod = idx
}

// ProdIndex returns the reverse index built by BuildProdIndex, or nil
// if it has not been built yet.
func (c *Ctrees) ProdIndex() *prodindex.Index {
	return c.treeswithprod
}
