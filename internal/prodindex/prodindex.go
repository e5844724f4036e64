// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

// Package prodindex implements the per-production reverse index used by
// the exact occurrence counter: for every production id p, the set of
// tree indices in a Ctrees arena that contain at least one node with
// that production.
//
// Backed by roaring bitmaps rather than map[int]bool or sorted []int32,
// since ExactOccurrenceCounter's candidate-pruning step intersects one
// of these sets per bit of a fragment (spec.md 4.6) and roaring bitmaps
// make that intersection close to free for the common case of a small
// number of large, mostly-disjoint-in-value-range sets.
package prodindex

import "github.com/RoaringBitmap/roaring/v2"

// Index maps production id -> set of tree indices containing it.
type Index struct {
	byProd []*roaring.Bitmap
}

// New returns an Index sized to hold numProds productions.
func New(numProds int) *Index {
	return &Index{byProd: make([]*roaring.Bitmap, numProds)}
}

// Add records that treeID contains a node with production prod.
func (x *Index) Add(prod int32, treeID int32) {
	if int(prod) < 0 {
		return // terminals are sentinel-negative, never indexed
	}
	if int(prod) >= len(x.byProd) {
		grown := make([]*roaring.Bitmap, prod+1)
		copy(grown, x.byProd)
		x.byProd = grown
	}
	bm := x.byProd[prod]
	if bm == nil {
		bm = roaring.New()
		x.byProd[prod] = bm
	}
	bm.Add(uint32(treeID))
}

// Trees returns the bitmap of tree indices containing prod, or nil if
// no tree in the arena carries that production.
func (x *Index) Trees(prod int32) *roaring.Bitmap {
	if int(prod) < 0 || int(prod) >= len(x.byProd) {
		return nil
	}
	return x.byProd[prod]
}

// Intersect returns a new bitmap holding the trees that contain every
// production in prods, or an empty bitmap if any production is absent
// from the index (empty intersection).
func Intersect(x *Index, prods []int32) *roaring.Bitmap {
	if len(prods) == 0 {
		return roaring.New()
	}

	first := x.Trees(prods[0])
	if first == nil {
		return roaring.New()
	}
	acc := first.Clone()

	for _, p := range prods[1:] {
		bm := x.Trees(p)
		if bm == nil {
			return roaring.New()
		}
		acc.And(bm)
		if acc.IsEmpty() {
			break
		}
	}
	return acc
}
