// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package prodindex

import "testing"

func TestAddAndTrees(t *testing.T) {
	idx := New(4)
	idx.Add(0, 10)
	idx.Add(0, 11)
	idx.Add(1, 11)

	bm := idx.Trees(0)
	if bm == nil || bm.GetCardinality() != 2 {
		t.Fatalf("expected 2 trees for prod 0, got %v", bm)
	}
	if !bm.Contains(10) || !bm.Contains(11) {
		t.Fatalf("expected trees 10 and 11 for prod 0")
	}
}

func TestTreesUnknownProd(t *testing.T) {
	idx := New(2)
	if bm := idx.Trees(5); bm != nil {
		t.Fatalf("expected nil for out-of-range production")
	}
}

func TestNegativeProdIgnored(t *testing.T) {
	idx := New(2)
	idx.Add(-1, 3)
	if bm := idx.Trees(-1); bm != nil {
		t.Fatalf("terminal sentinel production must never be indexed")
	}
}

func TestIntersect(t *testing.T) {
	idx := New(4)
	idx.Add(0, 1)
	idx.Add(0, 2)
	idx.Add(0, 3)
	idx.Add(1, 2)
	idx.Add(1, 3)
	idx.Add(1, 4)

	got := Intersect(idx, []int32{0, 1})
	if got.GetCardinality() != 2 || !got.Contains(2) || !got.Contains(3) {
		t.Fatalf("expected {2,3}, got %v", got.ToArray())
	}
}

func TestIntersectMissingProdIsEmpty(t *testing.T) {
	idx := New(4)
	idx.Add(0, 1)

	got := Intersect(idx, []int32{0, 2})
	if !got.IsEmpty() {
		t.Fatalf("expected empty intersection when a production is absent")
	}
}

func TestIntersectEmptyProdList(t *testing.T) {
	idx := New(1)
	got := Intersect(idx, nil)
	if !got.IsEmpty() {
		t.Fatalf("expected empty result for empty production list")
	}
}
