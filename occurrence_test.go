// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	"errors"
	"testing"
)

func buildRepeatedSVPArena(t *testing.T, copies int) *Ctrees {
	t.Helper()
	arena := NewCtrees(copies, copies*5)
	for n := 0; n < copies; n++ {
		nodes, root := buildSVPTree()
		if _, err := arena.Push(nodes, root); err != nil {
			t.Fatalf("Push copy %d: %v", n, err)
		}
	}
	arena.BuildProdIndex()
	return arena
}

func TestOccurrenceCounterWholeTreeMatchesEveryCopy(t *testing.T) {
	const copies = 10
	arena := buildRepeatedSVPArena(t, copies)

	tree0 := arena.Tree(0)
	full := NewFragment(int(tree0.Len), 0, tree0.Root)
	for i := int16(0); i < int16(tree0.Len); i++ {
		full.Set(int(i))
	}

	counter := NewOccurrenceCounter(arena)
	got, err := counter.ExactCount(arena, full)
	if err != nil {
		t.Fatalf("ExactCount() error: %v", err)
	}
	if got != copies {
		t.Fatalf("ExactCount() = %d, want %d", got, copies)
	}

	indexed, err := counter.IndexedCount(arena, full)
	if err != nil {
		t.Fatalf("IndexedCount() error: %v", err)
	}
	if len(indexed) != copies {
		t.Fatalf("IndexedCount() has %d trees, want %d", len(indexed), copies)
	}
	for treeID, n := range indexed {
		if n != 1 {
			t.Fatalf("tree %d matched %d times, want 1", treeID, n)
		}
	}
}

func TestOccurrenceCounterSubFragmentStillMatchesEveryCopy(t *testing.T) {
	const copies = 6
	arena := buildRepeatedSVPArena(t, copies)

	// NP -> t0 is a two-node fragment (indices 2 and 0 in canonicalSVP
	// order) rooted at NP; it should still be found once per tree.
	sub := NewFragment(5, 0, 2)
	sub.Set(2)
	sub.Set(0)

	counter := NewOccurrenceCounter(arena)
	got, err := counter.ExactCount(arena, sub)
	if err != nil {
		t.Fatalf("ExactCount() error: %v", err)
	}
	if got != copies {
		t.Fatalf("ExactCount() for NP sub-fragment = %d, want %d", got, copies)
	}
}

// TestOccurrenceCounterSingleProductionFragmentOverTenTrees is the
// worked example of a fragment consisting of a single production —
// (NP x), one node rooted at NP with its terminal child — counted
// exactly once per tree across a ten-tree corpus that each contain
// that production exactly once.
func TestOccurrenceCounterSingleProductionFragmentOverTenTrees(t *testing.T) {
	const copies = 10
	arena := buildRepeatedSVPArena(t, copies)

	np := NewFragment(5, 0, 2)
	np.Set(2)

	counter := NewOccurrenceCounter(arena)
	got, err := counter.ExactCount(arena, np)
	if err != nil {
		t.Fatalf("ExactCount() error: %v", err)
	}
	if got != copies {
		t.Fatalf("ExactCount() for (NP x) = %d, want %d", got, copies)
	}
}

func TestOccurrenceCounterOutOfRangeRootYieldsErrIndexOutOfRange(t *testing.T) {
	arena := buildRepeatedSVPArena(t, 3)
	bogus := NewFragment(5, 0, 99)
	bogus.Set(0)

	counter := NewOccurrenceCounter(arena)
	_, err := counter.ExactCount(arena, bogus)
	if err == nil {
		t.Fatalf("ExactCount() with out-of-range root: expected an error")
	}
	var fe *FragmentError
	if !errors.As(err, &fe) {
		t.Fatalf("ExactCount() error = %v, want a *FragmentError", err)
	}
	if fe.Kind != ErrIndexOutOfRange {
		t.Fatalf("error Kind = %v, want ErrIndexOutOfRange", fe.Kind)
	}
}

func TestContainsAtTreatsUnsetBitsAsFrontier(t *testing.T) {
	a, root := canonicalSVP()
	b, _ := canonicalSVP()

	// Only the root bit set: everything below is a frontier and must
	// match unconditionally, regardless of what b actually contains.
	r := make([]uint64, 1)
	bsSetForTest(r, int(root))

	if !containsAt(a, b, r, int(root), int(root)) {
		t.Fatalf("expected frontier-only fragment to match trivially")
	}
}
