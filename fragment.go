// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	bs "github.com/dopfrag/fragments/internal/bitset"
	"github.com/dopfrag/fragments/internal/blob"
)

// Fragment is a bitset over the nodes of one source tree, with a
// trailer identifying that tree and the fragment's root node
// (spec.md 3, "Fragment bitset"). Design Notes 9 prefers this explicit
// struct over packing (id, root) as trailing words inside the bit
// array itself.
//
// A set bit means the corresponding node is included in the
// fragment; an unset child of a set node is a frontier
// non-terminal (spec.md, GLOSSARY).
type Fragment struct {
	Bits   []uint64
	Slots  int32
	TreeID int32
	Root   int16
}

// NewFragment returns a zeroed Fragment sized to hold nodeCount bits,
// rooted at root within treeID.
func NewFragment(nodeCount int, treeID int32, root int16) *Fragment {
	slots := bs.Slots(nodeCount)
	return &Fragment{
		Bits:   make([]uint64, slots),
		Slots:  int32(slots),
		TreeID: treeID,
		Root:   root,
	}
}

// Set marks node i as included in the fragment.
func (f *Fragment) Set(i int) { bs.Set(f.Bits, i) }

// Clear marks node i as excluded from the fragment.
func (f *Fragment) Clear(i int) { bs.Clear(f.Bits, i) }

// Test reports whether node i is included in the fragment.
func (f *Fragment) Test(i int) bool { return bs.Test(f.Bits, i) }

// Popcount returns the number of nodes included in the fragment.
func (f *Fragment) Popcount() int { return bs.Popcount(f.Bits) }

// IsEmpty reports whether the fragment includes no node at all.
func (f *Fragment) IsEmpty() bool { return bs.IsEmpty(f.Bits) }

// Clone returns a deep copy of f.
func (f *Fragment) Clone() *Fragment {
	return &Fragment{
		Bits:   bs.Clone(f.Bits),
		Slots:  f.Slots,
		TreeID: f.TreeID,
		Root:   f.Root,
	}
}

// Cursor returns a bit cursor over f's set bits in ascending order.
func (f *Fragment) Cursor() bs.Cursor { return bs.NewCursor(f.Bits) }

// Equal reports whether f and o have the same trailer and bit pattern.
func (f *Fragment) Equal(o *Fragment) bool {
	if f.TreeID != o.TreeID || f.Root != o.Root || len(f.Bits) != len(o.Bits) {
		return false
	}
	for i, w := range f.Bits {
		if w != o.Bits[i] {
			return false
		}
	}
	return true
}

// Less orders two fragments by (TreeID, Root, bit pattern), used only
// to make diagnostic and debug output deterministic — it never
// affects which fragments are emitted or how they are counted.
// Grounded on discodop's Tree.__lt__ (label first, then element-wise
// comparison), see DESIGN.md.
func (f *Fragment) Less(o *Fragment) bool {
	if f.TreeID != o.TreeID {
		return f.TreeID < o.TreeID
	}
	if f.Root != o.Root {
		return f.Root < o.Root
	}
	n := len(f.Bits)
	if len(o.Bits) < n {
		n = len(o.Bits)
	}
	for i := 0; i < n; i++ {
		if f.Bits[i] != o.Bits[i] {
			return f.Bits[i] < o.Bits[i]
		}
	}
	return len(f.Bits) < len(o.Bits)
}

// ToBlob serializes f to a transportable byte blob (spec.md Design
// Notes 9: "hashable/transportable as byte blobs").
func (f *Fragment) ToBlob() ([]byte, error) {
	return blob.Encode(blob.Fragment{
		Bits:   f.Bits,
		Slots:  f.Slots,
		TreeID: f.TreeID,
		Root:   f.Root,
	})
}

// FragmentFromBlob deserializes a Fragment previously produced by
// Fragment.ToBlob.
func FragmentFromBlob(data []byte) (*Fragment, error) {
	b, err := blob.Decode(data)
	if err != nil {
		return nil, err
	}
	return &Fragment{Bits: b.Bits, Slots: b.Slots, TreeID: b.TreeID, Root: b.Root}, nil
}
