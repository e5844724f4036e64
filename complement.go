// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import bs "github.com/dopfrag/fragments/internal/bitset"

// ExtractComplement walks a in pre-order and returns every maximal
// connected region not covered by the given union bitset (spec.md
// 4.5). covered is expected to be the bitwise union of every fragment
// already extracted from a; it is read only, never mutated.
func ExtractComplement(a []Node, root int16, covered []uint64, treeID int32) []*Fragment {
	slots := len(covered)
	if slots == 0 {
		slots = bs.Slots(len(a))
	}

	var out []*Fragment

	var walk func(i int)
	var grow func(i int, r []uint64)

	grow = func(i int, r []uint64) {
		bs.Set(r, i)
		node := a[i]
		if node.IsTerminal() {
			return
		}

		if node.Left >= 0 {
			if bs.Test(covered, int(node.Left)) {
				walk(int(node.Left))
			} else {
				grow(int(node.Left), r)
			}
		}
		if node.Right >= 0 {
			if bs.Test(covered, int(node.Right)) {
				walk(int(node.Right))
			} else {
				grow(int(node.Right), r)
			}
		}
	}

	walk = func(i int) {
		if bs.Test(covered, i) {
			node := a[i]
			if node.IsTerminal() {
				return
			}
			if node.Left >= 0 {
				walk(int(node.Left))
			}
			if node.Right >= 0 {
				walk(int(node.Right))
			}
			return
		}

		r := make([]uint64, slots)
		grow(i, r)
		out = append(out, &Fragment{
			Bits:   r,
			Slots:  int32(slots),
			TreeID: treeID,
			Root:   int16(i),
		})
	}

	walk(int(root))
	return out
}
