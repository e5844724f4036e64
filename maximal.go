// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import bs "github.com/dopfrag/fragments/internal/bitset"

// ExtractMaximal walks tree b in pre-order and, at every node j, tries
// every bit still set in matrix[j] as the root of a maximal common
// subtree with tree a (spec.md 4.4). Each returned Fragment is rooted
// in a and stamped with treeAID; matrix cells are cleared as they are
// consumed, so no fragment is ever emitted twice for this (a, b) pair.
//
// matrix must be the output of FastTreeKernel(a, b, slots, matrix).
// It is mutated in place; callers that need it again must zero and
// recompute it for the next pair.
//
// scratch is a caller-owned buffer of length slots, reused to build
// each candidate region before the minterms gate; only fragments that
// pass the gate are copied out to a freshly allocated Fragment
// (spec.md 5: two long-lived scratch buffers per worker, reused
// across every pair in a shard).
func ExtractMaximal(a []Node, b []Node, bRoot int16, slots int, matrix []uint64, scratch []uint64, treeAID int32, minterms int) []*Fragment {
	var out []*Fragment

	var walk func(j int)
	walk = func(j int) {
		row := matrix[j*slots : (j+1)*slots]

		cur := bs.NewCursor(row)
		for {
			i, ok := cur.Next()
			if !ok {
				break
			}
			// The snapshot cursor may hand back a bit already
			// consumed by a nested extractAt call reached from an
			// earlier bit at this same row — impossible in practice
			// since children live on different rows, but checked
			// defensively rather than assumed.
			if !bs.Test(row, i) {
				continue
			}

			bs.Zero(scratch)
			terms := extractAt(a, b, i, j, matrix, slots, scratch)
			if terms >= minterms {
				out = append(out, &Fragment{
					Bits:   bs.Clone(scratch),
					Slots:  int32(slots),
					TreeID: treeAID,
					Root:   int16(i),
				})
			}
		}

		bNode := b[j]
		if bNode.IsTerminal() {
			return
		}
		if bNode.Left >= 0 {
			walk(int(bNode.Left))
		}
		if bNode.Right >= 0 {
			walk(int(bNode.Right))
		}
	}

	walk(int(bRoot))
	return out
}

// extractAt greedily grows R from (i, j) in lockstep: it always
// includes node i, then recurses into the left and (if present) right
// children exactly when the kernel matrix still marks them as
// matching in the corresponding position of b. It returns the number
// of terminal leaves absorbed, used by the minterms gate.
func extractAt(a, b []Node, i, j int, matrix []uint64, slots int, R []uint64) int {
	bs.Set(R, i)

	row := matrix[j*slots : (j+1)*slots]
	bs.Clear(row, i)

	aNode := a[i]
	if aNode.IsTerminal() {
		return 1
	}

	bNode := b[j]
	terms := 0

	if aNode.Left >= 0 && bNode.Left >= 0 {
		leftRow := matrix[int(bNode.Left)*slots : (int(bNode.Left)+1)*slots]
		if bs.Test(leftRow, int(aNode.Left)) {
			terms += extractAt(a, b, int(aNode.Left), int(bNode.Left), matrix, slots, R)
		}
	}

	// aNode.Right == -1 marks a unary node (spec.md 3): since Prod
	// identifies (lhs, rhs...) and a[i].Prod == b[j].Prod got us here,
	// b[j] has the same arity, so this check alone is enough to skip
	// the right branch safely — see DESIGN.md's resolution of
	// spec.md 9 Ambiguity (a).
	if aNode.Right >= 0 && bNode.Right >= 0 {
		rightRow := matrix[int(bNode.Right)*slots : (int(bNode.Right)+1)*slots]
		if bs.Test(rightRow, int(aNode.Right)) {
			terms += extractAt(a, b, int(aNode.Right), int(bNode.Right), matrix, slots, R)
		}
	}

	return terms
}
