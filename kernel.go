// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import bs "github.com/dopfrag/fragments/internal/bitset"

// FastTreeKernel computes, into the caller-owned scratch matrix, the
// |b| x |a| common-production matrix between two node slices already
// sorted by production ascending: matrix[j*slots:(j+1)*slots] has bit
// i set iff a[i].Prod == b[j].Prod (spec.md 4.3).
//
// matrix must already be zeroed and sized len(b)*slots words, where
// slots = bitset.Slots(len(a)). The caller reuses this buffer across
// many tree pairs within a shard (spec.md 5).
//
// Average near-linear in len(a)+len(b): two cursors advance past
// non-matching productions, and matching runs are cross-set block by
// block instead of re-scanning per pair, which is what makes this
// faster than Moschitti's O(|a|*|b|) formulation whenever repeated
// productions form short runs.
func FastTreeKernel(a, b []Node, slots int, matrix []uint64) {
	i, j := 0, 0
	alen, blen := len(a), len(b)

	for i < alen && j < blen {
		switch {
		case a[i].Prod < b[j].Prod:
			i++
		case a[i].Prod > b[j].Prod:
			j++
		default:
			iEnd := i + 1
			for iEnd < alen && a[iEnd].Prod == a[i].Prod {
				iEnd++
			}
			jEnd := j + 1
			for jEnd < blen && b[jEnd].Prod == b[j].Prod {
				jEnd++
			}

			for jj := j; jj < jEnd; jj++ {
				row := matrix[jj*slots : (jj+1)*slots]
				for ii := i; ii < iEnd; ii++ {
					bs.Set(row, ii)
				}
			}

			i, j = iEnd, jEnd
		}
	}
}

// NewKernelMatrix allocates a zeroed matrix sized for FastTreeKernel
// given the node counts of a and b.
func NewKernelMatrix(alen, blen int) (matrix []uint64, slots int) {
	slots = bs.Slots(alen)
	if slots == 0 {
		slots = 1
	}
	return make([]uint64, blen*slots), slots
}
