// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	"testing"

	bs "github.com/dopfrag/fragments/internal/bitset"
)

// referenceMatrix computes M[j][i] = a[i].Prod == b[j].Prod directly,
// per spec.md 8's invariant that FastTreeKernel must agree with it.
func referenceMatrix(a, b []Node, slots int) []uint64 {
	m := make([]uint64, len(b)*slots)
	for j := range b {
		row := m[j*slots : (j+1)*slots]
		for i := range a {
			if a[i].Prod == b[j].Prod {
				bs.Set(row, i)
			}
		}
	}
	return m
}

func sortedByProd(prods ...int32) []Node {
	nodes := make([]Node, len(prods))
	for i, p := range prods {
		nodes[i] = Node{Prod: p}
	}
	return nodes
}

func TestFastTreeKernelMatchesReference(t *testing.T) {
	cases := [][2][]int32{
		{{-1, -1, 2, 5, 9}, {-1, 2, 2, 9, 9, 12}},
		{{1, 2, 3}, {4, 5, 6}},
		{{1, 1, 1}, {1, 1}},
		{{-1}, {-1}},
		{{1, 2, 3, 3, 3, 5}, {2, 3, 3, 4}},
	}

	for _, c := range cases {
		a := sortedByProd(c[0]...)
		b := sortedByProd(c[1]...)

		matrix, slots := NewKernelMatrix(len(a), len(b))
		FastTreeKernel(a, b, slots, matrix)

		want := referenceMatrix(a, b, slots)
		for j := range b {
			gotRow := matrix[j*slots : (j+1)*slots]
			wantRow := want[j*slots : (j+1)*slots]
			for w := range gotRow {
				if gotRow[w] != wantRow[w] {
					t.Fatalf("case %v: row %d mismatch: got %v want %v", c, j, gotRow, wantRow)
				}
			}
		}
	}
}

func TestFastTreeKernelEmptyInputs(t *testing.T) {
	a := sortedByProd()
	b := sortedByProd(1, 2)
	matrix, slots := NewKernelMatrix(len(a), len(b))
	FastTreeKernel(a, b, slots, matrix)
	if !bs.IsEmpty(matrix) {
		t.Fatalf("expected empty matrix when a is empty")
	}
}
