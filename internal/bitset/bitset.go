// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

// Package bitset implements fixed-width bitsets over slices of uint64
// words, sized at construction time rather than baked into the type.
//
// Studied github.com/gaissmai/bart's internal/bitset256.go inside out:
// same bit-index math, same "no bounds check by design" stance, but
// generalized from a compile-time [4]uint64 to a caller-owned []uint64
// so the word count can track a treebank's maxnodes at run time.
package bitset

import "math/bits"

// Slots returns the number of uint64 words needed to hold n bits.
func Slots(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 63) >> 6
}

// Set sets bit i in b. It is a programmer error to call Set with i
// outside [0, len(b)*64); like the teacher's BitSet256, this is not
// guarded, by intention.
func Set(b []uint64, i int) {
	b[i>>6] |= 1 << uint(i&63)
}

// Clear clears bit i in b.
func Clear(b []uint64, i int) {
	b[i>>6] &^= 1 << uint(i&63)
}

// Test reports whether bit i is set in b.
func Test(b []uint64, i int) bool {
	return b[i>>6]&(1<<uint(i&63)) != 0
}

// Popcount returns the number of set bits in b.
func Popcount(b []uint64) int {
	cnt := 0
	for _, w := range b {
		cnt += bits.OnesCount64(w)
	}
	return cnt
}

// IsEmpty reports whether no bit is set in b.
func IsEmpty(b []uint64) bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

// NextSet returns the smallest set bit >= from, and true, or (0, false)
// if there is none. Passing from=0 and repeatedly calling with
// prev+1 iterates all set bits in ascending order without restarting
// the scan from the beginning of the word each time.
func NextSet(b []uint64, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	wIdx := from >> 6
	if wIdx >= len(b) {
		return 0, false
	}

	first := b[wIdx] >> uint(from&63)
	if first != 0 {
		return from + bits.TrailingZeros64(first), true
	}

	for i := wIdx + 1; i < len(b); i++ {
		if b[i] != 0 {
			return i<<6 + bits.TrailingZeros64(b[i]), true
		}
	}
	return 0, false
}

// Cursor iterates set bits in ascending order without rescanning
// consumed words, used on hot paths (extraction, occurrence counting)
// where NextSet's per-call word-index recompute would otherwise show
// up in profiles.
type Cursor struct {
	word  int
	carry uint64
	bits  []uint64
}

// NewCursor returns a Cursor positioned before the first bit of b.
func NewCursor(b []uint64) Cursor {
	c := Cursor{bits: b, word: -1}
	return c
}

// Next returns the next set bit in ascending order and true, or
// (0, false) once exhausted.
func (c *Cursor) Next() (int, bool) {
	for c.carry == 0 {
		c.word++
		if c.word >= len(c.bits) {
			return 0, false
		}
		c.carry = c.bits[c.word]
	}
	tz := bits.TrailingZeros64(c.carry)
	c.carry &= c.carry - 1
	return c.word<<6 + tz, true
}

// UnionInPlace sets dst |= src. dst and src must have equal length.
func UnionInPlace(dst, src []uint64) {
	for i, w := range src {
		dst[i] |= w
	}
}

// IntersectionInPlace sets dst &= src. dst and src must have equal length.
func IntersectionInPlace(dst, src []uint64) {
	for i, w := range src {
		dst[i] &= w
	}
}

// IsSubset reports whether every bit set in a is also set in b.
func IsSubset(a, b []uint64) bool {
	for i, w := range a {
		if w&^b[i] != 0 {
			return false
		}
	}
	return true
}

// IsDisjoint reports whether a and b share no set bit.
func IsDisjoint(a, b []uint64) bool {
	for i, w := range a {
		if w&b[i] != 0 {
			return false
		}
	}
	return true
}

// Clone returns a fresh copy of b.
func Clone(b []uint64) []uint64 {
	c := make([]uint64, len(b))
	copy(c, b)
	return c
}

// Zero clears every word of b in place, so a caller-owned scratch
// bitset can be reused across pairs without reallocating.
func Zero(b []uint64) {
	for i := range b {
		b[i] = 0
	}
}
