// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

// Package blob encodes a fragment bitset plus its trailer as a compact
// byte blob, realizing spec.md's Design Notes 9 observation that the
// trailer "piggy-backs on the bitset allocation to make fragments
// hashable/transportable as byte blobs" — expressed here as an explicit
// wire format rather than packed trailing words.
package blob

import "github.com/fxamacker/cbor/v2"

// Fragment is the wire representation of a fragment bitset: the packed
// words plus its (source tree, root) trailer.
type Fragment struct {
	Bits   []uint64 `cbor:"1,keyasint"`
	Slots  int32    `cbor:"2,keyasint"`
	TreeID int32    `cbor:"3,keyasint"`
	Root   int16    `cbor:"4,keyasint"`
}

// Encode serializes f to a CBOR byte blob.
func Encode(f Fragment) ([]byte, error) {
	return cbor.Marshal(f)
}

// Decode parses a byte blob previously produced by Encode.
func Decode(data []byte) (Fragment, error) {
	var f Fragment
	err := cbor.Unmarshal(data, &f)
	return f, err
}
