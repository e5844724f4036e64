// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

// Package fragments extracts recurring tree fragments from one or two
// treebanks of binarized phrase-structure trees, for use by
// Data-Oriented Parsing and tree-kernel methods.
//
// Given a treebank packed into a Ctrees arena, Driver enumerates pairs
// of trees, FastTreeKernel computes their common-production matrix,
// ExtractMaximal recovers every maximal common subtree as a Fragment
// bitset, and SubtreeRenderer turns a Fragment back into a bracketed
// string (with gap-preserving renumbering for discontinuous trees).
// OccurrenceCounter separately counts every embedding of a
// fragment across a target treebank, maximal or not.
//
// This package does not parse treebank files, build PCFG/LCFRS grammar
// objects, run a chart parser, or expose a CLI: those are external
// collaborators that pre-binarize trees and assign production ids
// before handing a Ctrees to this package.
package fragments
