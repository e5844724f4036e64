// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

// TerminalProd is the sentinel production id assigned to every
// terminal node, chosen to sort before every non-terminal production
// under ascending order (spec.md 3, "Production id").
const TerminalProd int32 = -1

// Node is an immutable record for one non-terminal or terminal in a
// binarized tree, addressed by local (tree-relative) child indices.
//
// A negative Left encodes a terminal: the terminal's position in the
// sentence is -Left-1, and Right is unused in that case. Right == -1
// marks a unary node (Left is then the sole, non-negative child
// index).
type Node struct {
	Prod  int32
	Left  int16
	Right int16
	Label int32
}

// IsTerminal reports whether n is a terminal (leaf) node.
func (n Node) IsTerminal() bool {
	return n.Left < 0
}

// TerminalIndex returns the terminal's position in the sentence. Only
// valid when n.IsTerminal() is true.
func (n Node) TerminalIndex() int {
	return int(-n.Left - 1)
}

// IsUnary reports whether n has exactly one child.
func (n Node) IsUnary() bool {
	return !n.IsTerminal() && n.Right == -1
}

// NodeArray is a view into a Ctrees arena: the slice of nodes
// belonging to one tree, plus the root's index within that slice.
//
// Invariant: every child index stored in a node of this tree is local,
// i.e. 0 <= child < Len, and Root is reachable from every other node
// in the slice.
type NodeArray struct {
	Offset int32
	Len    int32
	Root   int16
}
