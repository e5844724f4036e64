// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	bs "github.com/dopfrag/fragments/internal/bitset"
)

// The three bracket-format regexes from spec.md 6, kept as named,
// documented artifacts even though GetSent's own scan (below) uses a
// more permissive pattern to cope with several leaf/frontier tokens
// packed under one label (spec.md 8, scenario 3's "(NP 2:2 4:4)").
var (
	leafPattern     = regexp.MustCompile(`\( *([^ ()]+) +(\d+) *\)`)
	frontierPattern = regexp.MustCompile(`\( *([^ ()]+) +(\d+):(\d+) *\)`)
	labelPattern    = regexp.MustCompile(`\( *([^ ()]+)`)
)

// tokenPattern finds every leaf-index or frontier-span token anywhere
// in a bracket string, independent of how many share a parent label.
// The leading `(?:^|[(\s])` anchors each match to a real token
// boundary so a label like "NP2" is never mistaken for an index.
var tokenPattern = regexp.MustCompile(`(?:^|[(\s])(\d+)(?::(\d+))?`)

// SubtreeRenderer turns a fragment bitset back into the bracket
// notation described in spec.md 6, given the label table for the
// arena the fragment's tree came from (spec.md 4.7).
type SubtreeRenderer struct {
	labels []string
}

// NewSubtreeRenderer returns a renderer that resolves Node.Label
// through labels.
func NewSubtreeRenderer(labels []string) *SubtreeRenderer {
	return &SubtreeRenderer{labels: labels}
}

func (r *SubtreeRenderer) label(n Node) string {
	if int(n.Label) >= 0 && int(n.Label) < len(r.labels) {
		return r.labels[n.Label]
	}
	return fmt.Sprintf("#%d", n.Label)
}

// RenderContinuous renders the fragment rooted at root as Penn-style
// bracket notation: set terminals print their literal token from
// sent, frontier non-terminals print a bare, childless label
// (spec.md 4.7, "Continuous").
func (r *SubtreeRenderer) RenderContinuous(nodes []Node, bits []uint64, root int16, sent []string) string {
	return r.render(nodes, bits, int(root), sent, false)
}

// RenderDiscontinuous renders the fragment rooted at root using
// terminal indices in place of tokens, and gap-aware yield spans for
// frontier non-terminals (spec.md 4.7, "Discontinuous"). Feed the
// result through GetSent to renumber it against a sentence.
func (r *SubtreeRenderer) RenderDiscontinuous(nodes []Node, bits []uint64, root int16) string {
	return r.render(nodes, bits, int(root), nil, true)
}

func (r *SubtreeRenderer) render(nodes []Node, bits []uint64, i int, sent []string, discontinuous bool) string {
	node := nodes[i]
	if node.IsTerminal() {
		pos := node.TerminalIndex()
		if discontinuous {
			return strconv.Itoa(pos)
		}
		if pos >= 0 && pos < len(sent) {
			return sent[pos]
		}
		return strconv.Itoa(pos)
	}

	label := r.label(node)
	if !bs.Test(bits, i) {
		if !discontinuous {
			return "(" + label + " )"
		}
		lo, hi := yieldSpan(nodes, i)
		return fmt.Sprintf("(%s %d:%d)", label, lo, hi)
	}

	parts := []string{label}
	if node.Left >= 0 {
		parts = append(parts, r.render(nodes, bits, int(node.Left), sent, discontinuous))
	}
	if node.Right >= 0 {
		parts = append(parts, r.render(nodes, bits, int(node.Right), sent, discontinuous))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// yieldSpan returns the inclusive min/max terminal index under i in
// the original, unrestricted tree — used for a frontier's yield span,
// which describes what the omitted subtree used to cover.
func yieldSpan(nodes []Node, i int) (lo, hi int) {
	node := nodes[i]
	if node.IsTerminal() {
		p := node.TerminalIndex()
		return p, p
	}
	lo, hi = 1<<31-1, -1
	if node.Left >= 0 {
		l, h := yieldSpan(nodes, int(node.Left))
		lo, hi = min(lo, l), max(hi, h)
	}
	if node.Right >= 0 {
		l, h := yieldSpan(nodes, int(node.Right))
		lo, hi = min(lo, l), max(hi, h)
	}
	return lo, hi
}

// GetSent is the second-pass renumbering described in spec.md 4.7:
// it collects every leaf-index and frontier-span token appearing in
// bracket, sorts the distinct values they reference, collapses each
// width->=1 gap between consecutive values into a single None slot,
// and substitutes the dense renumbering back into the string. It
// returns the rewritten bracket string and the parallel sentence
// tuple (nil entries are the None placeholders).
//
// A token written with a colon (even a degenerate "k:k") always maps
// to a None slot: the colon syntax itself, not its width, is what
// marks a position as an opaque frontier span rather than a literal
// known word (spec.md 8, scenarios 1-4).
func GetSent(bracket string, sent []string) (string, []*string) {
	matches := tokenPattern.FindAllStringSubmatchIndex(bracket, -1)
	if len(matches) == 0 {
		return bracket, nil
	}

	type token struct {
		start, end int
		value      int
		isRange    bool
	}
	toks := make([]token, len(matches))
	for idx, m := range matches {
		g1s, g1e := m[2], m[3]
		g2s, g2e := m[4], m[5]

		k, _ := strconv.Atoi(bracket[g1s:g1e])
		tk := token{start: g1s, end: g1e, value: k}
		if g2s >= 0 {
			kp, _ := strconv.Atoi(bracket[g2s:g2e])
			tk.value = kp
			tk.end = g2e
			tk.isRange = true
		}
		toks[idx] = tk
	}

	bareValue := map[int]bool{}
	for _, tk := range toks {
		if !tk.isRange {
			bareValue[tk.value] = true
		}
	}

	seen := map[int]bool{}
	var values []int
	for _, tk := range toks {
		if !seen[tk.value] {
			seen[tk.value] = true
			values = append(values, tk.value)
		}
	}
	sort.Ints(values)

	dense := make(map[int]int, len(values))
	var sentOut []*string
	prev := -2
	for _, v := range values {
		if prev != -2 && v-prev > 1 {
			sentOut = append(sentOut, nil)
		}
		dense[v] = len(sentOut)
		if bareValue[v] && v >= 0 && v < len(sent) {
			w := sent[v]
			sentOut = append(sentOut, &w)
		} else {
			sentOut = append(sentOut, nil)
		}
		prev = v
	}

	var out strings.Builder
	cursor := 0
	for _, tk := range toks {
		out.WriteString(bracket[cursor:tk.start])
		out.WriteString(strconv.Itoa(dense[tk.value]))
		cursor = tk.end
	}
	out.WriteString(bracket[cursor:])

	return out.String(), sentOut
}
