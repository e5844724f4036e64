// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	bs "github.com/dopfrag/fragments/internal/bitset"
	"github.com/dopfrag/fragments/internal/prodindex"
)

// contentWordLabel matches the part-of-speech prefixes spec.md 4.8
// calls "content-word": nouns, adjectives, adverbs and verbs.
var contentWordLabel = regexp.MustCompile(`^(NN|JJ|RB|VB)`)

// Shard bounds a worker's slice of the source treebank: trees
// [Offset, End) are matched against the whole target treebank
// (spec.md 5).
type Shard struct {
	Offset, End int32
}

// FragmentKey identifies a rendered fragment for aggregation purposes:
// its bracket string, plus its sentence tuple when discontinuous
// rendering is on (two structurally different fragments never share a
// bracket string with different sentence tuples by construction, but
// the tuple is folded into the key defensively).
type FragmentKey string

func fragmentKey(bracket string, sent []*string) FragmentKey {
	if sent == nil {
		return FragmentKey(bracket)
	}
	parts := make([]string, len(sent))
	for i, s := range sent {
		if s == nil {
			parts[i] = "\x00"
		} else {
			parts[i] = *s
		}
	}
	return FragmentKey(bracket + "\x01" + strings.Join(parts, "\x02"))
}

// Result is one shard's (or the merged run's) aggregated output
// (spec.md 4.8, "Aggregation"). Approximate mode fills Histogram;
// exact mode fills Representatives with one bitset per distinct
// fragment, ready for OccurrenceCounter.
type Result struct {
	Histogram       map[FragmentKey]int
	Representatives map[FragmentKey]*Fragment
}

func newResult() *Result {
	return &Result{
		Histogram:       make(map[FragmentKey]int),
		Representatives: make(map[FragmentKey]*Fragment),
	}
}

func mergeResults(dst, src *Result) {
	for k, n := range src.Histogram {
		dst.Histogram[k] += n
	}
	for k, f := range src.Representatives {
		if _, ok := dst.Representatives[k]; !ok {
			dst.Representatives[k] = f
		}
	}
}

// Driver enumerates tree-1/tree-2 pairs and runs the extraction
// pipeline over each, aggregating into a single Result (spec.md 4.8).
// A Driver is immutable once built and safe to Run concurrently from
// multiple shards, matching spec.md 5's "workers share read-only
// copies" model.
type Driver struct {
	t1, t2 *Ctrees
	labels []string
	sents1 [][]string
	opts   Options
}

// NewDriver returns a Driver pairing t1 against t2 (t2 may be t1
// itself for a self-comparison run). sents1 supplies the literal
// tokens for continuous rendering and for GetSent's substitution
// pass, indexed the same way as t1; it may be nil if only
// discontinuous, index-only output is needed.
func NewDriver(t1, t2 *Ctrees, labels []string, sents1 [][]string, opts ...Option) *Driver {
	if t1.ProdIndex() == nil {
		t1.BuildProdIndex()
	}
	if t2.ProdIndex() == nil {
		t2.BuildProdIndex()
	}
	return &Driver{t1: t1, t2: t2, labels: labels, sents1: sents1, opts: NewOptions(opts...)}
}

func (d *Driver) sameArena() bool { return d.t1 == d.t2 }

func (d *Driver) sentenceFor(treeID int32) []string {
	if treeID >= 0 && int(treeID) < len(d.sents1) {
		return d.sents1[treeID]
	}
	return nil
}

// candidateTargets returns the tree-2 ids to pair against t1 tree n,
// per the three modes of spec.md 4.8.
func (d *Driver) candidateTargets(n int32) []int32 {
	switch {
	case d.opts.Adjacent:
		if n+1 < int32(d.t2.Len()) {
			return []int32{n + 1}
		}
		return nil
	case d.opts.TwoTerms:
		return d.twoTerminalCandidates(n)
	default:
		if d.sameArena() {
			var out []int32
			for m := n + 1; m < int32(d.t2.Len()); m++ {
				out = append(out, m)
			}
			return out
		}
		out := make([]int32, d.t2.Len())
		for m := range out {
			out[m] = int32(m)
		}
		return out
	}
}

// isLexical reports whether node i in nodes is a preterminal: a
// unary node whose single child is a terminal.
func isLexical(nodes []Node, i int) bool {
	n := nodes[i]
	return n.Left >= 0 && n.Right == -1 && nodes[n.Left].IsTerminal()
}

// twoTerminalCandidates implements spec.md 4.8's "two-terminals"
// filter: union, over every (content-word, other-lexical) pair of
// preterminal nodes in a, the target trees sharing both productions.
func (d *Driver) twoTerminalCandidates(n int32) []int32 {
	a := d.t1.Nodes(n)

	var lexical, content []int
	for i, node := range a {
		if !isLexical(a, i) {
			continue
		}
		lexical = append(lexical, i)
		if int(node.Label) < len(d.labels) && contentWordLabel.MatchString(d.labels[node.Label]) {
			content = append(content, i)
		}
	}

	var matched []int32
	seen := map[int32]bool{}
	idx := d.t2.ProdIndex()
	for _, i := range content {
		for _, j := range lexical {
			if i == j {
				continue
			}
			pair := prodindex.Intersect(idx, []int32{a[i].Prod, a[j].Prod})
			for _, m32 := range pair.ToArray() {
				m := int32(m32)
				if !seen[m] {
					seen[m] = true
					matched = append(matched, m)
				}
			}
		}
	}
	return matched
}

// Run partitions shard into workers independent sub-shards, extracts
// each concurrently with its own scratch buffers, and merges the
// per-worker results with no cross-worker synchronisation during
// extraction (spec.md 5).
func (d *Driver) Run(ctx context.Context, shard Shard, workers int) (*Result, error) {
	if workers < 1 {
		workers = 1
	}
	span := shard.End - shard.Offset
	if span <= 0 {
		return newResult(), nil
	}
	chunk := (span + int32(workers) - 1) / int32(workers)

	runID := uuid.New()
	log := d.opts.log().With(zap.String("run_id", runID.String()))

	g, gctx := errgroup.WithContext(ctx)
	results := make([]*Result, workers)

	for w := 0; w < workers; w++ {
		start := shard.Offset + int32(w)*chunk
		end := start + chunk
		if end > shard.End {
			end = shard.End
		}
		if start >= end {
			continue
		}

		w, start, end := w, start, end
		g.Go(func() error {
			wlog := log.With(zap.Int("worker", w), zap.Int32("start", start), zap.Int32("end", end))
			wlog.Debug("shard started")
			r, err := d.runShard(gctx, start, end)
			if err != nil {
				wlog.Error("shard failed", zap.Error(err))
				return err
			}
			wlog.Debug("shard finished",
				zap.Int("histogram_size", len(r.Histogram)),
				zap.Int("representatives", len(r.Representatives)))
			results[w] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	final := newResult()
	for _, r := range results {
		if r != nil {
			mergeResults(final, r)
		}
	}
	return final, nil
}

// reversePairs reports whether runShard must also extract each pair
// with the anchor tree swapped. Adjacent and two-terminals candidates
// are already directional by definition (spec.md 4.8); the "all
// pairs" mode against a treebank's own copy needs both directions to
// surface every fragment rooted in either tree of the pair — a
// fragment shared by trees n and m is a genuine occurrence in both,
// not just in whichever one candidateTargets happened to list first
// (spec.md 8, scenario 5: the shared (S, NP) fragment counts twice,
// once per tree it actually occurs in).
func (d *Driver) reversePairs() bool {
	return !d.opts.Adjacent && !d.opts.TwoTerms && d.sameArena()
}

// runShard processes trees [offset, end) of t1 against all of t2,
// allocating one kernel-matrix buffer and one extraction scratch buffer
// per source tree and reusing them across every candidate pair of that
// tree (spec.md 5, "Memory management"). The
// reverse-direction pass triggered by reversePairs allocates its own,
// smaller buffers per pair rather than sharing the forward ones: it
// only runs for same-arena, all-pairs shards, where it is a modest
// constant-factor cost next to the forward pass it rides along with.
func (d *Driver) runShard(ctx context.Context, offset, end int32) (*Result, error) {
	result := newResult()
	renderer := NewSubtreeRenderer(d.labels)
	maxT2Nodes := int(d.t2.Maxnodes())
	reverse := d.reversePairs()

	for n := offset; n < end; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		a := d.t1.Nodes(n)
		aTree := d.t1.Tree(n)

		fullMatrix, slots := NewKernelMatrix(len(a), maxT2Nodes)
		scratch := make([]uint64, slots)
		covered := make([]uint64, slots)

		for _, m := range d.candidateTargets(n) {
			b := d.t2.Nodes(m)
			bTree := d.t2.Tree(m)

			matrix := fullMatrix[:len(b)*slots]
			d.extractPair(result, renderer, a, b, aTree.Root, bTree.Root, n, matrix, slots, scratch, covered)

			if reverse {
				revMatrix, revSlots := NewKernelMatrix(len(b), len(a))
				d.extractPair(result, renderer, b, a, bTree.Root, aTree.Root, m,
					revMatrix, revSlots, make([]uint64, revSlots), make([]uint64, revSlots))
			}
		}
	}
	return result, nil
}

// extractPair runs the kernel and maximal-fragment extraction for one
// directed (a, b) pair, anchoring emitted fragments to treeAID, and
// folds in complement extraction when enabled.
func (d *Driver) extractPair(result *Result, renderer *SubtreeRenderer, a, b []Node, aRoot, bRoot int16, treeAID int32, matrix []uint64, slots int, scratch, covered []uint64) {
	matrix = matrix[:len(b)*slots]
	bs.Zero(matrix)
	FastTreeKernel(a, b, slots, matrix)

	frags := ExtractMaximal(a, b, bRoot, slots, matrix, scratch, treeAID, d.opts.minterms())
	if d.opts.Debug {
		d.opts.log().Debug("pair extracted", zap.Int32("tree", treeAID), zap.Int("fragments", len(frags)))
	}
	for _, f := range frags {
		d.record(result, renderer, a, f)
	}

	if d.opts.Complement {
		bs.Zero(covered)
		for _, f := range frags {
			bs.UnionInPlace(covered, f.Bits)
		}
		for _, f := range ExtractComplement(a, aRoot, covered, treeAID) {
			d.record(result, renderer, a, f)
		}
	}
}

func (d *Driver) record(result *Result, renderer *SubtreeRenderer, a []Node, f *Fragment) {
	var bracket string
	var sentOut []*string

	if d.opts.Discontinuous {
		raw := renderer.RenderDiscontinuous(a, f.Bits, f.Root)
		bracket, sentOut = GetSent(raw, d.sentenceFor(f.TreeID))
	} else {
		bracket = renderer.RenderContinuous(a, f.Bits, f.Root, d.sentenceFor(f.TreeID))
	}

	key := fragmentKey(bracket, sentOut)
	if d.opts.Approx {
		result.Histogram[key]++
		return
	}
	if _, ok := result.Representatives[key]; !ok {
		result.Representatives[key] = f
	}
}
