// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import "go.uber.org/zap"

// Options configures a Driver run. The zero value is ready to use: it
// selects exact (representative-bitset), continuous, all-pairs extraction with no
// complement pass and a nop logger, matching the teacher's philosophy
// that a zero-value config should be a valid, unsurprising default.
type Options struct {
	// Approx selects the histogram (fragment_key -> count) output mode
	// instead of the representative-bitset map used for later exact
	// counting.
	Approx bool

	// Discontinuous renders fragments with gap-preserving terminal
	// index renumbering instead of literal tokens.
	Discontinuous bool

	// Complement additionally runs ExtractComplement over the union
	// of maximal fragments per source tree.
	Complement bool

	// TwoTerms restricts pair selection to trees sharing at least one
	// content-word production and one other lexical production.
	TwoTerms bool

	// Adjacent restricts pair enumeration to (n, n+1) instead of all
	// pairs.
	Adjacent bool

	// Debug enables Debug-level structured logging of per-pair
	// extraction counts.
	Debug bool

	// MinTerms overrides the minimum terminal count a maximal fragment
	// must absorb to be emitted. When unset (0), the gate is 2 if
	// TwoTerms is on and 0 otherwise; callers set it directly via
	// WithMinTerms.
	MinTerms int

	logger *zap.Logger
}

// Option mutates an Options value.
type Option func(*Options)

// WithApprox toggles Options.Approx.
func WithApprox(v bool) Option { return func(o *Options) { o.Approx = v } }

// WithDiscontinuous toggles Options.Discontinuous.
func WithDiscontinuous(v bool) Option { return func(o *Options) { o.Discontinuous = v } }

// WithComplement toggles Options.Complement.
func WithComplement(v bool) Option { return func(o *Options) { o.Complement = v } }

// WithTwoTerms toggles Options.TwoTerms.
func WithTwoTerms(v bool) Option { return func(o *Options) { o.TwoTerms = v } }

// WithAdjacent toggles Options.Adjacent.
func WithAdjacent(v bool) Option { return func(o *Options) { o.Adjacent = v } }

// WithDebug toggles Options.Debug.
func WithDebug(v bool) Option { return func(o *Options) { o.Debug = v } }

// WithMinTerms sets the minimum absorbed-terminal count for emission.
func WithMinTerms(n int) Option { return func(o *Options) { o.MinTerms = n } }

// WithLogger attaches a structured logger; passing nil restores the nop
// default.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// NewOptions builds an Options value from the given Option list.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// log returns the configured logger, or a nop logger if none was set.
func (o Options) log() *zap.Logger {
	if o.logger == nil {
		return nopLogger()
	}
	return o.logger
}

// minterms resolves the effective minimum-terminal gate: an explicit
// MinTerms wins, otherwise TwoTerms implies 2 per spec.md 4.4, else 0.
func (o Options) minterms() int {
	if o.MinTerms > 0 {
		return o.MinTerms
	}
	if o.TwoTerms {
		return 2
	}
	return 0
}
