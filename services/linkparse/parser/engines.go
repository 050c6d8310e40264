// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

import "context"

// CountContext is the dynamic-programming table mapping sub-problems to
// linkage counts. The search owns one per phase (or shares one across
// the levels of a phase) and closes it on every exit path.
type CountContext interface {
	Close()
}

// FastMatcher is the connector matching engine. Rebuilt on every phase
// and closed on every exit path.
type FastMatcher interface {
	Close()
}

// Histogram is the counting engine's output for one null-count level.
type Histogram interface {
	// Total returns the 64-bit linkage total. Negative values signal an
	// engine-level overflow; the search clamps either way.
	Total() int64
}

// Extractor materializes concrete linkages out of a completed count.
// One extractor is allocated per null-count level, seeded from the
// sentence's random state, and closed after sampling.
type Extractor interface {
	// Overflowed reports whether the parse-set construction saturated,
	// in which case candidate indices are unreliable and sampling must
	// be randomized.
	Overflowed() bool

	// Extract populates lkg in place for the given request. The
	// request's identity is recorded in lkg.Info by the caller.
	Extract(req ExtractionRequest, lkg *Linkage) error

	// ComputeLinkNames fills the Label of every link from its connector
	// pair, and finalizes lkg.Info.Cost.
	ComputeLinkNames(lkg *Linkage)

	Close()
}

// Engine bundles the collaborator operations the search sequences.
// Implementations are CPU-bound and synchronous; none of these calls
// block on I/O.
//
// The search calls them in a fixed order per phase: Prune,
// BuildConnectorIndex, Pack, NewCountContext (conditionally),
// NewFastMatcher — then per level: Count, NewExtractor, Extract/
// IsMorphologicallySane/CompactEmptyWords over candidates, and finally
// PostProcess.
type Engine interface {
	// Prepare builds the initial per-word candidate disjunct lists. A
	// preparation failure leaves the sentence in a state where the
	// search finds zero linkages; it is not a parse error.
	Prepare(ctx context.Context, sent *Sentence, opts *Options) error

	// Prune removes connectors and disjuncts that provably cannot
	// participate in any linkage at the current null-count level.
	// When aggressive is true the zero-null optimization applies and
	// pruning may remove candidates that only a null-linked parse could
	// use.
	Prune(ctx context.Context, sent *Sentence, opts *Options, nullCount int, aggressive bool) error

	// BuildConnectorIndex computes connector suffix identifiers and
	// reports whether they are content-derived ("real") or positional
	// ("fake", used for short sentences). The flag gates count-context
	// reuse across phases.
	BuildConnectorIndex(sent *Sentence) (realSuffixIDs bool)

	// Pack compacts the pruned sentence state into the form the
	// counting and matching engines require.
	Pack(sent *Sentence, realSuffixIDs bool)

	// NewCountContext allocates a fresh count table for the sentence's
	// current packed state.
	NewCountContext(sent *Sentence) CountContext

	// NewFastMatcher allocates a matcher for the sentence's current
	// packed state.
	NewFastMatcher(sent *Sentence) FastMatcher

	// Count runs the counting pass for the given null count and returns
	// the resulting histogram.
	Count(ctx context.Context, sent *Sentence, matcher FastMatcher, cc CountContext, nullCount int, opts *Options) Histogram

	// NewExtractor builds the parse set for the given null count and
	// returns an extractor over it, seeded from the sentence's random
	// state.
	NewExtractor(sent *Sentence, matcher FastMatcher, cc CountContext, nullCount int, opts *Options) Extractor

	// IsMorphologicallySane checks that an extracted linkage respects
	// word-internal morphology (stem/suffix pairing).
	IsMorphologicallySane(sent *Sentence, lkg *Linkage, opts *Options) bool

	// CompactEmptyWords removes optional empty words from an accepted
	// linkage, renumbering its links.
	CompactEmptyWords(lkg *Linkage)

	// PostProcess applies global well-formedness rules over the
	// accepted set, annotating violations in each linkage's Info. It
	// returns the number of linkages examined.
	PostProcess(ctx context.Context, sent *Sentence, opts *Options) int
}
