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

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxLinkageCount is the saturation ceiling for the found count. The
// counting engine works in 64 bits; the per-sentence bookkeeping is
// 32-bit, so totals clamp here. Negative totals signal engine-level
// overflow and clamp the same way.
const maxLinkageCount = math.MaxInt32

// clampCount clamps a 64-bit histogram total into [0, maxLinkageCount].
func clampCount(total int64) int {
	if total < 0 || total > maxLinkageCount {
		return maxLinkageCount
	}
	return int(total)
}

// Result describes the outcome of one parse search.
//
// Zero valid linkages after exhausting every null-count level is a
// normal, reportable outcome, not an error.
type Result struct {
	// Linkages is the accepted set, in ranked (or, under shuffle,
	// extraction) order. The slots are owned by the Sentence's buffer
	// and stay valid until the next parse of the same sentence.
	Linkages []*Linkage

	// NullCount is the null-link level the search stopped at.
	NullCount int

	// NumLinkagesFound is the clamped count reported by the counting
	// engine at the final level.
	NumLinkagesFound int

	// NumValidLinkages is the number of accepted linkages.
	NumValidLinkages int

	// NumPostProcessed is how many linkages post-processing examined at
	// the final level.
	NumPostProcessed int

	// InvalidMorphology tallies sampled candidates rejected by the
	// morphology check, across all levels.
	InvalidMorphology int

	// CountOverflow reports that at least one counting pass saturated;
	// the accepted set is a random subset of an unknown larger space.
	CountOverflow bool

	// ResourcesExhausted reports that the budget ended the search
	// early. Linkages accepted at earlier levels are still returned.
	ResourcesExhausted bool

	// Duration is the wall time of the whole search.
	Duration time.Duration
}

// Search runs the null-count relaxation loop over a collaborator
// engine. A Search is stateless and safe for concurrent use across
// distinct sentences.
type Search struct {
	engine Engine
	logger *slog.Logger
}

// SearchOption configures a Search.
type SearchOption func(*Search)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) SearchOption {
	return func(s *Search) { s.logger = l }
}

// NewSearch creates a Search over the given engine.
func NewSearch(engine Engine, opts ...SearchOption) (*Search, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	s := &Search{engine: engine, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Parse searches for linkages with the minimum number of null links
// within [opts.MinNullCount, min(sentence length, opts.MaxNullCount)].
//
// The search prunes aggressively for the zero-null level. If no
// complete linkage exists and relaxation is allowed, the pre-pruning
// disjunct snapshot is restored and pruning reruns without the
// zero-null optimization before any nonzero level is counted. The first
// level yielding at least one valid linkage ends the loop.
//
// Budget exhaustion is not an error: the Result carries the flag and
// whatever was accepted before the abort. Parse returns an error only
// for invalid input or a collaborator failure.
func (s *Search) Parse(ctx context.Context, sent *Sentence, opts *Options) (*Result, error) {
	if sent == nil {
		return nil, ErrNilSentence
	}
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	_ = initMetrics()

	start := time.Now()
	parseID := uuid.NewString()
	log := s.logger.With("parse_id", parseID, "length", sent.Length())

	ctx, span := tracer.Start(ctx, "parser.Search.Parse",
		trace.WithAttributes(
			attribute.Int("sentence.length", sent.Length()),
			attribute.Int("options.min_null_count", opts.MinNullCount),
			attribute.Int("options.max_null_count", opts.MaxNullCount),
			attribute.Int("options.linkage_limit", opts.LinkageLimit),
		),
	)
	defer span.End()

	res := &Result{}
	defer func() {
		res.Duration = time.Since(start)
		recordParse(ctx, res, res.Duration)
		span.SetAttributes(
			attribute.Int("parse.null_count", res.NullCount),
			attribute.Int("parse.valid_linkages", res.NumValidLinkages),
			attribute.Bool("parse.count_overflow", res.CountOverflow),
			attribute.Bool("parse.resources_exhausted", res.ResourcesExhausted),
		)
	}()

	maxNull := opts.MaxNullCount
	if maxNull > sent.Length() {
		maxNull = sent.Length()
	}

	sent.freeLinkages()
	sent.numLinkagesFound = 0

	if err := s.engine.Prepare(ctx, sent, opts); err != nil {
		return nil, fmt.Errorf("prepare sentence: %w", err)
	}
	if resourcesExhausted(ctx, opts.Budget) {
		res.ResourcesExhausted = true
		return res, nil
	}

	pc := newPhaseController(sent, opts, maxNull)
	defer pc.release()

	for nl := opts.MinNullCount; nl <= maxNull; nl++ {
		res.NullCount = nl

		rebuilt, err := pc.ensure(ctx, s.engine, sent, opts, nl)
		if err != nil {
			if errors.Is(err, ErrResourcesExhausted) {
				res.ResourcesExhausted = true
				break
			}
			return nil, fmt.Errorf("rebuild phase at null count %d: %w", nl, err)
		}
		if rebuilt {
			log.Debug("phase rebuilt",
				"null_count", nl,
				"real_suffix_ids", pc.realSuffixIDs,
				"rebuilds", pc.rebuilds)
		}
		if resourcesExhausted(ctx, opts.Budget) {
			res.ResourcesExhausted = true
			break
		}

		sent.freeLinkages()
		sent.nullCount = nl

		hist := s.engine.Count(ctx, sent, pc.matcher, pc.countCtx, nl, opts)
		total := hist.Total()
		sent.numLinkagesFound = clampCount(total)
		if total < 0 {
			res.CountOverflow = true
		}
		log.Debug("counted parses", "null_count", nl, "total", total)
		if resourcesExhausted(ctx, opts.Budget) {
			res.ResourcesExhausted = true
			break
		}

		ext := s.engine.NewExtractor(sent, pc.matcher, pc.countCtx, nl, opts)
		overflowed := ext.Overflowed() || total < 0
		if overflowed {
			res.CountOverflow = true
			if opts.Verbosity > 1 {
				log.Warn("count overflow; sampling a random subset",
					"null_count", nl,
					"linkage_limit", opts.LinkageLimit)
			}
		}
		setupLinkages(sent, opts)
		invalid, err := s.processLinkages(ctx, sent, ext, overflowed, opts)
		ext.Close()
		if err != nil {
			return nil, err
		}
		res.InvalidMorphology += invalid
		if invalid > 0 {
			log.Debug("rejected candidates with invalid morphology",
				"null_count", nl, "rejected", invalid)
		}

		sent.numPostProcessed = s.engine.PostProcess(ctx, sent, opts)

		if sent.numValidLinkages > 0 {
			break
		}
		if nl == 0 && maxNull > 0 && opts.Verbosity > 0 {
			log.Info("no complete linkages found; relaxing null count")
		}
	}

	sortLinkages(sent, opts)

	res.NumLinkagesFound = sent.numLinkagesFound
	res.NumValidLinkages = sent.numValidLinkages
	res.NumPostProcessed = sent.numPostProcessed
	res.Linkages = make([]*Linkage, sent.numValidLinkages)
	for i := range res.Linkages {
		res.Linkages[i] = sent.linkages.Slot(i)
	}
	return res, nil
}
