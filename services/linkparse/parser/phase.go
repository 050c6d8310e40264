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

// phaseState is the phase controller's rebuild state.
type phaseState int

const (
	phaseNeedRebuild phaseState = iota
	phaseBuilt
)

// String returns the string representation of the phase state.
func (s phaseState) String() string {
	switch s {
	case phaseNeedRebuild:
		return "need_rebuild"
	case phaseBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// phaseController decides, per null-count level, whether pruning,
// connector indexing, the count context, and the matcher must be
// rebuilt, and performs that rebuild exactly once per phase. A phase is
// a contiguous run of null-count levels sharing the same pruned
// disjunct state.
//
// Rebuilding the count and match tables is expensive; the controller
// amortizes it across levels whenever the pruning output is unchanged.
// Correctness demands an unconditional reset at the zero-to-nonzero
// crossing, where the aggressive zero-null pruning output becomes
// stale.
//
// The controller owns the disjunct snapshot, the count context, and the
// matcher; release() runs on every exit path of the search.
type phaseController struct {
	state         phaseState
	startedAtZero bool
	crossed       bool

	// effMinNull is the phase-local effective minimum null count. It is
	// raised to 1 permanently at the zero-to-nonzero crossing so later
	// rebuilds never re-apply the zero-null pruning optimization. The
	// caller's Options are never touched.
	effMinNull int

	realSuffixIDs bool

	snapshot *DisjunctSnapshot
	countCtx CountContext
	matcher  FastMatcher

	rebuilds int
}

// newPhaseController initializes the controller and, when relaxation to
// nonzero null counts may later be needed, captures the pre-pruning
// disjunct snapshot.
func newPhaseController(sent *Sentence, opts *Options, maxNull int) *phaseController {
	pc := &phaseController{
		state:         phaseNeedRebuild,
		startedAtZero: opts.MinNullCount == 0,
		effMinNull:    opts.MinNullCount,
	}
	if pc.startedAtZero && maxNull > 0 {
		pc.snapshot = sent.SnapshotDisjuncts()
	}
	return pc
}

// ensure brings the controller to the Built state for level nl,
// performing the rebuild sequence when entering a new phase. It returns
// whether a rebuild ran, and ErrResourcesExhausted when the budget was
// hit mid-sequence.
func (pc *phaseController) ensure(ctx context.Context, eng Engine, sent *Sentence, opts *Options, nl int) (bool, error) {
	// The one Built -> NeedRebuild transition: crossing from zero to
	// nonzero null links after having pruned aggressively for zero.
	if pc.state == phaseBuilt && nl != 0 && pc.startedAtZero && !pc.crossed {
		pc.state = phaseNeedRebuild
	}
	if pc.state != phaseNeedRebuild {
		return false, nil
	}

	if nl != 0 {
		pc.crossed = true
		if pc.startedAtZero {
			// The zero-null pass pruned more than a null-tolerant parse
			// can afford. Undo it and stop optimizing for zero nulls in
			// this and all later rebuilds.
			pc.effMinNull = 1
			sent.RestoreDisjuncts(pc.snapshot)
		}
	}

	aggressive := pc.effMinNull == 0
	if err := eng.Prune(ctx, sent, opts, nl, aggressive); err != nil {
		return false, err
	}
	pc.realSuffixIDs = eng.BuildConnectorIndex(sent)
	eng.Pack(sent, pc.realSuffixIDs)
	if resourcesExhausted(ctx, opts.Budget) {
		return false, ErrResourcesExhausted
	}

	// With real suffix ids in a search that started at zero, the count
	// table built for the zero-null phase stays valid for the relaxed
	// phase and is shared. Fake ids, a zero-null rebuild, or a search
	// that began above zero each get a fresh table.
	if !pc.realSuffixIDs || nl == 0 || !pc.startedAtZero {
		if pc.countCtx != nil {
			pc.countCtx.Close()
		}
		pc.countCtx = eng.NewCountContext(sent)
	}

	if pc.matcher != nil {
		pc.matcher.Close()
	}
	pc.matcher = eng.NewFastMatcher(sent)

	pc.state = phaseBuilt
	pc.rebuilds++
	return true, nil
}

// release frees every resource the controller owns. Idempotent.
func (pc *phaseController) release() {
	if pc.countCtx != nil {
		pc.countCtx.Close()
		pc.countCtx = nil
	}
	if pc.matcher != nil {
		pc.matcher.Close()
		pc.matcher = nil
	}
	pc.snapshot.Release()
}
