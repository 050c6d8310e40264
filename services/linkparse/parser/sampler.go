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
	"fmt"
)

// MaxRandomTries extends the candidate space under randomized sampling.
// When the count overflows, morphologically valid linkages can be rare
// (one in a thousand or worse); the sampler searches well past the
// acceptance limit for them, but bounds the CPU spent doing so.
const MaxRandomTries = 250000

// setupLinkages sizes the linkage buffer for the current found count:
// min(found, LinkageLimit) slots, or no buffer at all when the count
// pass found nothing.
func setupLinkages(sent *Sentence, opts *Options) {
	if sent.numLinkagesFound == 0 {
		sent.freeLinkages()
		return
	}
	n := sent.numLinkagesFound
	if n > opts.LinkageLimit {
		n = opts.LinkageLimit
	}
	sent.allocLinkages(n)
}

// processLinkages fills the linkage buffer with morphologically
// acceptable candidates.
//
// Sampling is sequential over indices 0..alloced-1 when every found
// linkage fits the buffer, and randomized (distinct reproducible seed
// per try, capped try budget) when the count overflowed or exceeds the
// buffer. Rejected candidates recycle their slot in place. On return
// the alloced count is shrunk to the valid count so downstream code
// never sees unfilled trailing slots.
//
// Returns the invalid-morphology tally.
func (s *Search) processLinkages(ctx context.Context, sent *Sentence, ext Extractor, overflowed bool, opts *Options) (int, error) {
	if sent.numLinkagesFound == 0 {
		return 0, nil
	}
	if sent.numLinkagesAlloced == 0 {
		// LinkageLimit of zero: nothing to extract into.
		return 0, nil
	}

	pickRandomly := overflowed || sent.numLinkagesFound > sent.numLinkagesAlloced

	maxTries := sent.numLinkagesAlloced
	if pickRandomly {
		maxTries = sent.numLinkagesAlloced + MaxRandomTries
		if maxTries > sent.numLinkagesFound {
			maxTries = sent.numLinkagesFound
		}
	}

	invalid := 0
	accepted := 0
	for try := 0; try < maxTries; try++ {
		lkg := sent.linkages.Slot(accepted)

		req := Sequential(try)
		if pickRandomly {
			req = Randomized(uint64(try) + 1)
		}
		lkg.Info.Request = req

		if err := ext.Extract(req, lkg); err != nil {
			return invalid, fmt.Errorf("%w: candidate %v: %v", ErrExtraction, req, err)
		}
		ext.ComputeLinkNames(lkg)

		if !s.engine.IsMorphologicallySane(sent, lkg, opts) {
			invalid++
			lkg.recycle(sent.Length())
			continue
		}

		s.engine.CompactEmptyWords(lkg)
		sent.linkages.markOccupied(accepted)
		accepted++
		if accepted >= sent.numLinkagesAlloced {
			break
		}
	}

	sent.numValidLinkages = accepted
	// The remaining slots were never filled in; pretend the buffer is
	// shorter than it is.
	sent.numLinkagesAlloced = accepted
	return invalid, nil
}
