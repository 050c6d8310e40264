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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_ModeSelection(t *testing.T) {
	tests := []struct {
		name       string
		found      int64
		limit      int
		overflow   bool
		wantKind   RequestKind
		wantValid  int
	}{
		{name: "found below limit is sequential", found: 4, limit: 10, wantKind: RequestSequential, wantValid: 4},
		{name: "found equal to limit is sequential", found: 10, limit: 10, wantKind: RequestSequential, wantValid: 10},
		{name: "found above limit is randomized", found: 25, limit: 10, wantKind: RequestRandomized, wantValid: 10},
		{name: "overflow forces randomized", found: 3, limit: 10, overflow: true, wantKind: RequestRandomized, wantValid: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{
				realSuffixIDs: true,
				totals:        map[int]int64{0: tt.found},
				overflow:      tt.overflow,
			}
			s := newTestSearch(t, eng)
			sent := newTestSentence(t, 4)

			opts := DefaultOptions()
			opts.LinkageLimit = tt.limit

			res, err := s.Parse(context.Background(), sent, &opts)
			require.NoError(t, err)
			require.NotEmpty(t, eng.requests)
			for _, req := range eng.requests {
				assert.Equal(t, tt.wantKind, req.Kind)
			}
			assert.Equal(t, tt.wantValid, res.NumValidLinkages)
		})
	}
}

func TestSampler_RandomizedSeedsAreDistinct(t *testing.T) {
	eng := &fakeEngine{
		realSuffixIDs: true,
		totals:        map[int]int64{0: 50},
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	opts.LinkageLimit = 5

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	seen := make(map[uint64]bool)
	for _, req := range eng.requests {
		require.Equal(t, RequestRandomized, req.Kind)
		assert.False(t, seen[req.Seed], "seed %d reused", req.Seed)
		seen[req.Seed] = true
	}
}

// With fewer linkages found than the limit, the sampler visits each
// candidate exactly once and never waits for more.
func TestSampler_ExhaustsCandidateSpace(t *testing.T) {
	eng := &fakeEngine{
		realSuffixIDs: true,
		totals:        map[int]int64{0: 2},
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	opts.LinkageLimit = 3

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.NumValidLinkages)
	assert.Equal(t, 2, eng.extractCalls)
}

func TestSampler_RecyclesRejectedSlots(t *testing.T) {
	// Candidates 0 and 2 are morphologically broken.
	eng := &fakeEngine{
		realSuffixIDs: true,
		totals:        map[int]int64{0: 5},
		saneFor: func(req ExtractionRequest) bool {
			return req.Index != 0 && req.Index != 2
		},
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	opts.LinkageLimit = 5

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, 3, res.NumValidLinkages)
	assert.Equal(t, 2, res.InvalidMorphology)
	assert.Equal(t, 5, eng.extractCalls, "rejected slots are recycled, not skipped")

	// Accepted linkages kept their extraction identity.
	for _, lkg := range res.Linkages {
		assert.NotEqual(t, 0, lkg.Info.Request.Index)
		assert.NotEqual(t, 2, lkg.Info.Request.Index)
	}
}

// The try budget under randomized sampling is capped by the found
// count, so rejection of every candidate terminates.
func TestSampler_AllCandidatesRejected(t *testing.T) {
	eng := &fakeEngine{
		realSuffixIDs: true,
		totals:        map[int]int64{0: 6},
		saneFor:       func(ExtractionRequest) bool { return false },
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	opts.LinkageLimit = 3

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, 0, res.NumValidLinkages)
	assert.Equal(t, 6, res.InvalidMorphology)
	assert.Equal(t, 6, eng.extractCalls)
}

func TestSampler_ZeroLinkageLimit(t *testing.T) {
	eng := &fakeEngine{
		realSuffixIDs: true,
		totals:        map[int]int64{0: 7},
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	opts.LinkageLimit = 0

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, 0, res.NumValidLinkages)
	assert.Equal(t, 0, eng.extractCalls, "no buffer, no extraction")
	assert.Equal(t, 7, res.NumLinkagesFound, "the count still ran for diagnostics")
}

func TestSampler_ZeroFoundAllocatesNothing(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Zero(t, res.NumValidLinkages)
	assert.Zero(t, sent.NumLinkagesAlloced())
	assert.Zero(t, eng.extractCalls)
}
