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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampCount(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  int
	}{
		{name: "small totals pass through", total: 5, want: 5},
		{name: "negative overflow sentinel saturates", total: -1, want: math.MaxInt32},
		{name: "beyond int32 saturates", total: 1 << 40, want: math.MaxInt32},
		{name: "zero", total: 0, want: 0},
		{name: "exactly max", total: math.MaxInt32, want: math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampCount(tt.total))
		})
	}
}

func TestParse_NegativeTotalReportsOverflow(t *testing.T) {
	eng := &fakeEngine{
		realSuffixIDs: true,
		totals:        map[int]int64{0: -1},
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt32, res.NumLinkagesFound)
	assert.True(t, res.CountOverflow)
}

// The five-word relaxation scenario: nothing parses with zero nulls,
// four linkages exist with one null, and level two is never attempted.
func TestParse_StopsAtFirstLevelWithValidLinkages(t *testing.T) {
	eng := &fakeEngine{
		realSuffixIDs:        true,
		aggressivePruneDrops: true,
		totals:               map[int]int64{0: 0, 1: 4, 2: 9},
	}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 5)

	opts := DefaultOptions()
	opts.MaxNullCount = 2
	opts.LinkageLimit = 10

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, 1, res.NullCount)
	assert.Equal(t, 4, res.NumValidLinkages)
	assert.Equal(t, 4, res.NumLinkagesFound)
	assert.Len(t, res.Linkages, 4)

	assert.Equal(t, 1, eng.countCalls[0])
	assert.Equal(t, 1, eng.countCalls[1])
	assert.Zero(t, eng.countCalls[2], "a parse with fewer nulls is preferred; level 2 never runs")

	// The snapshot was taken and restored before level 1's prune.
	require.Len(t, eng.pruneRecords, 2)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, eng.pruneRecords[1].disjunctCounts)
}

func TestParse_CountInvariantsHold(t *testing.T) {
	tests := []struct {
		name  string
		found int64
		limit int
		sane  func(ExtractionRequest) bool
	}{
		{name: "all sane under limit", found: 3, limit: 10, sane: nil},
		{name: "all sane over limit", found: 30, limit: 10, sane: nil},
		{name: "half rejected", found: 8, limit: 10, sane: func(r ExtractionRequest) bool { return r.Index%2 == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{
				realSuffixIDs: true,
				totals:        map[int]int64{0: tt.found},
				saneFor:       tt.sane,
			}
			s := newTestSearch(t, eng)
			sent := newTestSentence(t, 4)

			opts := DefaultOptions()
			opts.LinkageLimit = tt.limit

			res, err := s.Parse(context.Background(), sent, &opts)
			require.NoError(t, err)

			found := res.NumLinkagesFound
			alloced := sent.NumLinkagesAlloced()
			valid := sent.NumValidLinkages()

			bound := found
			if tt.limit < bound {
				bound = tt.limit
			}
			assert.LessOrEqual(t, valid, alloced)
			assert.LessOrEqual(t, alloced, bound)
			assert.GreaterOrEqual(t, valid, 0)
		})
	}
}

func TestParse_ZeroLinkagesIsNotAnError(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 3)

	opts := DefaultOptions()
	opts.MaxNullCount = 3

	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)
	assert.Zero(t, res.NumValidLinkages)
	assert.Empty(t, res.Linkages)
	assert.False(t, res.ResourcesExhausted)
}

func TestParse_NilSentence(t *testing.T) {
	s := newTestSearch(t, &fakeEngine{})
	_, err := s.Parse(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilSentence)
}

func TestParse_NilOptionsUsesDefaults(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true, totals: map[int]int64{0: 2}}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 3)

	res, err := s.Parse(context.Background(), sent, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NumValidLinkages)
}

func TestNewSearch_NilEngine(t *testing.T) {
	_, err := NewSearch(nil)
	assert.ErrorIs(t, err, ErrNilEngine)
}

func TestParse_PostProcessObservesAcceptedSet(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true, totals: map[int]int64{0: 3}}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 3)

	opts := DefaultOptions()
	res, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	assert.Equal(t, 3, eng.postProcessed)
	assert.Equal(t, 3, res.NumPostProcessed)
}

func TestParse_MaxNullCountCappedBySentenceLength(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 2)

	opts := DefaultOptions()
	opts.MaxNullCount = 50

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	// Levels 0, 1, 2 only.
	assert.Len(t, eng.countCalls, 3)
}
