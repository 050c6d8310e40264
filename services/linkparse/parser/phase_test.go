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

// A search that relaxes from zero nulls rebuilds exactly twice: once
// for the zero-null phase and once at the zero-to-nonzero crossing.
func TestPhase_RebuildOncePerPhase(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 5)

	opts := DefaultOptions()
	opts.MaxNullCount = 3

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	// Levels 0..3 all found zero linkages, but only two phases exist.
	require.Len(t, eng.pruneRecords, 2)
	assert.True(t, eng.pruneRecords[0].aggressive, "zero-null phase prunes aggressively")
	assert.Equal(t, 0, eng.pruneRecords[0].nullCount)
	assert.False(t, eng.pruneRecords[1].aggressive, "relaxed phase must not use the zero-null optimization")
	assert.Equal(t, 1, eng.pruneRecords[1].nullCount)

	assert.Equal(t, 2, eng.indexCalls)
	assert.Equal(t, 2, eng.packCalls)
	assert.Equal(t, 2, eng.matcherAllocs, "matcher is rebuilt every phase")
	assert.Equal(t, 2, eng.matcherCloses, "matchers released on every exit path")

	// Every level got its own counting pass.
	for nl := 0; nl <= 3; nl++ {
		assert.Equal(t, 1, eng.countCalls[nl], "count at null level %d", nl)
	}
}

func TestPhase_SnapshotRestoredAtCrossing(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true, aggressivePruneDrops: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 4)

	opts := DefaultOptions()
	opts.MaxNullCount = 1

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	require.Len(t, eng.pruneRecords, 2)
	// The aggressive pass saw the prepared candidates and emptied them;
	// the relaxed pass must see the restored pre-pruning state, not the
	// emptied one.
	assert.Equal(t, []int{1, 1, 1, 1}, eng.pruneRecords[0].disjunctCounts)
	assert.Equal(t, []int{1, 1, 1, 1}, eng.pruneRecords[1].disjunctCounts)
}

func TestPhase_CountContextSharedWithRealSuffixIDs(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 5)

	opts := DefaultOptions()
	opts.MaxNullCount = 2

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	// One table built for the zero-null phase, shared by the relaxed
	// phase, released once at parse end.
	assert.Equal(t, 1, eng.ctxAllocs)
	assert.Equal(t, 1, eng.ctxCloses)
}

func TestPhase_CountContextRebuiltWithFakeSuffixIDs(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: false}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 3)

	opts := DefaultOptions()
	opts.MaxNullCount = 2

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	// Fake (short-sentence) suffix ids invalidate the table on every
	// rebuild: one per phase.
	assert.Equal(t, 2, eng.ctxAllocs)
	assert.Equal(t, 2, eng.ctxCloses)
}

// A max-only search (min null count above zero) never applies the
// zero-null optimization and never restores a snapshot: one phase.
func TestPhase_OneShotSearchAboveZero(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 5)

	opts := DefaultOptions()
	opts.MinNullCount = 2
	opts.MaxNullCount = 4

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	require.Len(t, eng.pruneRecords, 1)
	assert.False(t, eng.pruneRecords[0].aggressive)
	assert.Equal(t, 1, eng.ctxAllocs)
	assert.Equal(t, 1, eng.matcherAllocs)
}

func TestPhase_ZeroOnlySearchIsSinglePhase(t *testing.T) {
	eng := &fakeEngine{realSuffixIDs: true}
	s := newTestSearch(t, eng)
	sent := newTestSentence(t, 5)

	opts := DefaultOptions() // min = max = 0

	_, err := s.Parse(context.Background(), sent, &opts)
	require.NoError(t, err)

	require.Len(t, eng.pruneRecords, 1)
	assert.True(t, eng.pruneRecords[0].aggressive)
	assert.Equal(t, 1, eng.ctxAllocs)
	assert.Equal(t, 1, eng.ctxCloses)
}
