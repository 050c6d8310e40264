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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisjunctSnapshot_RoundTrip(t *testing.T) {
	sent := newTestSentence(t, 3)
	d0 := &Disjunct{Word: "w0", Right: []Connector{{Label: "S"}}}
	d1a := &Disjunct{Word: "w1", Left: []Connector{{Label: "S"}}}
	d1b := &Disjunct{Word: "w1", Left: []Connector{{Label: "O"}}}
	sent.SetDisjuncts(0, []*Disjunct{d0})
	sent.SetDisjuncts(1, []*Disjunct{d1a, d1b})
	sent.SetDisjuncts(2, nil)

	snap := sent.SnapshotDisjuncts()

	// An intervening aggressive pruning pass mutates the candidate sets.
	sent.SetDisjuncts(0, nil)
	sent.SetDisjuncts(1, []*Disjunct{d1b})

	sent.RestoreDisjuncts(snap)

	require.Equal(t, []*Disjunct{d0}, sent.Disjuncts(0))
	require.Equal(t, []*Disjunct{d1a, d1b}, sent.Disjuncts(1))
	require.Empty(t, sent.Disjuncts(2))
}

func TestDisjunctSnapshot_RestoredStateSurvivesLaterPruning(t *testing.T) {
	sent := newTestSentence(t, 2)
	d := &Disjunct{Word: "w0"}
	sent.SetDisjuncts(0, []*Disjunct{d})

	snap := sent.SnapshotDisjuncts()
	sent.RestoreDisjuncts(snap)

	// Pruning the restored list must not reach back into the snapshot.
	sent.SetDisjuncts(0, sent.Disjuncts(0)[:0])
	sent.RestoreDisjuncts(snap)
	assert.Equal(t, []*Disjunct{d}, sent.Disjuncts(0))
}

func TestDisjunctSnapshot_ReleaseIsIdempotent(t *testing.T) {
	sent := newTestSentence(t, 2)
	sent.SetDisjuncts(0, []*Disjunct{{Word: "w0"}})

	snap := sent.SnapshotDisjuncts()
	snap.Release()
	assert.NotPanics(t, func() { snap.Release() })

	// Restoring a released snapshot is a no-op.
	sent.SetDisjuncts(0, nil)
	sent.RestoreDisjuncts(snap)
	assert.Empty(t, sent.Disjuncts(0))
}

func TestDisjunctSnapshot_NilSafe(t *testing.T) {
	sent := newTestSentence(t, 1)
	var snap *DisjunctSnapshot
	assert.NotPanics(t, func() { snap.Release() })
	assert.NotPanics(t, func() { sent.RestoreDisjuncts(nil) })
}
