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

// DisjunctSnapshot is a saved copy of a sentence's per-word candidate
// disjunct lists, taken before the aggressive zero-null pruning pass so
// the search can re-prune less aggressively if the zero-null parse
// fails.
//
// The snapshot copies the list structure only. Engines must not mutate
// Disjunct values in place (see Disjunct), so structural copies restore
// the observable candidate state exactly.
type DisjunctSnapshot struct {
	lists    [][]*Disjunct
	released bool
}

// SnapshotDisjuncts captures the current per-word candidate state.
func (s *Sentence) SnapshotDisjuncts() *DisjunctSnapshot {
	snap := &DisjunctSnapshot{lists: make([][]*Disjunct, len(s.disjuncts))}
	for i, ds := range s.disjuncts {
		cp := make([]*Disjunct, len(ds))
		copy(cp, ds)
		snap.lists[i] = cp
	}
	return snap
}

// RestoreDisjuncts overwrites the sentence's candidate state with the
// snapshot. The search uses this exactly once, on the transition from
// zero to nonzero null links. Restoring a released snapshot is a no-op.
func (s *Sentence) RestoreDisjuncts(snap *DisjunctSnapshot) {
	if snap == nil || snap.released {
		return
	}
	for i, ds := range snap.lists {
		cp := make([]*Disjunct, len(ds))
		copy(cp, ds)
		s.disjuncts[i] = cp
	}
}

// Release frees the snapshot. Idempotent; always called at parse end
// whether or not the snapshot was used.
func (snap *DisjunctSnapshot) Release() {
	if snap == nil || snap.released {
		return
	}
	snap.lists = nil
	snap.released = true
}
