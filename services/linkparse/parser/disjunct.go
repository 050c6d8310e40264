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

// Connector is one linking requirement of a disjunct. A right-pointing
// connector on word i links to a left-pointing connector with the same
// label on some word j > i. Direction is implied by which list of the
// owning disjunct the connector sits in.
type Connector struct {
	// Label identifies the link type (e.g. "S", "O", "D").
	Label string
}

// Disjunct is one candidate way for a word to participate in a linkage:
// an ordered list of left-pointing and right-pointing connectors, all of
// which must be satisfied exactly once.
//
// Disjuncts are treated as immutable once attached to a Sentence.
// Engines prune by filtering the per-word disjunct lists, never by
// mutating a Disjunct in place; the snapshot/restore protocol depends on
// this.
type Disjunct struct {
	// Word is the word string this disjunct was built for.
	Word string

	// Cost is the grammar cost of choosing this disjunct. Lower is better.
	Cost float64

	// Left holds connectors that must link to words earlier in the
	// sentence, ordered nearest-first.
	Left []Connector

	// Right holds connectors that must link to words later in the
	// sentence, ordered nearest-first.
	Right []Connector

	// StemPartner, when nonempty, names a word this disjunct must link
	// to directly for the linkage to be morphologically coherent. Used
	// by the sanity check to reject linkages that split a stem from its
	// suffix.
	StemPartner string
}

// NumConnectors returns the total connector count of the disjunct.
func (d *Disjunct) NumConnectors() int {
	return len(d.Left) + len(d.Right)
}
