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

// RequestKind tags an ExtractionRequest as sequential or randomized.
type RequestKind int

const (
	// RequestSequential asks the extractor for the candidate at an
	// exact index into the count table.
	RequestSequential RequestKind = iota

	// RequestRandomized asks the extractor to pick pseudo-randomly,
	// reproducibly for the given seed.
	RequestRandomized
)

// String returns the string representation of the request kind.
func (k RequestKind) String() string {
	switch k {
	case RequestSequential:
		return "sequential"
	case RequestRandomized:
		return "randomized"
	default:
		return "unknown"
	}
}

// ExtractionRequest identifies which candidate linkage the extractor
// should materialize. The tag replaces the historical convention of
// encoding "pick randomly" as a negative index.
type ExtractionRequest struct {
	Kind  RequestKind
	Index int
	Seed  uint64
}

// Sequential builds a request for the candidate at index i.
func Sequential(i int) ExtractionRequest {
	return ExtractionRequest{Kind: RequestSequential, Index: i}
}

// Randomized builds a request for a reproducible pseudo-random pick.
// Seeds must be distinct across tries within one sampling pass.
func Randomized(seed uint64) ExtractionRequest {
	return ExtractionRequest{Kind: RequestRandomized, Seed: seed}
}

// Link is one connection between two words of a linkage.
type Link struct {
	// LeftWord and RightWord are word positions, LeftWord < RightWord.
	LeftWord  int
	RightWord int

	// Label is the link name, computed from the connector pair after
	// extraction.
	Label string
}

// LinkageInfo carries the extraction identity and ranking data of a
// linkage.
type LinkageInfo struct {
	// Request is the extraction request that produced this linkage.
	Request ExtractionRequest

	// Cost is the total cost used for ranking: disjunct costs plus the
	// null-word penalty. Filled by the extractor.
	Cost float64

	// Violation names the post-processing rule this linkage breaks, or
	// is empty when the linkage is well formed.
	Violation string
}

// Linkage is one candidate parse: a chosen disjunct per word and the
// links between them. Linkages live in slots of a LinkageBuffer and are
// recycled in place when a candidate fails the morphology check.
type Linkage struct {
	// NumWords is the word count, which shrinks when optional empty
	// words are compacted out of an accepted linkage.
	NumWords int

	// Chosen holds the chosen disjunct per word. A nil entry is either
	// an optional empty word or a true null word.
	Chosen []*Disjunct

	// Links is the link list.
	Links []Link

	// Info carries extraction identity, cost, and post-processing
	// annotations.
	Info LinkageInfo

	occupied bool
}

// NumLinks returns the number of links.
func (l *Linkage) NumLinks() int { return len(l.Links) }

// NumNullWords counts non-optional words left without a disjunct.
func (l *Linkage) NumNullWords(sent *Sentence) int {
	nulls := 0
	for i, d := range l.Chosen {
		if d == nil && !sent.Word(i).Optional {
			nulls++
		}
	}
	return nulls
}

// init prepares a recycled or fresh slot for extraction into a sentence
// of the given length.
func (l *Linkage) init(numWords int) {
	l.NumWords = numWords
	if cap(l.Chosen) < numWords {
		l.Chosen = make([]*Disjunct, numWords)
	} else {
		l.Chosen = l.Chosen[:numWords]
		for i := range l.Chosen {
			l.Chosen[i] = nil
		}
	}
	l.Links = l.Links[:0]
	l.Info = LinkageInfo{}
	l.occupied = false
}

// recycle clears extraction output but keeps the slot's backing arrays
// for the next candidate.
func (l *Linkage) recycle(numWords int) {
	l.init(numWords)
}
