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

// Dictionary is the grammar view the search needs. The full dictionary
// (entry lookup, morphology rules) belongs to the engine; the search
// only consults grammar-level presentation preferences.
type Dictionary interface {
	// ShuffleLinkages reports whether the grammar asks for linkages in
	// extraction order rather than cost order. Honored only when the
	// sentence carries a nonzero random state.
	ShuffleLinkages() bool
}

// Word is one token of the parse target.
type Word struct {
	// Text is the token surface form.
	Text string

	// Optional marks a word that may be absent from a linkage without
	// counting as a null word (e.g. an empty-word placeholder inserted
	// by tokenization).
	Optional bool
}

// Sentence is the parse target and the owner of all per-parse mutable
// state: the per-word candidate disjunct lists, the linkage buffer, the
// random generator state, and the counters describing the last search
// level.
//
// A Sentence is exclusively owned by one Search.Parse call at a time.
// It is not safe for concurrent use.
type Sentence struct {
	words     []Word
	disjuncts [][]*Disjunct
	dict      Dictionary

	randState uint64
	nullCount int

	numLinkagesFound   int
	numLinkagesAlloced int
	numValidLinkages   int
	numPostProcessed   int

	linkages *LinkageBuffer
}

// NewSentence creates a sentence over the given words. The candidate
// disjunct lists start empty; the engine's Prepare step fills them.
//
// randSeed seeds the reproducible random state used for randomized
// candidate sampling. A zero seed disables shuffle-order presentation.
func NewSentence(words []Word, dict Dictionary, randSeed uint64) *Sentence {
	return &Sentence{
		words:     words,
		disjuncts: make([][]*Disjunct, len(words)),
		dict:      dict,
		randState: randSeed,
	}
}

// Length returns the number of words.
func (s *Sentence) Length() int { return len(s.words) }

// Word returns the i-th word.
func (s *Sentence) Word(i int) Word { return s.words[i] }

// Dict returns the grammar the sentence was built against. May be nil
// for engine-constructed test sentences.
func (s *Sentence) Dict() Dictionary { return s.dict }

// RandState returns the sentence's random seed state.
func (s *Sentence) RandState() uint64 { return s.randState }

// NullCount returns the null-link level of the most recent count pass.
func (s *Sentence) NullCount() int { return s.nullCount }

// Disjuncts returns the current candidate disjunct list for word i.
// The returned slice is owned by the sentence; callers must not retain
// it across pruning passes.
func (s *Sentence) Disjuncts(i int) []*Disjunct { return s.disjuncts[i] }

// SetDisjuncts replaces the candidate disjunct list for word i. Used by
// the engine's Prepare and Prune steps.
func (s *Sentence) SetDisjuncts(i int, ds []*Disjunct) { s.disjuncts[i] = ds }

// NumLinkagesFound returns the clamped linkage count of the most recent
// counting pass.
func (s *Sentence) NumLinkagesFound() int { return s.numLinkagesFound }

// NumLinkagesAlloced returns the number of linkage slots currently
// backing the buffer.
func (s *Sentence) NumLinkagesAlloced() int { return s.numLinkagesAlloced }

// NumValidLinkages returns the number of morphologically valid linkages
// accepted by the most recent sampling pass.
func (s *Sentence) NumValidLinkages() int { return s.numValidLinkages }

// NumPostProcessed returns how many accepted linkages the
// post-processor examined at the most recent level.
func (s *Sentence) NumPostProcessed() int { return s.numPostProcessed }

// Linkage returns the i-th accepted linkage, i < NumValidLinkages().
func (s *Sentence) Linkage(i int) *Linkage { return s.linkages.Slot(i) }

// allocLinkages retires any previous buffer generation and allocates a
// fresh one. Slots from two generations are never mixed.
func (s *Sentence) allocLinkages(n int) {
	s.freeLinkages()
	s.linkages = NewLinkageBuffer(n, len(s.words))
	s.numLinkagesAlloced = n
}

// freeLinkages releases the linkage buffer and resets the per-level
// slot counters. The found count is left alone; it describes the last
// counting pass, not the buffer. Safe to call when no buffer is held.
func (s *Sentence) freeLinkages() {
	if s.linkages != nil {
		s.linkages.Free()
		s.linkages = nil
	}
	s.numLinkagesAlloced = 0
	s.numValidLinkages = 0
	s.numPostProcessed = 0
}
