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
	"testing"
)

// fakeDict is a minimal Dictionary for tests.
type fakeDict struct {
	shuffle bool
}

func (d *fakeDict) ShuffleLinkages() bool { return d.shuffle }

// fakeHistogram wraps a raw 64-bit total.
type fakeHistogram struct {
	total int64
}

func (h *fakeHistogram) Total() int64 { return h.total }

// fakeCountContext and fakeMatcher count their Close calls on the
// owning engine.
type fakeCountContext struct{ eng *fakeEngine }

func (c *fakeCountContext) Close() { c.eng.ctxCloses++ }

type fakeMatcher struct{ eng *fakeEngine }

func (m *fakeMatcher) Close() { m.eng.matcherCloses++ }

// fakeExtractor materializes scripted linkages.
type fakeExtractor struct {
	eng       *fakeEngine
	sent      *Sentence
	nullCount int
}

func (e *fakeExtractor) Overflowed() bool { return e.eng.overflow }

func (e *fakeExtractor) Extract(req ExtractionRequest, lkg *Linkage) error {
	e.eng.extractCalls++
	e.eng.requests = append(e.eng.requests, req)

	lkg.NumWords = e.sent.Length()
	nulls := e.nullCount
	for i := 0; i < e.sent.Length(); i++ {
		ds := e.sent.Disjuncts(i)
		// Null words are taken from the end of the sentence.
		if len(ds) == 0 || e.sent.Length()-i <= nulls {
			lkg.Chosen[i] = nil
			continue
		}
		lkg.Chosen[i] = ds[0]
	}
	for i := 0; i+1 < e.sent.Length()-nulls; i++ {
		lkg.Links = append(lkg.Links, Link{LeftWord: i, RightWord: i + 1})
	}
	lkg.Info.Cost = e.eng.costFor(req)
	return nil
}

func (e *fakeExtractor) ComputeLinkNames(lkg *Linkage) {
	for i := range lkg.Links {
		lkg.Links[i].Label = "F"
	}
}

func (e *fakeExtractor) Close() { e.eng.extractorCloses++ }

// pruneRecord captures the observable sentence state at one prune call.
type pruneRecord struct {
	nullCount  int
	aggressive bool
	// disjunctCounts is the per-word candidate count seen on entry.
	disjunctCounts []int
}

// fakeEngine is a fully scripted collaborator set. The zero value is a
// grammar where every word has one disjunct, every count level finds
// zero linkages, and every candidate is morphologically sane.
type fakeEngine struct {
	// totals scripts the histogram total per null-count level.
	totals map[int]int64

	// saneFor scripts the morphology check per extraction request.
	// Nil means everything is sane.
	saneFor func(req ExtractionRequest) bool

	// costOf scripts per-request costs for ranking tests. Nil means
	// cost equals the sequential index.
	costOf func(req ExtractionRequest) float64

	// realSuffixIDs is what BuildConnectorIndex reports.
	realSuffixIDs bool

	// overflow makes the extractor report parse-set saturation.
	overflow bool

	// aggressivePruneDrops makes aggressive pruning empty the candidate
	// lists, so a missing snapshot restore is observable.
	aggressivePruneDrops bool

	prepareCalls    int
	pruneRecords    []pruneRecord
	indexCalls      int
	packCalls       int
	countCalls      map[int]int
	ctxAllocs       int
	ctxCloses       int
	matcherAllocs   int
	matcherCloses   int
	extractorAllocs int
	extractorCloses int
	extractCalls    int
	postProcessed   int
	requests        []ExtractionRequest
}

func (e *fakeEngine) costFor(req ExtractionRequest) float64 {
	if e.costOf != nil {
		return e.costOf(req)
	}
	return float64(req.Index)
}

func (e *fakeEngine) Prepare(ctx context.Context, sent *Sentence, opts *Options) error {
	e.prepareCalls++
	for i := 0; i < sent.Length(); i++ {
		w := sent.Word(i)
		sent.SetDisjuncts(i, []*Disjunct{{Word: w.Text, Right: []Connector{{Label: "F"}}}})
	}
	return nil
}

func (e *fakeEngine) Prune(ctx context.Context, sent *Sentence, opts *Options, nullCount int, aggressive bool) error {
	rec := pruneRecord{nullCount: nullCount, aggressive: aggressive}
	for i := 0; i < sent.Length(); i++ {
		rec.disjunctCounts = append(rec.disjunctCounts, len(sent.Disjuncts(i)))
	}
	e.pruneRecords = append(e.pruneRecords, rec)

	if aggressive && e.aggressivePruneDrops {
		for i := 0; i < sent.Length(); i++ {
			sent.SetDisjuncts(i, nil)
		}
	}
	return nil
}

func (e *fakeEngine) BuildConnectorIndex(sent *Sentence) bool {
	e.indexCalls++
	return e.realSuffixIDs
}

func (e *fakeEngine) Pack(sent *Sentence, realSuffixIDs bool) {
	e.packCalls++
}

func (e *fakeEngine) NewCountContext(sent *Sentence) CountContext {
	e.ctxAllocs++
	return &fakeCountContext{eng: e}
}

func (e *fakeEngine) NewFastMatcher(sent *Sentence) FastMatcher {
	e.matcherAllocs++
	return &fakeMatcher{eng: e}
}

func (e *fakeEngine) Count(ctx context.Context, sent *Sentence, matcher FastMatcher, cc CountContext, nullCount int, opts *Options) Histogram {
	if e.countCalls == nil {
		e.countCalls = make(map[int]int)
	}
	e.countCalls[nullCount]++
	return &fakeHistogram{total: e.totals[nullCount]}
}

func (e *fakeEngine) NewExtractor(sent *Sentence, matcher FastMatcher, cc CountContext, nullCount int, opts *Options) Extractor {
	e.extractorAllocs++
	return &fakeExtractor{eng: e, sent: sent, nullCount: nullCount}
}

func (e *fakeEngine) IsMorphologicallySane(sent *Sentence, lkg *Linkage, opts *Options) bool {
	if e.saneFor == nil {
		return true
	}
	return e.saneFor(lkg.Info.Request)
}

func (e *fakeEngine) CompactEmptyWords(lkg *Linkage) {}

func (e *fakeEngine) PostProcess(ctx context.Context, sent *Sentence, opts *Options) int {
	e.postProcessed = sent.NumValidLinkages()
	return e.postProcessed
}

var _ Engine = (*fakeEngine)(nil)

// newTestSentence builds an n-word sentence with a zero random state.
func newTestSentence(t *testing.T, n int) *Sentence {
	t.Helper()
	words := make([]Word, n)
	for i := range words {
		words[i] = Word{Text: fmt.Sprintf("w%d", i)}
	}
	return NewSentence(words, &fakeDict{}, 0)
}

// newTestSearch builds a Search over the given fake engine.
func newTestSearch(t *testing.T, eng *fakeEngine) *Search {
	t.Helper()
	s, err := NewSearch(eng)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}
	return s
}
