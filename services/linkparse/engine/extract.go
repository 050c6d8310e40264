// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"fmt"

	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

// extractor materializes linkages from one level's parse set.
type extractor struct {
	set       *parseSet
	sent      *parser.Sentence
	baseState uint64
}

// NewExtractor returns an extractor over the level's parse set, seeded
// from the sentence's random state.
func (e *Engine) NewExtractor(sent *parser.Sentence, matcher parser.FastMatcher, cc parser.CountContext, nullCount int, opts *parser.Options) parser.Extractor {
	set := e.parseSetFor(context.Background(), sent, matcher, cc, nullCount)
	return &extractor{
		set:       set,
		sent:      sent,
		baseState: sent.RandState(),
	}
}

func (x *extractor) Overflowed() bool { return x.set.overflowed }

func (x *extractor) Extract(req parser.ExtractionRequest, lkg *parser.Linkage) error {
	n := len(x.set.candidates)
	var idx int
	switch req.Kind {
	case parser.RequestRandomized:
		if n == 0 {
			return fmt.Errorf("%w: empty parse set", ErrNoSuchCandidate)
		}
		idx = int(splitmix64(x.baseState^req.Seed) % uint64(n))
	default:
		if req.Index < 0 || req.Index >= n {
			return fmt.Errorf("%w: index %d of %d", ErrNoSuchCandidate, req.Index, n)
		}
		idx = req.Index
	}

	cand := x.set.candidates[idx]
	lkg.NumWords = len(cand.chosen)
	copy(lkg.Chosen, cand.chosen)
	for _, l := range cand.links {
		// Labels are filled by ComputeLinkNames.
		lkg.Links = append(lkg.Links, parser.Link{
			LeftWord:  l.LeftWord,
			RightWord: l.RightWord,
		})
	}
	return nil
}

// ComputeLinkNames rederives each link's label from its connector pair
// and finalizes the linkage cost.
func (x *extractor) ComputeLinkNames(lkg *parser.Linkage) {
	links, ok := matchAssignment(lkg.Chosen[:lkg.NumWords])
	if ok {
		for i := range lkg.Links {
			if i < len(links) {
				lkg.Links[i].Label = links[i].Label
			}
		}
	}

	cost := 0.0
	for i := 0; i < lkg.NumWords; i++ {
		d := lkg.Chosen[i]
		switch {
		case d == nil && !x.sent.Word(i).Optional:
			cost += nullWordCost
		case d != nil:
			cost += d.Cost
		}
	}
	lkg.Info.Cost = cost
}

func (x *extractor) Close() {
	x.set = nil
	x.sent = nil
}

// splitmix64 is the mixing function used for reproducible randomized
// candidate picks.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// IsMorphologicallySane enforces stem pairing: a disjunct that names a
// stem partner needs the next word present, carrying that partner, and
// linked to it directly.
func (e *Engine) IsMorphologicallySane(sent *parser.Sentence, lkg *parser.Linkage, opts *parser.Options) bool {
	for i := 0; i < lkg.NumWords; i++ {
		d := lkg.Chosen[i]
		if d == nil || d.StemPartner == "" {
			continue
		}
		if i+1 >= lkg.NumWords {
			return false
		}
		next := lkg.Chosen[i+1]
		if next == nil || next.Word != d.StemPartner {
			return false
		}
		if !linked(lkg, i, i+1) {
			return false
		}
	}
	return true
}

func linked(lkg *parser.Linkage, a, b int) bool {
	for _, l := range lkg.Links {
		if l.LeftWord == a && l.RightWord == b {
			return true
		}
	}
	return false
}

// CompactEmptyWords squeezes empty-word placeholders out of an accepted
// linkage, renumbering the links. Placeholders carry no connectors, so
// no link ever lands on one.
func (e *Engine) CompactEmptyWords(lkg *parser.Linkage) {
	shift := make([]int, lkg.NumWords)
	kept := 0
	for i := 0; i < lkg.NumWords; i++ {
		if lkg.Chosen[i] == emptyWord {
			continue
		}
		shift[i] = kept
		lkg.Chosen[kept] = lkg.Chosen[i]
		kept++
	}
	if kept == lkg.NumWords {
		return
	}
	lkg.Chosen = lkg.Chosen[:kept]
	lkg.NumWords = kept
	for i := range lkg.Links {
		lkg.Links[i].LeftWord = shift[lkg.Links[i].LeftWord]
		lkg.Links[i].RightWord = shift[lkg.Links[i].RightWord]
	}
}

// PostProcess checks structural well-formedness over the accepted set
// and annotates violations. Returns the number examined.
func (e *Engine) PostProcess(ctx context.Context, sent *parser.Sentence, opts *parser.Options) int {
	examined := 0
	for i := 0; i < sent.NumValidLinkages(); i++ {
		lkg := sent.Linkage(i)
		if lkg == nil {
			break
		}
		examined++
		for _, l := range lkg.Links {
			if l.LeftWord >= l.RightWord || l.RightWord >= lkg.NumWords {
				lkg.Info.Violation = "malformed-link"
				break
			}
			if lkg.Chosen[l.LeftWord] == nil || lkg.Chosen[l.RightWord] == nil {
				lkg.Info.Violation = "link-to-null-word"
				break
			}
		}
	}
	return examined
}
