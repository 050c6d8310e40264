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

	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

// nullWordCost is the ranking penalty per null word.
const nullWordCost = 1.0

// fastMatcher precomputes, per word and direction, which connector
// labels have a potential partner on the correct side. The enumerator
// consults it to discard disjunct choices before descending.
type fastMatcher struct {
	// leftViable[i] holds labels some word < i offers rightward.
	leftViable []map[string]bool
	// rightViable[i] holds labels some word > i offers leftward.
	rightViable []map[string]bool
}

func newFastMatcher(sent *parser.Sentence) *fastMatcher {
	n := sent.Length()
	m := &fastMatcher{
		leftViable:  make([]map[string]bool, n),
		rightViable: make([]map[string]bool, n),
	}
	for i := 0; i < n; i++ {
		m.leftViable[i] = directionLabels(sent, 0, i, right)
		m.rightViable[i] = directionLabels(sent, i+1, n, left)
	}
	return m
}

// viable reports whether every connector of d can possibly be matched
// from word position i.
func (m *fastMatcher) viable(i int, d *parser.Disjunct) bool {
	return satisfiable(d, m.leftViable[i], m.rightViable[i])
}

func (m *fastMatcher) Close() {
	m.leftViable = nil
	m.rightViable = nil
}

// candidate is one fully resolved linkage in a parse set.
type candidate struct {
	chosen []*parser.Disjunct
	links  []parser.Link
	cost   float64
}

// parseSet is the enumerated candidate set for one null-count level.
type parseSet struct {
	candidates []candidate
	overflowed bool
}

// countContext caches one parse set per null-count level. Under real
// suffix identifiers the search keeps one context across the levels of
// a phase, so the cache sees at most one entry per level.
type countContext struct {
	sets map[int]*parseSet
}

func newCountContext() *countContext {
	return &countContext{sets: make(map[int]*parseSet)}
}

func (c *countContext) Close() {
	c.sets = nil
}

// histogram is a plain 64-bit total. A capped enumeration reports a
// negative total so the search treats the level as overflowed.
type histogram struct {
	total int64
}

func (h *histogram) Total() int64 { return h.total }

// NewCountContext allocates a fresh count table.
func (e *Engine) NewCountContext(sent *parser.Sentence) parser.CountContext {
	return newCountContext()
}

// NewFastMatcher builds a matcher over the sentence's packed state.
func (e *Engine) NewFastMatcher(sent *parser.Sentence) parser.FastMatcher {
	return newFastMatcher(sent)
}

// Count enumerates the parse set for the given null count, caches it in
// the count context, and reports the total.
func (e *Engine) Count(ctx context.Context, sent *parser.Sentence, matcher parser.FastMatcher, cc parser.CountContext, nullCount int, opts *parser.Options) parser.Histogram {
	set := e.parseSetFor(ctx, sent, matcher, cc, nullCount)
	e.logger.Debug("enumerated parse set",
		"null_count", nullCount,
		"candidates", len(set.candidates),
		"overflowed", set.overflowed)
	if set.overflowed {
		return &histogram{total: -1}
	}
	return &histogram{total: int64(len(set.candidates))}
}

// parseSetFor returns the cached parse set for the level, enumerating
// it on first use.
func (e *Engine) parseSetFor(ctx context.Context, sent *parser.Sentence, matcher parser.FastMatcher, cc parser.CountContext, nullCount int) *parseSet {
	c, ok := cc.(*countContext)
	if !ok || c.sets == nil {
		return e.enumerate(ctx, sent, matcher, nullCount)
	}
	if set, ok := c.sets[nullCount]; ok {
		return set
	}
	set := e.enumerate(ctx, sent, matcher, nullCount)
	c.sets[nullCount] = set
	return set
}

// enumerator carries the state of one exhaustive walk over disjunct
// assignments.
type enumerator struct {
	ctx     context.Context
	sent    *parser.Sentence
	matcher *fastMatcher
	target  int
	cap     int

	chosen  []*parser.Disjunct
	visited int

	set parseSet
}

// enumerate walks every disjunct assignment with exactly nullCount null
// words and collects the ones admitting a planar, connected matching.
func (e *Engine) enumerate(ctx context.Context, sent *parser.Sentence, matcher parser.FastMatcher, nullCount int) *parseSet {
	fm, _ := matcher.(*fastMatcher)
	en := &enumerator{
		ctx:     ctx,
		sent:    sent,
		matcher: fm,
		target:  nullCount,
		cap:     e.cfg.EnumerationCap,
		chosen:  make([]*parser.Disjunct, sent.Length()),
	}
	en.assign(0, 0)
	return &en.set
}

// assign chooses a disjunct (or null) for word i with nulls null words
// already placed.
func (en *enumerator) assign(i, nulls int) {
	if en.set.overflowed {
		return
	}
	en.visited++
	if en.visited%1024 == 0 && en.ctx.Err() != nil {
		en.set.overflowed = true
		return
	}

	n := en.sent.Length()
	if i == n {
		if nulls == en.target {
			en.tryMatch()
		}
		return
	}
	// Remaining words bound the nulls still placeable.
	if nulls > en.target || en.target-nulls > n-i {
		return
	}

	for _, d := range en.sent.Disjuncts(i) {
		if en.matcher != nil && d != emptyWord && !en.matcher.viable(i, d) {
			continue
		}
		en.chosen[i] = d
		en.assign(i+1, nulls)
		if en.set.overflowed {
			return
		}
	}

	// A null word. Optional words instead take the empty-word
	// placeholder above, without spending a null.
	if !en.sent.Word(i).Optional {
		en.chosen[i] = nil
		en.assign(i+1, nulls+1)
	}
}

// tryMatch runs the deterministic planar matching over the current
// assignment and records a candidate when it completes and connects.
func (en *enumerator) tryMatch() {
	links, ok := matchAssignment(en.chosen)
	if !ok {
		return
	}
	if !connected(en.chosen, links) {
		return
	}
	if len(en.set.candidates) >= en.cap {
		en.set.overflowed = true
		return
	}

	cand := candidate{
		chosen: make([]*parser.Disjunct, len(en.chosen)),
		links:  links,
	}
	copy(cand.chosen, en.chosen)
	for i, d := range en.chosen {
		switch {
		case d == nil && !en.sent.Word(i).Optional:
			cand.cost += nullWordCost
		case d != nil:
			cand.cost += d.Cost
		}
	}
	en.set.candidates = append(en.set.candidates, cand)
}

// openConn is an unmatched right connector on the matching stack.
type openConn struct {
	word  int
	label string
}

// matchAssignment computes the planar matching for a fixed assignment.
// Left connectors are taken nearest-first and must close the most
// recently opened right connector; any other pairing would cross.
// Right connectors are pushed farthest-first so the nearest tops the
// stack. The matching either completes uniquely or fails.
func matchAssignment(chosen []*parser.Disjunct) ([]parser.Link, bool) {
	var stack []openConn
	var links []parser.Link

	for i, d := range chosen {
		if d == nil {
			continue
		}
		for _, c := range d.Left {
			if len(stack) == 0 {
				return nil, false
			}
			top := stack[len(stack)-1]
			if top.label != c.Label {
				return nil, false
			}
			stack = stack[:len(stack)-1]
			links = append(links, parser.Link{
				LeftWord:  top.word,
				RightWord: i,
				Label:     c.Label,
			})
		}
		for j := len(d.Right) - 1; j >= 0; j-- {
			stack = append(stack, openConn{word: i, label: d.Right[j].Label})
		}
	}
	if len(stack) != 0 {
		return nil, false
	}
	return links, true
}

// connected checks that the linked words form one component. Null words
// and absent optional words stand outside the component.
func connected(chosen []*parser.Disjunct, links []parser.Link) bool {
	active := 0
	root := -1
	for i, d := range chosen {
		if d != nil && d != emptyWord {
			active++
			if root < 0 {
				root = i
			}
		}
	}
	if active <= 1 {
		return true
	}

	adj := make(map[int][]int, active)
	for _, l := range links {
		adj[l.LeftWord] = append(adj[l.LeftWord], l.RightWord)
		adj[l.RightWord] = append(adj[l.RightWord], l.LeftWord)
	}

	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		for _, nb := range adj[w] {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return len(seen) == active
}
