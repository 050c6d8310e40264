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
	"log/slog"
	"strings"

	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

const (
	// DefaultMaxSentenceLength caps tokenized sentence length.
	DefaultMaxSentenceLength = 24

	// DefaultEnumerationCap caps the size of one level's parse set.
	// Hitting it reports count overflow upward.
	DefaultEnumerationCap = 4096

	// DefaultRealSuffixIDThreshold is the packed connector count at
	// which suffix identifiers switch from positional ("fake") to
	// content-derived ("real"). Small sentences stay positional.
	DefaultRealSuffixIDThreshold = 64
)

// emptyWord is the shared placeholder disjunct an optional word takes
// when it is absent from a linkage. It has no connectors, costs
// nothing, and is compacted out of accepted linkages.
var emptyWord = &parser.Disjunct{Word: "<empty>"}

// Config tunes the engine's enumeration limits.
type Config struct {
	MaxSentenceLength     int `yaml:"max_sentence_length" validate:"min=1"`
	EnumerationCap        int `yaml:"enumeration_cap" validate:"min=1"`
	RealSuffixIDThreshold int `yaml:"real_suffix_id_threshold" validate:"min=1"`
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		MaxSentenceLength:     DefaultMaxSentenceLength,
		EnumerationCap:        DefaultEnumerationCap,
		RealSuffixIDThreshold: DefaultRealSuffixIDThreshold,
	}
}

// Engine implements the parser collaborator interfaces over a
// connector dictionary. An Engine is immutable after construction and
// safe for concurrent use across sentences.
type Engine struct {
	dict   *Dictionary
	cfg    Config
	logger *slog.Logger
}

var _ parser.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the default limits.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over the given dictionary.
func New(dict *Dictionary, opts ...Option) *Engine {
	e := &Engine{
		dict:   dict,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dict returns the engine's dictionary.
func (e *Engine) Dict() *Dictionary { return e.dict }

// NewSentence tokenizes text into a parse target bound to the engine's
// dictionary. Tokens are lowercased and stripped of edge punctuation.
func (e *Engine) NewSentence(text string, randSeed uint64) (*parser.Sentence, error) {
	fields := strings.Fields(text)
	words := make([]parser.Word, 0, len(fields))
	for _, f := range fields {
		tok := strings.Trim(strings.ToLower(f), ".,!?;:\"'")
		if tok == "" {
			continue
		}
		words = append(words, parser.Word{Text: tok})
	}
	if len(words) == 0 {
		return nil, ErrEmptySentence
	}
	if len(words) > e.cfg.MaxSentenceLength {
		return nil, fmt.Errorf("%w: %d words, cap %d",
			ErrSentenceTooLong, len(words), e.cfg.MaxSentenceLength)
	}
	return parser.NewSentence(words, e.dict, randSeed), nil
}

// Prepare fills each word's candidate disjunct list from the
// dictionary. Optional words additionally get the empty-word
// placeholder. A word the dictionary cannot supply keeps an empty list
// and can only surface as a null word.
func (e *Engine) Prepare(ctx context.Context, sent *parser.Sentence, opts *parser.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := 0; i < sent.Length(); i++ {
		w := sent.Word(i)
		ds := e.dict.Lookup(w.Text)
		if w.Optional {
			ds = append(ds, emptyWord)
		}
		sent.SetDisjuncts(i, ds)
	}
	return nil
}

// Prune removes disjuncts that provably cannot participate in any
// linkage: any connector with no same-labeled partner in the opposite
// direction on the correct side kills its disjunct. Runs to fixpoint.
//
// Aggressive pruning additionally removes connectorless disjuncts from
// multi-word sentences; a word carrying one would be an island, which
// only a null-linked parse tolerates.
func (e *Engine) Prune(ctx context.Context, sent *parser.Sentence, opts *parser.Options, nullCount int, aggressive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := sent.Length()

	if aggressive && n > 1 {
		for i := 0; i < n; i++ {
			kept := keepDisjuncts(sent.Disjuncts(i), func(d *parser.Disjunct) bool {
				return d == emptyWord || d.NumConnectors() > 0
			})
			sent.SetDisjuncts(i, kept)
		}
	}

	for changed := true; changed; {
		changed = false
		for i := 0; i < n; i++ {
			leftLabels := directionLabels(sent, 0, i, right)
			rightLabels := directionLabels(sent, i+1, n, left)
			kept := keepDisjuncts(sent.Disjuncts(i), func(d *parser.Disjunct) bool {
				return satisfiable(d, leftLabels, rightLabels)
			})
			if len(kept) != len(sent.Disjuncts(i)) {
				changed = true
				sent.SetDisjuncts(i, kept)
			}
		}
	}
	return nil
}

type side int

const (
	left side = iota
	right
)

// directionLabels collects the connector labels pointing in the given
// direction across the words of [lo, hi).
func directionLabels(sent *parser.Sentence, lo, hi int, dir side) map[string]bool {
	labels := make(map[string]bool)
	for w := lo; w < hi; w++ {
		for _, d := range sent.Disjuncts(w) {
			cs := d.Left
			if dir == right {
				cs = d.Right
			}
			for _, c := range cs {
				labels[c.Label] = true
			}
		}
	}
	return labels
}

// satisfiable reports whether every connector of d has at least one
// potential partner.
func satisfiable(d *parser.Disjunct, leftPartners, rightPartners map[string]bool) bool {
	for _, c := range d.Left {
		if !leftPartners[c.Label] {
			return false
		}
	}
	for _, c := range d.Right {
		if !rightPartners[c.Label] {
			return false
		}
	}
	return true
}

func keepDisjuncts(ds []*parser.Disjunct, keep func(*parser.Disjunct) bool) []*parser.Disjunct {
	out := ds[:0:len(ds)]
	for _, d := range ds {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// BuildConnectorIndex decides the suffix-identifier regime from the
// surviving connector volume. Positional identifiers suffice below the
// threshold; above it, identifiers are content-derived and a count
// table built under them stays valid across null-count levels.
func (e *Engine) BuildConnectorIndex(sent *parser.Sentence) bool {
	total := 0
	for i := 0; i < sent.Length(); i++ {
		for _, d := range sent.Disjuncts(i) {
			total += d.NumConnectors()
		}
	}
	return total >= e.cfg.RealSuffixIDThreshold
}

// Pack compacts the surviving candidate lists into exact-capacity
// slices, releasing the slack pruning left behind.
func (e *Engine) Pack(sent *parser.Sentence, realSuffixIDs bool) {
	for i := 0; i < sent.Length(); i++ {
		ds := sent.Disjuncts(i)
		if len(ds) == cap(ds) {
			continue
		}
		packed := make([]*parser.Disjunct, len(ds))
		copy(packed, ds)
		sent.SetDisjuncts(i, packed)
	}
}
