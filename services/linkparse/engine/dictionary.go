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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

// DisjunctSpec is one dictionary-level disjunct: connector labels in
// nearest-partner-first order, a cost, and an optional stem partner for
// morphology checking.
type DisjunctSpec struct {
	Cost        float64  `yaml:"cost"`
	Left        []string `yaml:"left"`
	Right       []string `yaml:"right"`
	StemPartner string   `yaml:"stem_partner"`
}

type dictFile struct {
	ShuffleLinkages bool                      `yaml:"shuffle_linkages"`
	Words           map[string][]DisjunctSpec `yaml:"words"`
	Unknown         []DisjunctSpec            `yaml:"unknown"`
}

// Dictionary maps words to candidate disjuncts. Dictionaries are
// immutable after construction and safe for concurrent use.
type Dictionary struct {
	shuffle bool
	entries map[string][]DisjunctSpec
	unknown []DisjunctSpec
}

// LoadDictionary reads and parses a YAML dictionary file.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return ParseDictionary(data)
}

// ParseDictionary parses a YAML dictionary.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var f dictFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDictionary, err)
	}
	if len(f.Words) == 0 {
		return nil, fmt.Errorf("%w: no word entries", ErrInvalidDictionary)
	}
	for word, specs := range f.Words {
		if word == "" {
			return nil, fmt.Errorf("%w: empty word key", ErrInvalidDictionary)
		}
		if err := validateSpecs(word, specs); err != nil {
			return nil, err
		}
	}
	if err := validateSpecs("<unknown>", f.Unknown); err != nil {
		return nil, err
	}
	return &Dictionary{
		shuffle: f.ShuffleLinkages,
		entries: f.Words,
		unknown: f.Unknown,
	}, nil
}

func validateSpecs(word string, specs []DisjunctSpec) error {
	for _, spec := range specs {
		for _, lbl := range spec.Left {
			if lbl == "" {
				return fmt.Errorf("%w: %s: empty left connector label", ErrInvalidDictionary, word)
			}
		}
		for _, lbl := range spec.Right {
			if lbl == "" {
				return fmt.Errorf("%w: %s: empty right connector label", ErrInvalidDictionary, word)
			}
		}
		if spec.Cost < 0 {
			return fmt.Errorf("%w: %s: negative cost", ErrInvalidDictionary, word)
		}
	}
	return nil
}

// ShuffleLinkages reports the grammar's presentation preference.
func (d *Dictionary) ShuffleLinkages() bool { return d.shuffle }

// Has reports whether the dictionary has an explicit entry for word.
func (d *Dictionary) Has(word string) bool {
	_, ok := d.entries[word]
	return ok
}

// Lookup builds fresh candidate disjuncts for a word. An unknown word
// gets the dictionary's unknown-word entries, which may be empty; a
// word with no candidates can only appear in a linkage as a null word.
func (d *Dictionary) Lookup(word string) []*parser.Disjunct {
	specs, ok := d.entries[word]
	if !ok {
		specs = d.unknown
	}
	if len(specs) == 0 {
		return nil
	}
	ds := make([]*parser.Disjunct, 0, len(specs))
	for _, spec := range specs {
		ds = append(ds, &parser.Disjunct{
			Word:        word,
			Cost:        spec.Cost,
			Left:        connectors(spec.Left),
			Right:       connectors(spec.Right),
			StemPartner: spec.StemPartner,
		})
	}
	return ds
}

func connectors(labels []string) []parser.Connector {
	if len(labels) == 0 {
		return nil
	}
	cs := make([]parser.Connector, len(labels))
	for i, lbl := range labels {
		cs[i] = parser.Connector{Label: lbl}
	}
	return cs
}

// DefaultDictionary returns the built-in demonstration grammar: a small
// determiner/noun/verb fragment of English.
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		entries: map[string][]DisjunctSpec{
			"the": {{Right: []string{"D"}}},
			"a":   {{Right: []string{"D"}}},
			"an":  {{Right: []string{"D"}}},

			"cat":   nounSpecs(),
			"dog":   nounSpecs(),
			"bird":  nounSpecs(),
			"mouse": nounSpecs(),
			"man":   nounSpecs(),
			"woman": nounSpecs(),

			"saw":    transitiveSpecs(),
			"chased": transitiveSpecs(),
			"heard":  transitiveSpecs(),
			"found":  transitiveSpecs(),

			"ran":   intransitiveSpecs(),
			"slept": intransitiveSpecs(),
			"left":  intransitiveSpecs(),
		},
	}
}

func nounSpecs() []DisjunctSpec {
	return []DisjunctSpec{
		// Determined subject and object. Object nouns take the
		// determiner link before the more distant verb link.
		{Left: []string{"D"}, Right: []string{"S"}},
		{Left: []string{"D", "O"}},
		// Bare forms cost extra.
		{Right: []string{"S"}, Cost: 1},
		{Left: []string{"O"}, Cost: 1},
	}
}

func transitiveSpecs() []DisjunctSpec {
	return []DisjunctSpec{
		{Left: []string{"S"}, Right: []string{"O"}},
	}
}

func intransitiveSpecs() []DisjunctSpec {
	return []DisjunctSpec{
		{Left: []string{"S"}},
	}
}
