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
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultLinkageLimit bounds the accepted linkage set when the caller
// does not say otherwise.
const DefaultLinkageLimit = 100

// CostModel orders two linkages for ranking. It returns a negative
// value when a ranks before b, positive when after, zero when tied.
type CostModel func(a, b *Linkage) int

// Options configures one parse search. The search never mutates the
// caller's Options; phase-local adjustments (such as suppressing the
// zero-null pruning optimization mid-search) are tracked in search
// state instead.
type Options struct {
	// MinNullCount is the null-link level the search starts at.
	MinNullCount int `validate:"min=0"`

	// MaxNullCount is the highest null-link level the search will try.
	// The effective ceiling is min(sentence length, MaxNullCount).
	MaxNullCount int `validate:"min=0,gtefield=MinNullCount"`

	// LinkageLimit caps the number of accepted linkages. Zero accepts
	// nothing (the count pass still runs, for diagnostics).
	LinkageLimit int `validate:"min=0"`

	// CostModel ranks the accepted set. Nil means CompareByCost.
	CostModel CostModel `validate:"-"`

	// Budget is the resource budget checked between major phases. Nil
	// means unlimited.
	Budget Budget `validate:"-"`

	// ShuffleLinkages asks for extraction-order presentation instead of
	// cost order. Only honored when the sentence has a nonzero random
	// state; the grammar may also request it via the dictionary.
	ShuffleLinkages bool

	// Verbosity selects diagnostic logging detail, 0 (quiet) to 9.
	Verbosity int `validate:"min=0,max=9"`
}

// DefaultOptions returns a zero-to-zero null-count search with the
// default linkage limit and cost ranking.
func DefaultOptions() Options {
	return Options{
		LinkageLimit: DefaultLinkageLimit,
		CostModel:    CompareByCost,
		Verbosity:    1,
	}
}

var optionsValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks option ranges. Wraps ErrInvalidOptions.
func (o *Options) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// costModel returns the configured comparator, defaulting to
// CompareByCost.
func (o *Options) costModel() CostModel {
	if o.CostModel != nil {
		return o.CostModel
	}
	return CompareByCost
}
