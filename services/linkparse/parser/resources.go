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
	"time"
)

// Budget is the resource budget consulted between major search phases:
// after preparation, after each rebuild, and after each counting pass.
// Exhausted must be a pure query with no side effects.
//
// Exceeding the budget aborts the entire search; the caller receives
// whatever linkages earlier null-count levels already accepted.
type Budget interface {
	Exhausted() bool
}

// TimeBudget is a wall-clock budget. The clock starts when the budget
// is created, so create one per parse call.
type TimeBudget struct {
	deadline time.Time
}

// NewTimeBudget returns a budget that exhausts d from now.
func NewTimeBudget(d time.Duration) *TimeBudget {
	return &TimeBudget{deadline: time.Now().Add(d)}
}

// Exhausted reports whether the deadline has passed.
func (b *TimeBudget) Exhausted() bool {
	return time.Now().After(b.deadline)
}

// resourcesExhausted folds context cancellation and the configured
// budget into the single check the search performs at each checkpoint.
func resourcesExhausted(ctx context.Context, b Budget) bool {
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	return b != nil && b.Exhausted()
}
