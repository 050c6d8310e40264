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

import "errors"

// Sentinel errors for parse search operations.
var (
	// ErrNilSentence is returned when a nil sentence is passed to Parse.
	ErrNilSentence = errors.New("sentence must not be nil")

	// ErrNilEngine is returned when a Search is constructed without an engine.
	ErrNilEngine = errors.New("engine must not be nil")

	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("invalid parse options")

	// ErrResourcesExhausted is returned when the resource budget is hit
	// before or during the search. The Result returned alongside it still
	// carries any linkages accepted at earlier null-count levels.
	ErrResourcesExhausted = errors.New("parse resources exhausted")

	// ErrExtraction is returned when the extraction engine fails to
	// materialize a candidate linkage. This indicates a collaborator bug,
	// not a normal no-linkage outcome.
	ErrExtraction = errors.New("linkage extraction failed")

	// ErrBufferFreed is returned when a freed linkage buffer is accessed.
	// Freeing a freed buffer is a safe no-op; reading from one is not.
	ErrBufferFreed = errors.New("linkage buffer already freed")
)
