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

import "errors"

var (
	// ErrInvalidDictionary indicates a dictionary file that fails
	// structural validation.
	ErrInvalidDictionary = errors.New("invalid dictionary")

	// ErrEmptySentence indicates tokenization produced no words.
	ErrEmptySentence = errors.New("empty sentence")

	// ErrSentenceTooLong indicates the sentence exceeds the engine's
	// configured length cap.
	ErrSentenceTooLong = errors.New("sentence too long")

	// ErrNoSuchCandidate indicates a sequential extraction index beyond
	// the enumerated parse set.
	ErrNoSuchCandidate = errors.New("no such candidate linkage")
)
