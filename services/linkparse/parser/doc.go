// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package parser implements the link-grammar parse search.
//
// Given a tokenized sentence and a connector-based grammar, the search
// finds link structures ("linkages") connecting the words, preferring
// linkages with the fewest unconnected ("null") words, and returns a
// ranked, bounded sample of the best ones.
//
// The package owns the search orchestration only. Connector matching,
// linkage counting, linkage extraction, morphology checking, and
// post-processing are collaborator engines behind the interfaces in
// engines.go; the reference implementation lives in the sibling engine
// package.
//
// # Search Structure
//
// A parse call walks null-count levels from Options.MinNullCount up to
// min(sentence length, Options.MaxNullCount). Levels are grouped into
// phases: a phase is a contiguous run of null-count values that share
// the same pruned disjunct state. Pruning, connector indexing, and the
// matcher are rebuilt once per phase, not once per level. When the
// search crosses from zero to nonzero null links, the aggressive
// zero-null pruning becomes invalid, the pre-pruning disjunct snapshot
// is restored, and a new phase begins.
//
// Within each level the counting engine produces a linkage count, the
// sampler extracts up to Options.LinkageLimit candidates (sequentially,
// or randomly when the count exceeds the limit), the morphology check
// discards structurally broken candidates, and post-processing
// annotates the survivors. The first level that yields at least one
// valid linkage ends the search: a parse with fewer nulls is always
// preferred over one with more.
//
// # Ownership Model
//
// One Search.Parse call exclusively owns the Sentence, its linkage
// buffer, the disjunct snapshot, the count context, and the matcher for
// the duration of the call. All of them are released on every exit
// path, including early aborts on budget exhaustion. There is no
// concurrency inside a single parse call.
//
// # Thread Safety
//
// Search is stateless and safe for concurrent use; a Sentence is not.
// Parse two sentences concurrently, never one sentence twice.
package parser
