// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package linkparse

// ServiceVersion is the reported service version.
const ServiceVersion = "0.1.0"

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	// Text is the sentence to parse.
	Text string `json:"text" binding:"required"`

	// MaxNullCount overrides the configured null-link ceiling when
	// non-nil.
	MaxNullCount *int `json:"max_null_count,omitempty" binding:"omitempty,min=0"`

	// LinkageLimit overrides the configured accepted-linkage cap when
	// non-nil.
	LinkageLimit *int `json:"linkage_limit,omitempty" binding:"omitempty,min=1"`

	// RandSeed seeds linkage shuffling and randomized sampling.
	RandSeed uint64 `json:"rand_seed,omitempty"`

	// Shuffle asks for extraction order instead of cost order. Only
	// effective with a nonzero RandSeed.
	Shuffle bool `json:"shuffle,omitempty"`
}

// LinkDTO is one link of a linkage.
type LinkDTO struct {
	LeftWord  int    `json:"left_word"`
	RightWord int    `json:"right_word"`
	Label     string `json:"label"`
}

// LinkageDTO is one accepted linkage.
type LinkageDTO struct {
	// Words holds the chosen word forms. Null words render as
	// "[text]".
	Words []string `json:"words"`

	Links     []LinkDTO `json:"links"`
	Cost      float64   `json:"cost"`
	NullWords int       `json:"null_words"`
}

// ParseResponse is the body returned by POST /v1/parse.
type ParseResponse struct {
	Text               string       `json:"text"`
	Linkages           []LinkageDTO `json:"linkages"`
	NullCount          int          `json:"null_count"`
	NumLinkagesFound   int          `json:"num_linkages_found"`
	NumValidLinkages   int          `json:"num_valid_linkages"`
	InvalidMorphology  int          `json:"invalid_morphology,omitempty"`
	CountOverflow      bool         `json:"count_overflow,omitempty"`
	ResourcesExhausted bool         `json:"resources_exhausted,omitempty"`
	DurationMillis     int64        `json:"duration_ms"`

	// Cached reports that the response was served from the result
	// cache.
	Cached bool `json:"cached,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}
