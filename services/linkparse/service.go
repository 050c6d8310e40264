// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package linkparse exposes the parse search as an HTTP service with a
// badger-backed result cache.
package linkparse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/AleutianParse/services/linkparse/cache"
	"github.com/AleutianAI/AleutianParse/services/linkparse/engine"
	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

// Service ties the engine, search, and cache together behind the HTTP
// handlers.
type Service struct {
	engine *engine.Engine
	search *parser.Search
	cache  *cache.Cache
	cfg    Config
	logger *slog.Logger
}

// NewService creates a Service. The cache may be nil to disable
// caching.
func NewService(eng *engine.Engine, search *parser.Search, c *cache.Cache, cfg Config, logger *slog.Logger) (*Service, error) {
	if eng == nil || search == nil {
		return nil, ErrNilEngine
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: eng, search: search, cache: c, cfg: cfg, logger: logger}, nil
}

// Parse runs one parse request end to end: cache lookup, sentence
// construction, the null-count search, and response mapping.
func (s *Service) Parse(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	opts := s.requestOptions(req)

	key := cache.Key(req.Text,
		fmt.Sprintf("seed=%d", req.RandSeed),
		fmt.Sprintf("nulls=%d", opts.MaxNullCount),
		fmt.Sprintf("limit=%d", opts.LinkageLimit),
		fmt.Sprintf("shuffle=%t", opts.ShuffleLinkages),
	)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	sent, err := s.engine.NewSentence(req.Text, req.RandSeed)
	if err != nil {
		return nil, err
	}

	res, err := s.search.Parse(ctx, sent, opts)
	if err != nil {
		return nil, err
	}

	resp := buildResponse(req.Text, sent, res)
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// requestOptions merges per-request overrides over the configured
// defaults. The caller's request is never mutated.
func (s *Service) requestOptions(req *ParseRequest) *parser.Options {
	opts := parser.DefaultOptions()
	opts.MaxNullCount = s.cfg.MaxNullCount
	if s.cfg.LinkageLimit > 0 {
		opts.LinkageLimit = s.cfg.LinkageLimit
	}
	if req.MaxNullCount != nil {
		opts.MaxNullCount = *req.MaxNullCount
	}
	if req.LinkageLimit != nil {
		opts.LinkageLimit = *req.LinkageLimit
	}
	opts.ShuffleLinkages = req.Shuffle
	if s.cfg.ParseTimeout > 0 {
		opts.Budget = parser.NewTimeBudget(s.cfg.ParseTimeout)
	}
	return &opts
}

func buildResponse(text string, sent *parser.Sentence, res *parser.Result) *ParseResponse {
	resp := &ParseResponse{
		Text:               text,
		Linkages:           make([]LinkageDTO, 0, len(res.Linkages)),
		NullCount:          res.NullCount,
		NumLinkagesFound:   res.NumLinkagesFound,
		NumValidLinkages:   res.NumValidLinkages,
		InvalidMorphology:  res.InvalidMorphology,
		CountOverflow:      res.CountOverflow,
		ResourcesExhausted: res.ResourcesExhausted,
		DurationMillis:     res.Duration.Milliseconds(),
	}
	for _, lkg := range res.Linkages {
		resp.Linkages = append(resp.Linkages, buildLinkageDTO(sent, lkg))
	}
	return resp
}

func buildLinkageDTO(sent *parser.Sentence, lkg *parser.Linkage) LinkageDTO {
	dto := LinkageDTO{
		Words: make([]string, lkg.NumWords),
		Links: make([]LinkDTO, 0, lkg.NumLinks()),
		Cost:  lkg.Info.Cost,
	}
	for i := 0; i < lkg.NumWords; i++ {
		switch {
		case lkg.Chosen[i] != nil:
			dto.Words[i] = lkg.Chosen[i].Word
		case i < sent.Length():
			dto.Words[i] = "[" + sent.Word(i).Text + "]"
			dto.NullWords++
		}
	}
	for _, lnk := range lkg.Links {
		dto.Links = append(dto.Links, LinkDTO{
			LeftWord:  lnk.LeftWord,
			RightWord: lnk.RightWord,
			Label:     lnk.Label,
		})
	}
	return dto
}

func (s *Service) cacheGet(ctx context.Context, key string) (*ParseResponse, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp ParseResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("cache entry corrupt; ignoring", "error", err)
		return nil, false
	}
	resp.Cached = true
	return &resp, true
}

func (s *Service) cacheSet(ctx context.Context, key string, resp *ParseResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache store failed", "error", err)
	}
}
