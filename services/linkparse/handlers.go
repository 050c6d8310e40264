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

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianParse/services/linkparse/engine"
	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	service *Service
	logger  *slog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(service *Service, logger *slog.Logger) (*Handlers, error) {
	if service == nil {
		return nil, ErrNilEngine
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, logger: logger}, nil
}

// HandleParse handles POST /v1/parse.
func (h *Handlers) HandleParse(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.logger.With("request_id", requestID)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid parse request", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.service.Parse(c.Request.Context(), &req)
	if err != nil {
		h.writeParseError(c, log, err)
		return
	}

	log.Info("parse complete",
		"null_count", resp.NullCount,
		"valid_linkages", resp.NumValidLinkages,
		"cached", resp.Cached)
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) writeParseError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, engine.ErrEmptySentence):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "EMPTY_SENTENCE",
		})
	case errors.Is(err, engine.ErrSentenceTooLong):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "SENTENCE_TOO_LONG",
		})
	case errors.Is(err, parser.ErrInvalidOptions):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_OPTIONS",
		})
	default:
		log.Error("parse failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "parse failed",
			Code:  "INTERNAL_ERROR",
		})
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "linkparse",
	})
}

// HandleVersion handles GET /version.
func (h *Handlers) HandleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Service: "linkparse",
		Version: ServiceVersion,
	})
}

// getOrCreateRequestID returns the inbound X-Request-ID or mints one,
// and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
