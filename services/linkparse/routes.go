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
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/AleutianParse/services/linkparse/telemetry"
)

// RegisterRoutes wires the parse endpoints onto a router group.
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.POST("/parse", handlers.HandleParse)
}

// NewRouter builds the service router: tracing and request-ID
// middleware everywhere, rate limiting on the parse API, and the
// prometheus scrape endpoint.
func NewRouter(handlers *Handlers, cfg Config) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("linkparse-service"))
	router.Use(requestIDMiddleware())

	if mh := telemetry.MetricsHandler(); mh != nil {
		router.GET("/metrics", gin.WrapH(mh))
	}

	v1 := router.Group("/v1")
	v1.GET("/health", handlers.HandleHealth)
	v1.GET("/version", handlers.HandleVersion)
	if cfg.RateLimit.Enabled {
		v1.Use(newRateLimiter(cfg.RateLimit).Middleware())
	}
	RegisterRoutes(v1, handlers)

	return router
}
