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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for parse search operations.
var (
	tracer = otel.Tracer("linkparse.parser")
	meter  = otel.Meter("linkparse.parser")
)

// Metrics for parse search operations.
var (
	parseLatency  metric.Float64Histogram
	parseTotal    metric.Int64Counter
	linkagesFound metric.Int64Histogram
	overflowTotal metric.Int64Counter
	rejectTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseLatency, err = meter.Float64Histogram(
			"linkparse_parse_duration_seconds",
			metric.WithDescription("Duration of parse search calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseTotal, err = meter.Int64Counter(
			"linkparse_parses_total",
			metric.WithDescription("Total number of parse search calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		linkagesFound, err = meter.Int64Histogram(
			"linkparse_linkages_found",
			metric.WithDescription("Clamped linkage counts per parse"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		overflowTotal, err = meter.Int64Counter(
			"linkparse_count_overflows_total",
			metric.WithDescription("Counting passes that saturated the count range"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		rejectTotal, err = meter.Int64Counter(
			"linkparse_invalid_morphology_total",
			metric.WithDescription("Sampled candidates rejected by the morphology check"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordParse emits the per-call metrics. No-op when metric
// initialization failed.
func recordParse(ctx context.Context, res *Result, dur time.Duration) {
	if parseLatency == nil {
		return
	}

	status := "ok"
	switch {
	case res.ResourcesExhausted:
		status = "resources_exhausted"
	case res.NumValidLinkages == 0:
		status = "no_linkage"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	parseLatency.Record(ctx, dur.Seconds(), attrs)
	parseTotal.Add(ctx, 1, attrs)
	linkagesFound.Record(ctx, int64(res.NumLinkagesFound))
	if res.CountOverflow {
		overflowTotal.Add(ctx, 1)
	}
	if res.InvalidMorphology > 0 {
		rejectTotal.Add(ctx, int64(res.InvalidMorphology))
	}
}
