// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package explore

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for explore service operations.
var meter = otel.Meter("gitvizz.explore")

// Metrics for search and graph load operations.
var (
	searchLatency metric.Float64Histogram
	searchTotal   metric.Int64Counter
	searchResults metric.Int64Histogram
	graphLoads    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		searchLatency, err = meter.Float64Histogram(
			"search_duration_seconds",
			metric.WithDescription("Duration of fuzzy search operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		searchTotal, err = meter.Int64Counter(
			"search_total",
			metric.WithDescription("Total number of search operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		searchResults, err = meter.Int64Histogram(
			"search_results",
			metric.WithDescription("Number of results returned per search"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		graphLoads, err = meter.Int64Counter(
			"graph_loads_total",
			metric.WithDescription("Total number of graph snapshot loads"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordSearchMetrics records metrics for one search operation.
func recordSearchMetrics(ctx context.Context, duration time.Duration, resultCount int, failed bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("failed", failed))

	searchLatency.Record(ctx, duration.Seconds(), attrs)
	searchTotal.Add(ctx, 1, attrs)
	searchResults.Record(ctx, int64(resultCount))
}

// recordGraphLoad records one snapshot load.
func recordGraphLoad(ctx context.Context, succeeded bool) {
	if err := initMetrics(); err != nil {
		return
	}
	graphLoads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("succeeded", succeeded)))
}
