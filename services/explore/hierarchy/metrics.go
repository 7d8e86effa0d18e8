// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hierarchy

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for hierarchy operations.
var (
	tracer = otel.Tracer("gitvizz.hierarchy")
	meter  = otel.Meter("gitvizz.hierarchy")
)

// Metrics for hierarchy build operations.
var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter
	nodesBuilt   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"hierarchy_build_duration_seconds",
			metric.WithDescription("Duration of hierarchy build operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"hierarchy_build_total",
			metric.WithDescription("Total number of hierarchy build operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesBuilt, err = meter.Int64Histogram(
			"hierarchy_nodes_built",
			metric.WithDescription("Number of tree nodes materialized per build"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records metrics for one build operation.
func recordBuildMetrics(ctx context.Context, duration time.Duration, nodeCount int, truncated bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("truncated", truncated))

	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)
	nodesBuilt.Record(ctx, int64(nodeCount))
}

// startBuildSpan creates a span for a build operation.
func startBuildSpan(ctx context.Context, rootID string, maxDepth int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Builder.Build",
		trace.WithAttributes(
			attribute.String("hierarchy.root_id", rootID),
			attribute.Int("hierarchy.max_depth", maxDepth),
		),
	)
}

// setBuildSpanResult sets the result attributes on a build span.
func setBuildSpanResult(span trace.Span, nodeCount, remapCount int) {
	span.SetAttributes(
		attribute.Int("hierarchy.node_count", nodeCount),
		attribute.Int("hierarchy.remap_count", remapCount),
	)
}
