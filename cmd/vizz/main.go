// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command vizz starts the GitVizz explore API server.
//
// GitVizz explore provides interactive code-graph exploration with:
//   - Uploadable graph snapshots (in-memory, replaced wholesale)
//   - Cycle-safe hierarchy decomposition with node elision
//   - Tiered fuzzy search with multi-field score fusion
//
// Usage:
//
//	go run ./cmd/vizz
//	go run ./cmd/vizz -port 9090
//	go run ./cmd/vizz -config vizz.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8091/v1/explore/health
//
//	# Upload a graph snapshot
//	curl -X POST http://localhost:8091/v1/explore/graph \
//	  -H "Content-Type: application/json" \
//	  -d '{"nodes": [{"id": "a", "name": "A", "category": "function"}], "edges": []}'
//
//	# Build a hierarchy
//	curl -X POST http://localhost:8091/v1/explore/hierarchy \
//	  -H "Content-Type: application/json" \
//	  -d '{"rootId": "a", "maxDepth": 3}'
//
//	# Fuzzy search
//	curl -X POST http://localhost:8091/v1/explore/search \
//	  -H "Content-Type: application/json" \
//	  -d '{"query": "fetchUser"}'
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khoantd/GitVizz-sub001/pkg/logging"
	"github.com/khoantd/GitVizz-sub001/services/explore"
	"github.com/khoantd/GitVizz-sub001/services/explore/config"
	"github.com/khoantd/GitVizz-sub001/services/explore/telemetry"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	configPath := flag.String("config", "", "Path to YAML/JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vizz: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *debug {
		cfg.Server.Debug = true
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: "vizz",
		JSON:    cfg.Logging.JSON,
	})
	defer logger.Close()

	// Set Gin mode
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "gitvizz-explore",
		ServiceVersion: explore.ServiceVersion,
		Environment:    cfg.Telemetry.Environment,
		TraceExporter:  cfg.Telemetry.TraceExporter,
		MetricExporter: cfg.Telemetry.MetricExporter,
		PrometheusPort: cfg.Telemetry.PrometheusPort,
	})
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown", "error", err)
		}
	}()

	// Serve Prometheus metrics on a side listener when enabled
	if handler := telemetry.MetricsHandler(); handler != nil {
		go serveMetrics(cfg.Telemetry.PrometheusPort, handler, logger)
	}

	// Create service with configured limits
	svc := explore.NewService(explore.ServiceConfig{
		MaxNodes:              cfg.Limits.MaxNodes,
		MaxEdges:              cfg.Limits.MaxEdges,
		DefaultHierarchyDepth: cfg.Limits.DefaultHierarchyDepth,
		MaxHierarchyDepth:     cfg.Limits.MaxHierarchyDepth,
		MaxSearchResults:      cfg.Limits.MaxSearchResults,
		MaxSuggestions:        cfg.Limits.MaxSuggestions,
	})
	handlers := explore.NewHandlers(svc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	explore.RegisterRoutes(v1, handlers)

	printBanner(cfg.Server.Port)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Shutting down GitVizz explore server")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting GitVizz explore server", "address", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

// serveMetrics exposes the Prometheus /metrics endpoint on its own port.
func serveMetrics(port int, handler http.Handler, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	addr := fmt.Sprintf(":%d", port)
	logger.Info("Serving Prometheus metrics", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("Metrics server stopped", "error", err)
	}
}

func printBanner(port int) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                     GITVIZZ EXPLORE SERVER                        ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Interactive code-graph exploration: hierarchy + fuzzy search.    ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/explore/health                │  ║
║  │                                                             │  ║
║  │ # Upload a graph snapshot (required first!)                 │  ║
║  │ curl -X POST http://localhost:%d/v1/explore/graph \       │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"nodes": [...], "edges": [...]}'                     │  ║
║  │                                                             │  ║
║  │ # Build a hierarchy around a node                           │  ║
║  │ curl -X POST http://localhost:%d/v1/explore/hierarchy \   │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"rootId": "mod.func", "maxDepth": 3}'                │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── Graph: /graph, /graph/stats                                 ║
║  ├── Hierarchy: /hierarchy, /hierarchy/ops                       ║
║  ├── Search: /search, /search/suggestions, /search/filters       ║
║  └── Lookup: /nodes/lookup                                       ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, port, port, port)
}
