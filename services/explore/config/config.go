// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the explore service configuration with priority
// env > file > defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all explore service configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains structured logging settings.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Telemetry contains tracing and metrics settings.
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`

	// Limits contains graph and query limits.
	Limits LimitsConfig `json:"limits" yaml:"limits"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port the HTTP server listens on.
	Port int `json:"port" yaml:"port"`

	// Debug enables gin debug mode and verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Dir enables file logging when non-empty. Supports ~ expansion.
	Dir string `json:"dir" yaml:"dir"`

	// JSON enables JSON output on stderr. File logs are always JSON.
	JSON bool `json:"json" yaml:"json"`
}

// TelemetryConfig contains tracing and metrics settings.
type TelemetryConfig struct {
	// Environment tags exported telemetry: development, staging, production.
	Environment string `json:"environment" yaml:"environment"`

	// TraceExporter selects the span exporter: stdout or none.
	TraceExporter string `json:"trace_exporter" yaml:"trace_exporter"`

	// MetricExporter selects the metric exporter: prometheus, stdout, or none.
	MetricExporter string `json:"metric_exporter" yaml:"metric_exporter"`

	// PrometheusPort is the /metrics listener port when the prometheus
	// exporter is selected.
	PrometheusPort int `json:"prometheus_port" yaml:"prometheus_port"`
}

// LimitsConfig contains graph and query limits.
type LimitsConfig struct {
	// MaxNodes and MaxEdges cap snapshot sizes.
	MaxNodes int `json:"max_nodes" yaml:"max_nodes"`
	MaxEdges int `json:"max_edges" yaml:"max_edges"`

	// DefaultHierarchyDepth applies when a request leaves depth unset.
	DefaultHierarchyDepth int `json:"default_hierarchy_depth" yaml:"default_hierarchy_depth"`

	// MaxHierarchyDepth clamps requested depth.
	MaxHierarchyDepth int `json:"max_hierarchy_depth" yaml:"max_hierarchy_depth"`

	// MaxSearchResults clamps the per-request result cap.
	MaxSearchResults int `json:"max_search_results" yaml:"max_search_results"`

	// MaxSuggestions clamps the suggestion limit.
	MaxSuggestions int `json:"max_suggestions" yaml:"max_suggestions"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:  8091,
			Debug: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			PrometheusPort: 9464,
		},
		Limits: LimitsConfig{
			MaxNodes:              1_000_000,
			MaxEdges:              10_000_000,
			DefaultHierarchyDepth: 3,
			MaxHierarchyDepth:     5,
			MaxSearchResults:      500,
			MaxSuggestions:        50,
		},
	}
}

// Load loads configuration with priority: env > file > defaults.
//
// Inputs:
//   - configPath: Path to YAML/JSON config file (optional, can be empty).
//
// Outputs:
//   - Config: Merged configuration.
//   - error: Non-nil if the file exists but is invalid, or if the merged
//     configuration fails validation.
func Load(configPath string) (Config, error) {
	config := Default()

	if configPath != "" {
		if err := loadFile(configPath, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Limits.MaxNodes <= 0 {
		return fmt.Errorf("limits.max_nodes must be positive: %d", c.Limits.MaxNodes)
	}
	if c.Limits.MaxEdges <= 0 {
		return fmt.Errorf("limits.max_edges must be positive: %d", c.Limits.MaxEdges)
	}
	if c.Limits.MaxHierarchyDepth < c.Limits.DefaultHierarchyDepth {
		return fmt.Errorf("limits.max_hierarchy_depth (%d) below default depth (%d)",
			c.Limits.MaxHierarchyDepth, c.Limits.DefaultHierarchyDepth)
	}
	switch c.Telemetry.TraceExporter {
	case "", "stdout", "none":
	default:
		return fmt.Errorf("telemetry.trace_exporter unknown: %q", c.Telemetry.TraceExporter)
	}
	switch c.Telemetry.MetricExporter {
	case "", "prometheus", "stdout", "none":
	default:
		return fmt.Errorf("telemetry.metric_exporter unknown: %q", c.Telemetry.MetricExporter)
	}
	return nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}

	return nil
}

func loadEnv(config *Config) {
	if v := os.Getenv("VIZZ_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Server.Port = i
		}
	}
	if v := os.Getenv("VIZZ_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Server.Debug = b
		}
	}
	if v := os.Getenv("VIZZ_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("VIZZ_LOG_DIR"); v != "" {
		config.Logging.Dir = v
	}
	if v := os.Getenv("VIZZ_ENVIRONMENT"); v != "" {
		config.Telemetry.Environment = v
	}
	if v := os.Getenv("VIZZ_TRACE_EXPORTER"); v != "" {
		config.Telemetry.TraceExporter = v
	}
	if v := os.Getenv("VIZZ_METRIC_EXPORTER"); v != "" {
		config.Telemetry.MetricExporter = v
	}
	if v := os.Getenv("VIZZ_PROMETHEUS_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Telemetry.PrometheusPort = i
		}
	}
	if v := os.Getenv("VIZZ_MAX_NODES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Limits.MaxNodes = i
		}
	}
	if v := os.Getenv("VIZZ_MAX_EDGES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Limits.MaxEdges = i
		}
	}
	if v := os.Getenv("VIZZ_MAX_HIERARCHY_DEPTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Limits.MaxHierarchyDepth = i
		}
	}
	if v := os.Getenv("VIZZ_MAX_SEARCH_RESULTS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Limits.MaxSearchResults = i
		}
	}
}
