// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"  error  ", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLogger_ExporterReceivesEntries(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{
		Level:    LevelInfo,
		Service:  "vizz-test",
		Quiet:    true,
		Exporter: exporter,
	})
	defer logger.Close()

	logger.Info("graph loaded", "nodes", 42)
	logger.Error("build failed", "root", "main")

	entries := exporter.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, "graph loaded", entries[0].Message)
	assert.Equal(t, "vizz-test", entries[0].Service)
	assert.Equal(t, 42, entries[0].Attrs["nodes"])

	assert.Equal(t, LevelError, entries[1].Level)
	assert.Equal(t, "main", entries[1].Attrs["root"])
}

func TestLogger_ExporterRespectsLevel(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{
		Level:    LevelWarn,
		Quiet:    true,
		Exporter: exporter,
	})
	defer logger.Close()

	logger.Debug("noise")
	logger.Info("more noise")
	logger.Warn("something odd")

	entries := exporter.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "something odd", entries[0].Message)
}

func TestLogger_WithSharesExporter(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{Quiet: true, Exporter: exporter})
	defer logger.Close()

	child := logger.With("request_id", "abc123")
	child.Info("handling request")

	entries := exporter.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "handling request", entries[0].Message)
}

func TestLogger_FileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "vizz",
		Quiet:   true,
	})

	logger.Info("hello file", "key", "value")
	require.NoError(t, logger.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "vizz_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
	assert.Equal(t, "hello file", record["msg"])
	assert.Equal(t, "value", record["key"])
	assert.Equal(t, "vizz", record["service"])
}

func TestBufferedExporter_Reset(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{Quiet: true, Exporter: exporter})
	defer logger.Close()

	logger.Info("one")
	require.Len(t, exporter.Entries(), 1)

	exporter.Reset()
	assert.Empty(t, exporter.Entries())
}

func TestWriterExporter_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewWriterExporter(&buf)
	logger := New(Config{Quiet: true, Exporter: exporter})
	defer logger.Close()

	logger.Info("line one")
	logger.Info("line two")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
	}
}

func TestAttrsFromArgs(t *testing.T) {
	attrs := attrsFromArgs([]any{"a", 1, "b", "two", 3, "orphan-key"})
	assert.Equal(t, 1, attrs["a"])
	assert.Equal(t, "two", attrs["b"])
	assert.Len(t, attrs, 2, "non-string keys are skipped")

	assert.Nil(t, attrsFromArgs(nil))
}
