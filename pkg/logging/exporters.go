// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// NopExporter discards all entries. Useful as a placeholder and in tests.
type NopExporter struct{}

// Export discards the entry.
func (NopExporter) Export(ctx context.Context, entry LogEntry) error { return nil }

// Flush does nothing.
func (NopExporter) Flush(ctx context.Context) error { return nil }

// Close does nothing.
func (NopExporter) Close() error { return nil }

// BufferedExporter retains entries in memory. Intended for tests that
// assert on logged output.
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Export appends the entry to the buffer.
func (e *BufferedExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush does nothing; entries stay buffered until Reset.
func (e *BufferedExporter) Flush(ctx context.Context) error { return nil }

// Close does nothing.
func (e *BufferedExporter) Close() error { return nil }

// Entries returns a copy of the buffered entries.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]LogEntry, len(e.entries))
	copy(result, e.entries)
	return result
}

// Reset clears the buffer.
func (e *BufferedExporter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = nil
}

// WriterExporter writes entries as JSON lines to an io.Writer.
type WriterExporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterExporter creates an exporter writing JSON lines to w.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

// Export encodes the entry as one JSON line.
func (e *WriterExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return json.NewEncoder(e.w).Encode(entry)
}

// Flush does nothing; writes are unbuffered.
func (e *WriterExporter) Flush(ctx context.Context) error { return nil }

// Close does nothing; the writer is owned by the caller.
func (e *WriterExporter) Close() error { return nil }
