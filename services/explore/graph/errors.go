// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the immutable adjacency index over a code
// dependency graph snapshot.
//
// Nodes are code entities (functions, classes, files) and edges are
// directed relationships between them (calls, imports, containment).
// The graph may contain cycles, self-loops, and parallel edges.
//
// # Ownership Model
//
// The index copies the node and edge slices it is given at construction:
//   - Callers may reuse or mutate their input slices afterwards
//   - The index itself is never mutated after NewIndex returns
//
// # Thread Safety
//
// Index is read-only after construction and safe for concurrent use
// from multiple goroutines. A changed graph snapshot requires a fresh
// index; there is no incremental update path.
//
// # Error Philosophy
//
// Structural violations the caller controls fail fast at construction
// (duplicate node ids, edges referencing unknown nodes). Lookup misses
// after construction are soft: unknown ids yield empty results, never
// errors, because "no result" is a valid state for the UI this feeds.
package graph

import "errors"

// Sentinel errors for index construction.
var (
	// ErrDuplicateNode is returned when the input snapshot contains two
	// nodes with the same ID. Node ids must be unique and stable.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrEdgeEndpointMissing is returned when an edge references a node
	// ID that does not exist in the snapshot.
	ErrEdgeEndpointMissing = errors.New("edge endpoint not found")

	// ErrMaxNodesExceeded is returned when the snapshot holds more nodes
	// than the configured capacity.
	ErrMaxNodesExceeded = errors.New("maximum node count exceeded")

	// ErrMaxEdgesExceeded is returned when the snapshot holds more edges
	// than the configured capacity.
	ErrMaxEdgesExceeded = errors.New("maximum edge count exceeded")
)
