// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package explore is the graph exploration service.
//
// It holds the current graph snapshot (adjacency index plus search
// engine) and orchestrates the two core engines for API consumers:
// hierarchy decomposition of a selected root's neighborhood, and fuzzy
// search over the node set. The snapshot is replaced wholesale on every
// graph upload; there is no incremental update path.
package explore

import "errors"

// Sentinel errors for service operations.
var (
	// ErrGraphNotLoaded is returned when an operation requires a graph
	// snapshot and none has been loaded yet.
	ErrGraphNotLoaded = errors.New("no graph snapshot loaded")

	// ErrRootRequired is returned when a hierarchy request carries an
	// empty root id.
	ErrRootRequired = errors.New("root node id is required")

	// ErrUnknownTreeOp is returned when a tree operation request names
	// an operation this service does not implement.
	ErrUnknownTreeOp = errors.New("unknown tree operation")

	// ErrTreeRequired is returned when a tree operation request carries
	// no tree.
	ErrTreeRequired = errors.New("tree is required")
)
