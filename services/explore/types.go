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
	"github.com/khoantd/GitVizz-sub001/services/explore/graph"
	"github.com/khoantd/GitVizz-sub001/services/explore/hierarchy"
)

// Tree operation names accepted by the tree-ops endpoint.
const (
	// OpToggle flips expansion on every instance of one node id.
	OpToggle = "toggle"

	// OpExpandAll expands every node.
	OpExpandAll = "expand_all"

	// OpCollapseAll collapses every node.
	OpCollapseAll = "collapse_all"

	// OpExpandToDepth expands nodes above the given visible depth.
	OpExpandToDepth = "expand_to_depth"

	// OpVisible flattens the tree to the currently visible sequence.
	OpVisible = "visible"
)

// GraphPayload is the graph snapshot uploaded by the client.
//
// No wire constraints beyond field semantics: node ids must be unique
// and edge endpoints must reference existing nodes, both enforced at
// index construction.
type GraphPayload struct {
	Nodes []graph.Node `json:"nodes" binding:"required"`
	Edges []graph.Edge `json:"edges"`
}

// GraphStats describes the currently loaded snapshot.
type GraphStats struct {
	// NodeCount and EdgeCount are the snapshot sizes.
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`

	// LoadedAtMilli is the Unix timestamp in milliseconds of the load.
	LoadedAtMilli int64 `json:"loadedAtMilli"`
}

// HierarchyRequest selects a root and bounds for one hierarchy build.
type HierarchyRequest struct {
	// RootID is the graph node the hierarchy is centered on.
	RootID string `json:"rootId" binding:"required"`

	// MaxDepth bounds visible depth. Non-positive uses the service
	// default; values above the configured maximum are clamped.
	MaxDepth int `json:"maxDepth"`

	// Filter optionally elides nodes with connectivity preserved.
	Filter *graph.NodeFilter `json:"filter,omitempty"`
}

// TreeOpRequest applies one pure operation to a client-held tree.
//
// The tree travels with the request because tree state lives in the UI:
// operations never rebuild from the graph, they transform the value.
type TreeOpRequest struct {
	// Op is one of the Op* constants.
	Op string `json:"op" binding:"required"`

	// Tree is the tree to operate on.
	Tree *hierarchy.Tree `json:"tree" binding:"required"`

	// NodeID is the target node for OpToggle.
	NodeID string `json:"nodeId,omitempty"`

	// Depth is the bound for OpExpandToDepth.
	Depth int `json:"depth,omitempty"`
}

// TreeOpResponse carries the operation result.
type TreeOpResponse struct {
	// Tree is the transformed tree (all ops except OpVisible).
	Tree *hierarchy.Tree `json:"tree,omitempty"`

	// Visible is the flattened visible sequence (OpVisible only).
	Visible []*hierarchy.Node `json:"visible,omitempty"`

	// Stats summarizes the returned tree.
	Stats hierarchy.Stats `json:"stats"`
}

// SuggestionsResponse carries search suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// LookupResponse carries exact-term lookup hits.
type LookupResponse struct {
	Nodes []graph.Node `json:"nodes"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	GraphLoaded bool   `json:"graphLoaded"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
