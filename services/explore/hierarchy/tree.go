// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hierarchy decomposes a node's graph neighborhood into a tree.
//
// The builder runs a cycle-safe bounded BFS from a selected root in both
// edge directions and materializes a nested tree for UI rendering. Nodes
// failing the active filter are elided while connectivity is preserved:
// a path A → (filtered) → B becomes a direct tree edge A → B annotated
// with the skipped node ids ("smart" connections).
//
// # Tree Identity
//
// The produced structure is a tree, not a graph: the same logical graph
// node may appear in several branches as independent value copies, each
// carrying its own display state. Toggling one instance never leaks into
// a sibling branch.
//
// # Thread Safety
//
// Build allocates all traversal state (visited set, frontier) fresh per
// invocation; a Builder can be shared across goroutines as long as the
// underlying Index is frozen. The tree operation functions are pure and
// return fresh trees.
package hierarchy

// Node is one materialized entry in a hierarchy tree.
//
// A Node is a path-specific copy of a graph node: identity is the pair
// (graph node ID, position in the tree), never a shared object.
type Node struct {
	// ID is the graph node ID this entry displays.
	ID string `json:"id"`

	// Name, Category, File, Code, StartLine mirror the graph node.
	Name      string `json:"name"`
	Category  string `json:"category"`
	File      string `json:"file,omitempty"`
	Code      string `json:"code,omitempty"`
	StartLine int    `json:"start_line,omitempty"`

	// Relationship is the edge label connecting this node to its parent
	// in the tree. Empty at the root.
	Relationship string `json:"relationship,omitempty"`

	// Depth is the visible distance from the root along the direction
	// this node was discovered in. Elided nodes do not count.
	Depth int `json:"depth"`

	// IsExpanded controls whether children are shown by the UI.
	IsExpanded bool `json:"isExpanded"`

	// Children holds nodes discovered beyond this one, in the direction
	// this node itself was discovered from.
	Children []*Node `json:"children"`

	// Parents holds incoming-direction neighbors. Populated only at the
	// root; deeper incoming-direction nodes use Children.
	Parents []*Node `json:"parents,omitempty"`
}

// RemappedConnection records one connectivity-preserving elision.
//
// Invariant: every id in SkippedNodes failed the active filter; Source
// and Target both passed it.
type RemappedConnection struct {
	// Source is the nearest visible ancestor the edge was remapped from.
	Source string `json:"remappedSource"`

	// Target is the visible node the edge was remapped to.
	Target string `json:"remappedTarget"`

	// SkippedNodes lists the elided node ids between Source and Target,
	// in traversal order.
	SkippedNodes []string `json:"skippedNodes"`
}

// FilterStats summarizes the effect of the active filter on a build.
type FilterStats struct {
	// TotalOriginalNodes is the count of nodes reachable before
	// filtering, within the traversal bounds.
	TotalOriginalNodes int `json:"totalOriginalNodes"`

	// FilteredOutNodes is the count of reachable nodes the filter elided.
	FilteredOutNodes int `json:"filteredOutNodes"`

	// RemappedConnections is the count of remap entries emitted.
	RemappedConnections int `json:"remappedConnections"`
}

// Tree is the result of one hierarchy build.
type Tree struct {
	// Root is the tree root, nil when the root id was not in the graph.
	Root *Node `json:"rootNode"`

	// TotalNodes counts materialized Node instances across the tree.
	TotalNodes int `json:"totalNodes"`

	// MaxDepth is the maximum visible depth actually reached.
	MaxDepth int `json:"maxDepth"`

	// FilterStats summarizes filtering for this build.
	FilterStats FilterStats `json:"filterStats"`

	// RemappedConnections enumerates the elisions for UI disclosure.
	RemappedConnections []RemappedConnection `json:"remappedConnections"`

	// Truncated is true when the build stopped early on context
	// cancellation; the tree holds the portion built so far.
	Truncated bool `json:"truncated,omitempty"`
}

// Stats holds the counts returned by TreeStats.
type Stats struct {
	// TotalNodes counts Node instances across the tree.
	TotalNodes int `json:"totalNodes"`

	// MaxDepth is the maximum Depth observed.
	MaxDepth int `json:"maxDepth"`
}
