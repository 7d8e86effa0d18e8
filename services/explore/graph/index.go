// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import "fmt"

// pairKey identifies a directed node pair for the edgesBetween index.
type pairKey struct {
	source string
	target string
}

// Index is the adjacency index over one graph snapshot.
//
// Built once per snapshot, read-only afterwards. Answers "neighbors of
// X" and "edges between X and Y" in near-constant time via secondary
// indexes populated during construction.
//
// Thread Safety:
//
//	Index is immutable after NewIndex returns and safe for concurrent
//	reads. A changed snapshot requires a new index.
type Index struct {
	// nodes maps node ID to the stored node copy.
	nodes map[string]*Node

	// order preserves snapshot node order for deterministic scans.
	order []string

	// outgoing and incoming hold per-node edge lists in edge-list order.
	outgoing map[string][]*Edge
	incoming map[string][]*Edge

	// neighbors holds the deduplicated neighbor union per node, in
	// edge-list insertion order.
	neighbors map[string][]string

	// byPair indexes edges by their directed (source, target) pair.
	byPair map[pairKey][]*Edge

	// edges holds all edges in input order.
	edges []*Edge

	options IndexOptions
}

// NewIndex builds the adjacency index for a graph snapshot.
//
// Description:
//
//	Validates the snapshot and populates all secondary indexes in a
//	single pass over the edge list. The input slices are copied; the
//	caller may reuse them afterwards.
//
// Inputs:
//
//	nodes - Snapshot nodes. IDs must be unique.
//	edges - Snapshot edges. Both endpoints must reference existing nodes.
//	opts - Optional capacity limits.
//
// Outputs:
//
//	*Index - The constructed index.
//	error - Non-nil on structural violations or capacity overflow.
//
// Errors:
//
//	ErrDuplicateNode - Two nodes share an ID
//	ErrEdgeEndpointMissing - Edge references an unknown node
//	ErrMaxNodesExceeded, ErrMaxEdgesExceeded - Capacity overflow
//
// Complexity:
//
//	O(V + E) time and space.
func NewIndex(nodes []Node, edges []Edge, opts ...IndexOption) (*Index, error) {
	options := DefaultIndexOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if len(nodes) > options.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes, limit %d", ErrMaxNodesExceeded, len(nodes), options.MaxNodes)
	}
	if len(edges) > options.MaxEdges {
		return nil, fmt.Errorf("%w: %d edges, limit %d", ErrMaxEdgesExceeded, len(edges), options.MaxEdges)
	}

	normalized := NormalizeDegrees(nodes, edges)

	idx := &Index{
		nodes:     make(map[string]*Node, len(nodes)),
		order:     make([]string, 0, len(nodes)),
		outgoing:  make(map[string][]*Edge, len(nodes)),
		incoming:  make(map[string][]*Edge, len(nodes)),
		neighbors: make(map[string][]string, len(nodes)),
		byPair:    make(map[pairKey][]*Edge, len(edges)),
		edges:     make([]*Edge, 0, len(edges)),
		options:   options,
	}

	for i := range normalized {
		node := &normalized[i]
		if _, exists := idx.nodes[node.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
		}
		idx.nodes[node.ID] = node
		idx.order = append(idx.order, node.ID)
	}

	// seen tracks neighbor dedup per node without O(k) scans.
	seen := make(map[pairKey]bool, len(edges)*2)

	for i := range edges {
		e := edges[i]
		if _, ok := idx.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: source %q (edge %d)", ErrEdgeEndpointMissing, e.Source, i)
		}
		if _, ok := idx.nodes[e.Target]; !ok {
			return nil, fmt.Errorf("%w: target %q (edge %d)", ErrEdgeEndpointMissing, e.Target, i)
		}

		stored := &Edge{Source: e.Source, Target: e.Target, Relationship: e.Relationship}
		idx.edges = append(idx.edges, stored)
		idx.outgoing[e.Source] = append(idx.outgoing[e.Source], stored)
		idx.incoming[e.Target] = append(idx.incoming[e.Target], stored)
		idx.byPair[pairKey{e.Source, e.Target}] = append(idx.byPair[pairKey{e.Source, e.Target}], stored)

		if k := (pairKey{e.Source, e.Target}); !seen[k] {
			seen[k] = true
			idx.neighbors[e.Source] = append(idx.neighbors[e.Source], e.Target)
		}
		if k := (pairKey{e.Target, e.Source}); !seen[k] && e.Source != e.Target {
			seen[k] = true
			idx.neighbors[e.Target] = append(idx.neighbors[e.Target], e.Source)
		}
	}

	return idx, nil
}

// HasNode reports whether the snapshot contains the given node ID.
func (idx *Index) HasNode(id string) bool {
	_, ok := idx.nodes[id]
	return ok
}

// Node retrieves a node by its ID.
//
// Outputs:
//
//	*Node - The node if found, nil otherwise. Callers must not mutate it.
//	bool - True if the node was found.
func (idx *Index) Node(id string) (*Node, bool) {
	node, ok := idx.nodes[id]
	return node, ok
}

// Neighbors returns the deduplicated union of outgoing targets and
// incoming sources for a node, in edge-list insertion order.
//
// Unknown ids yield an empty slice, not an error. The returned slice is
// a defensive copy.
func (idx *Index) Neighbors(id string) []string {
	nbrs := idx.neighbors[id]
	if len(nbrs) == 0 {
		return []string{}
	}
	result := make([]string, len(nbrs))
	copy(result, nbrs)
	return result
}

// EdgesBetween returns all edges connecting a and b in either direction,
// in edge-list order (a→b edges first, then b→a).
//
// The returned slice is a defensive copy; the edges themselves are shared
// and must not be mutated.
func (idx *Index) EdgesBetween(a, b string) []*Edge {
	forward := idx.byPair[pairKey{a, b}]
	var backward []*Edge
	if a != b {
		backward = idx.byPair[pairKey{b, a}]
	}
	if len(forward)+len(backward) == 0 {
		return []*Edge{}
	}
	result := make([]*Edge, 0, len(forward)+len(backward))
	result = append(result, forward...)
	result = append(result, backward...)
	return result
}

// Outgoing returns the edges where id is the source, in edge-list order.
// The slice is shared; callers must not mutate it.
func (idx *Index) Outgoing(id string) []*Edge {
	return idx.outgoing[id]
}

// Incoming returns the edges where id is the target, in edge-list order.
// The slice is shared; callers must not mutate it.
func (idx *Index) Incoming(id string) []*Edge {
	return idx.incoming[id]
}

// Connections returns InDegree+OutDegree for the node, or 0 for unknown ids.
func (idx *Index) Connections(id string) int {
	node, ok := idx.nodes[id]
	if !ok {
		return 0
	}
	return node.Connections()
}

// NodeCount returns the number of nodes in the snapshot.
func (idx *Index) NodeCount() int {
	return len(idx.nodes)
}

// EdgeCount returns the number of edges in the snapshot.
func (idx *Index) EdgeCount() int {
	return len(idx.edges)
}

// Nodes returns the snapshot nodes in input order as value copies.
func (idx *Index) Nodes() []Node {
	result := make([]Node, 0, len(idx.order))
	for _, id := range idx.order {
		result = append(result, *idx.nodes[id])
	}
	return result
}
