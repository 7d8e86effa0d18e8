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

import (
	"path"
	"strings"
)

// Default configuration values.
const (
	// DefaultMaxNodes is the default maximum number of nodes a snapshot can hold.
	DefaultMaxNodes = 1_000_000

	// DefaultMaxEdges is the default maximum number of edges a snapshot can hold.
	DefaultMaxEdges = 10_000_000
)

// Node represents a code entity in the dependency graph.
//
// Category is an open string tag rather than a closed enum because the
// taxonomies of upstream extractors vary ("function", "class", "file",
// "variable", ...). InDegree and OutDegree may be supplied by the
// extractor; NormalizeDegrees recomputes them from the edge list when
// both are absent.
type Node struct {
	// ID is the globally unique identifier, stable across rebuilds.
	ID string `json:"id"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// Category is the entity kind tag (function, class, file, ...).
	Category string `json:"category"`

	// File is the source file path, if known.
	File string `json:"file,omitempty"`

	// Code is the source snippet for the entity, if available.
	Code string `json:"code,omitempty"`

	// StartLine and EndLine delimit the entity in File (1-based).
	StartLine int `json:"start_line,omitempty"`
	EndLine   int `json:"end_line,omitempty"`

	// InDegree and OutDegree are connection counts over the snapshot.
	InDegree  int `json:"inDegree,omitempty"`
	OutDegree int `json:"outDegree,omitempty"`
}

// Connections returns the total connection count used by filter bounds.
func (n *Node) Connections() int {
	return n.InDegree + n.OutDegree
}

// Edge represents a directed relationship between two nodes.
//
// Self-loops and parallel edges are permitted. Multiple edges between
// the same pair represent distinct call sites or references.
type Edge struct {
	// Source is the ID of the source node.
	Source string `json:"source"`

	// Target is the ID of the target node.
	Target string `json:"target"`

	// Relationship is the edge label (e.g. "calls", "imports").
	Relationship string `json:"relationship"`
}

// IndexOptions configures Index behavior and limits.
type IndexOptions struct {
	// MaxNodes is the maximum number of nodes the index can hold.
	// Default: 1,000,000
	MaxNodes int

	// MaxEdges is the maximum number of edges the index can hold.
	// Default: 10,000,000
	MaxEdges int
}

// DefaultIndexOptions returns sensible defaults for index configuration.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		MaxNodes: DefaultMaxNodes,
		MaxEdges: DefaultMaxEdges,
	}
}

// IndexOption is a functional option for configuring Index.
type IndexOption func(*IndexOptions)

// WithMaxNodes sets the maximum number of nodes the index can hold.
func WithMaxNodes(n int) IndexOption {
	return func(o *IndexOptions) {
		o.MaxNodes = n
	}
}

// WithMaxEdges sets the maximum number of edges the index can hold.
func WithMaxEdges(n int) IndexOption {
	return func(o *IndexOptions) {
		o.MaxEdges = n
	}
}

// FileExt returns the lowercased extension of a file path, without the
// dot. Returns "" for paths with no extension.
func FileExt(file string) string {
	ext := path.Ext(file)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FileDir returns the directory portion of a file path (the path minus
// its final segment). Returns "" for bare filenames.
func FileDir(file string) string {
	dir := path.Dir(file)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// NormalizeDegrees returns a copy of nodes with InDegree/OutDegree
// recomputed from the edge list for every node that carries neither.
//
// Nodes that arrive with precomputed degrees keep them; the extractor
// may count connections the snapshot does not include.
func NormalizeDegrees(nodes []Node, edges []Edge) []Node {
	inDeg := make(map[string]int, len(nodes))
	outDeg := make(map[string]int, len(nodes))
	for _, e := range edges {
		outDeg[e.Source]++
		inDeg[e.Target]++
	}

	result := make([]Node, len(nodes))
	copy(result, nodes)
	for i := range result {
		if result[i].InDegree == 0 && result[i].OutDegree == 0 {
			result[i].InDegree = inDeg[result[i].ID]
			result[i].OutDegree = outDeg[result[i].ID]
		}
	}
	return result
}
