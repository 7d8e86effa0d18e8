// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/khoantd/GitVizz-sub001/services/explore/graph"
)

// Default configuration values.
const (
	// DefaultMaxResults is the default result cap for Search.
	DefaultMaxResults = 50

	// DefaultThreshold is the default minimum qualifying field score.
	DefaultThreshold = 0.2

	// codeScanLimit is how much of a node's code snippet is scored.
	codeScanLimit = 200

	// codeIndexLimit is how much of a node's code snippet is keyed into
	// the exact-term index.
	codeIndexLimit = 100

	// searchCheckInterval is how often Search checks for context
	// cancellation.
	searchCheckInterval = 1000
)

// Field weights for multi-field score fusion. Name matches are the
// primary use case and get boosted above 1.0; the final result score is
// clamped back into [0, 1].
const (
	weightName     = 1.2
	weightFile     = 1.0
	weightCategory = 0.8
	weightCode     = 0.6
)

// Matched field names as they appear in Result.MatchedFields.
const (
	FieldName     = "name"
	FieldFile     = "file"
	FieldCategory = "category"
	FieldCode     = "code"
)

// Request describes one search invocation.
type Request struct {
	// Query is the free-text query. May be empty when Filters are set.
	Query string `json:"query"`

	// Filters optionally restrict results with NodeFilter semantics.
	Filters *graph.NodeFilter `json:"filters,omitempty"`

	// MaxResults caps the result list. Non-positive uses the default (50).
	MaxResults int `json:"maxResults,omitempty"`

	// Threshold is the minimum qualifying weighted field score.
	// Non-positive uses the default (0.2).
	Threshold float64 `json:"threshold,omitempty"`
}

// HighlightRange locates a matched span inside one field of a result.
type HighlightRange struct {
	Field string `json:"field"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Result is one ranked search hit.
type Result struct {
	// Node is the matched graph node.
	Node graph.Node `json:"node"`

	// Score is the best weighted field score, clamped to [0, 1].
	Score float64 `json:"score"`

	// MatchedFields lists the fields that qualified, in field order.
	MatchedFields []string `json:"matchedFields"`

	// HighlightRanges holds best-effort highlight spans per matched field.
	HighlightRanges []HighlightRange `json:"highlightRanges"`
}

// Facets are the distinct filter options present in the node set, used
// to populate filter-chip UI. Not involved in scoring.
type Facets struct {
	Categories     []string `json:"categories"`
	FileExtensions []string `json:"fileExtensions"`
	Directories    []string `json:"directories"`
}

// Engine scores free-text queries against every node of one snapshot.
//
// The scored Search path is a single linear pass over the node set; no
// index is consulted for scoring. An exact-term inverted index is built
// once at construction and backs Lookup only. That asymmetry mirrors
// the behavior this engine replaces and is deliberate: the rescan keeps
// ranking exhaustive, the index serves exact-id style lookups.
//
// Thread Safety:
//
//	Engine is immutable after NewEngine returns and safe for concurrent
//	use. A changed snapshot requires a new engine.
type Engine struct {
	// nodes holds the snapshot in source order. Scan order is ranking
	// tie-break order, so this must stay stable.
	nodes []graph.Node

	// exact maps lowercased exact terms (name, file path, filename,
	// category, code prefix) to the nodes carrying them.
	exact map[string][]*graph.Node
}

// NewEngine builds a search engine over a node snapshot.
//
// The slice is copied; the caller may reuse it. Nodes should carry
// normalized degree counts (see graph.NormalizeDegrees) for degree
// bounds in post-filtering to be meaningful.
func NewEngine(nodes []graph.Node) *Engine {
	e := &Engine{
		nodes: make([]graph.Node, len(nodes)),
		exact: make(map[string][]*graph.Node, len(nodes)*4),
	}
	copy(e.nodes, nodes)

	for i := range e.nodes {
		node := &e.nodes[i]
		e.indexTerm(node.Name, node)
		e.indexTerm(node.File, node)
		if node.File != "" {
			e.indexTerm(path.Base(node.File), node)
		}
		e.indexTerm(node.Category, node)
		e.indexTerm(prefix(node.Code, codeIndexLimit), node)
	}
	return e
}

// indexTerm records one exact lookup key for a node.
func (e *Engine) indexTerm(term string, node *graph.Node) {
	if term == "" {
		return
	}
	key := strings.ToLower(term)
	e.exact[key] = append(e.exact[key], node)
}

// Search returns ranked results for one query.
//
// Description:
//
//	An empty query with filters returns filter-only matches scored 1.0
//	with MatchedFields=[category]. An empty query without filters
//	returns an empty list. Otherwise every node is scored across up to
//	four fields (name x1.2, file x1.0, category x0.8, 200-char code
//	prefix x0.6); a node qualifies when its best weighted field score
//	exceeds the threshold. Results are sorted descending by score with
//	scan order as the stable tie-break, post-filtered with NodeFilter
//	semantics, and truncated to MaxResults.
//
// Inputs:
//
//	ctx - Context for cancellation (checked every 1000 nodes).
//	req - The search request. Zero-value knobs use defaults.
//
// Outputs:
//
//	[]Result - Ranked hits. Empty, never nil, when nothing matches.
//	error - Non-nil only when the context was cancelled.
//
// Thread Safety:
//
//	Safe for concurrent use.
func (e *Engine) Search(ctx context.Context, req Request) ([]Result, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		if req.Filters.IsEmpty() {
			return []Result{}, nil
		}
		return e.filterOnly(req.Filters, maxResults), nil
	}

	results := make([]Result, 0)
	for i := range e.nodes {
		if (i+1)%searchCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		node := &e.nodes[i]
		if r, ok := e.scoreNode(query, node, threshold); ok {
			results = append(results, r)
		}
	}

	// Stable: scan order breaks ties deterministically.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if !req.Filters.IsEmpty() {
		kept := results[:0]
		for _, r := range results {
			if req.Filters.Matches(&r.Node) {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// scoreNode computes the multi-field score for one node.
func (e *Engine) scoreNode(query string, node *graph.Node, threshold float64) (Result, bool) {
	fields := [4]struct {
		name   string
		text   string
		weight float64
	}{
		{FieldName, node.Name, weightName},
		{FieldFile, node.File, weightFile},
		{FieldCategory, node.Category, weightCategory},
		{FieldCode, prefix(node.Code, codeScanLimit), weightCode},
	}

	var (
		best    float64
		matched []string
		ranges  []HighlightRange
	)

	for _, f := range fields {
		if f.text == "" {
			continue
		}
		score := Score(query, f.text) * f.weight
		if score <= threshold {
			continue
		}
		matched = append(matched, f.name)
		for _, r := range MatchRanges(query, f.text) {
			ranges = append(ranges, HighlightRange{Field: f.name, Start: r.Start, End: r.End})
		}
		if score > best {
			best = score
		}
	}

	if len(matched) == 0 {
		return Result{}, false
	}
	if best > 1.0 {
		best = 1.0
	}
	return Result{
		Node:            *node,
		Score:           best,
		MatchedFields:   matched,
		HighlightRanges: ranges,
	}, true
}

// filterOnly returns nodes passing the filter, each scored 1.0.
func (e *Engine) filterOnly(filter *graph.NodeFilter, maxResults int) []Result {
	results := make([]Result, 0)
	for i := range e.nodes {
		node := &e.nodes[i]
		if !filter.Matches(node) {
			continue
		}
		results = append(results, Result{
			Node:            *node,
			Score:           1.0,
			MatchedFields:   []string{FieldCategory},
			HighlightRanges: []HighlightRange{},
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results
}

// Suggestions returns unique substring matches against node names,
// filenames, and categories (never code), capped at limit, in
// first-encountered order.
func (e *Engine) Suggestions(query string, limit int) []string {
	suggestions := make([]string, 0)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return suggestions
	}

	seen := make(map[string]bool)
	add := func(candidate string) bool {
		if candidate == "" || seen[candidate] {
			return false
		}
		if !strings.Contains(strings.ToLower(candidate), q) {
			return false
		}
		seen[candidate] = true
		suggestions = append(suggestions, candidate)
		return len(suggestions) >= limit
	}

	for i := range e.nodes {
		node := &e.nodes[i]
		if add(node.Name) {
			break
		}
		if node.File != "" && add(path.Base(node.File)) {
			break
		}
		if add(node.Category) {
			break
		}
	}
	return suggestions
}

// AvailableFilters collects the distinct categories, file extensions,
// and directories present in the node set, sorted for stable chip order.
func (e *Engine) AvailableFilters() Facets {
	categories := make(map[string]bool)
	extensions := make(map[string]bool)
	directories := make(map[string]bool)

	for i := range e.nodes {
		node := &e.nodes[i]
		if node.Category != "" {
			categories[node.Category] = true
		}
		if ext := graph.FileExt(node.File); ext != "" {
			extensions[ext] = true
		}
		if dir := graph.FileDir(node.File); dir != "" {
			directories[dir] = true
		}
	}

	return Facets{
		Categories:     sortedKeys(categories),
		FileExtensions: sortedKeys(extensions),
		Directories:    sortedKeys(directories),
	}
}

// Lookup returns the nodes carrying term as an exact (case-insensitive)
// name, file path, filename, category, or code prefix.
//
// This is the exact-match fast path over the inverted index; the scored
// Search path never consults it.
func (e *Engine) Lookup(term string) []graph.Node {
	key := strings.ToLower(strings.TrimSpace(term))
	matches := e.exact[key]
	result := make([]graph.Node, 0, len(matches))
	for _, n := range matches {
		result = append(result, *n)
	}
	return result
}

// NodeCount returns the number of nodes the engine scans per query.
func (e *Engine) NodeCount() int {
	return len(e.nodes)
}

// prefix returns the first n bytes of s.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sortedKeys returns map keys in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
