// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search provides fuzzy scoring primitives and the per-query
// search engine over a graph snapshot.
//
// Scoring is purely textual: a tiered cascade of exact, substring, and
// prefix heuristics with a normalized edit-distance fallback. There is
// no semantic understanding of the matched code.
package search

import "strings"

// Range is a half-open character span [Start, End) into a matched string.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Score returns a similarity score in [0, 1] between query and target.
//
// Description:
//
//	The cascade is evaluated in priority order; once a tier matches,
//	lower tiers are skipped, so exact, substring, and prefix matches
//	always outrank pure edit-distance matches regardless of distance:
//
//	  equal (case-insensitive)    -> 1.0
//	  target contains query       -> 0.8 + 0.2 * |q|/|t|
//	  target starts with query    -> 0.7 + 0.2 * |q|/|t|
//	  otherwise                   -> max(0, 1 - d/max(|q|,|t|) - 0.1)
//
//	where d is the Levenshtein distance. Comparison is case-insensitive
//	throughout. Either string empty scores 0.
func Score(query, target string) float64 {
	q := strings.ToLower(query)
	t := strings.ToLower(target)

	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 1.0
	}
	ratio := float64(len(q)) / float64(len(t))
	if strings.Contains(t, q) {
		return 0.8 + 0.2*ratio
	}
	if strings.HasPrefix(t, q) {
		return 0.7 + 0.2*ratio
	}

	longest := len(q)
	if len(t) > longest {
		longest = len(t)
	}
	d := levenshteinDistance(q, t)
	score := 1.0 - float64(d)/float64(longest) - 0.1
	if score < 0 {
		return 0
	}
	return score
}

// MatchRanges reconstructs approximate highlight spans of query inside
// target.
//
// Description:
//
//	Greedy left-to-right alignment: walks both strings in lockstep,
//	consuming a query character whenever it matches the current target
//	character, and records maximal runs of equality as ranges in target
//	coordinates. It is a best-effort highlighter, not a true longest
//	common subsequence; heavily transposed matches under-highlight.
//	That is acceptable because ranges feed visual emphasis only, never
//	ranking.
//
// Outputs:
//
//	[]Range - Half-open spans into target. Empty when nothing aligns.
func MatchRanges(query, target string) []Range {
	q := strings.ToLower(query)
	t := strings.ToLower(target)

	ranges := make([]Range, 0)
	if q == "" || t == "" {
		return ranges
	}

	start := -1
	qi := 0
	ti := 0
	for ; ti < len(t) && qi < len(q); ti++ {
		if t[ti] == q[qi] {
			if start < 0 {
				start = ti
			}
			qi++
			continue
		}
		if start >= 0 {
			ranges = append(ranges, Range{Start: start, End: ti})
			start = -1
		}
	}
	if start >= 0 {
		ranges = append(ranges, Range{Start: start, End: ti})
	}
	return ranges
}

// levenshteinDistance calculates the edit distance between two strings.
// This is a simple implementation for fuzzy matching.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Use two rows instead of full matrix for memory efficiency
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
