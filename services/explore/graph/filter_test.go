// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestNodeFilter_NilAndEmptyMatchEverything(t *testing.T) {
	node := &Node{ID: "a", Name: "A", Category: "function", File: "src/a.py"}

	var nilFilter *NodeFilter
	assert.True(t, nilFilter.Matches(node))
	assert.True(t, (&NodeFilter{}).Matches(node))
}

func TestNodeFilter_NilNodeMatchesNothing(t *testing.T) {
	assert.False(t, (&NodeFilter{}).Matches(nil))
}

func TestNodeFilter_Categories(t *testing.T) {
	f := &NodeFilter{Categories: []string{"function", "class"}}

	assert.True(t, f.Matches(&Node{ID: "a", Category: "function"}))
	assert.True(t, f.Matches(&Node{ID: "b", Category: "Class"}), "category match is case-insensitive")
	assert.False(t, f.Matches(&Node{ID: "c", Category: "variable"}))
}

func TestNodeFilter_FileExtensions(t *testing.T) {
	f := &NodeFilter{FileExtensions: []string{"py", "TS"}}

	assert.True(t, f.Matches(&Node{ID: "a", File: "src/app.py"}))
	assert.True(t, f.Matches(&Node{ID: "b", File: "src/App.ts"}))
	assert.False(t, f.Matches(&Node{ID: "c", File: "src/main.go"}))
	assert.False(t, f.Matches(&Node{ID: "d", File: "Makefile"}), "no extension never matches an extension constraint")
	assert.False(t, f.Matches(&Node{ID: "e"}), "no file never matches an extension constraint")
}

func TestNodeFilter_Directories(t *testing.T) {
	f := &NodeFilter{Directories: []string{"src/app"}}

	assert.True(t, f.Matches(&Node{ID: "a", File: "src/app/main.py"}))
	assert.True(t, f.Matches(&Node{ID: "b", File: "src/app/sub/util.py"}))
	assert.False(t, f.Matches(&Node{ID: "c", File: "src/application/main.py"}),
		"sibling directory sharing the prefix must not match")
	assert.False(t, f.Matches(&Node{ID: "d", File: "main.py"}))
}

func TestNodeFilter_DirectoryTrailingSlash(t *testing.T) {
	f := &NodeFilter{Directories: []string{"src/app/"}}
	assert.True(t, f.Matches(&Node{ID: "a", File: "src/app/main.py"}))
}

func TestNodeFilter_ConnectionBounds(t *testing.T) {
	f := &NodeFilter{MinConnections: intPtr(2), MaxConnections: intPtr(4)}

	assert.False(t, f.Matches(&Node{ID: "a", InDegree: 1}))
	assert.True(t, f.Matches(&Node{ID: "b", InDegree: 1, OutDegree: 1}))
	assert.True(t, f.Matches(&Node{ID: "c", InDegree: 2, OutDegree: 2}))
	assert.False(t, f.Matches(&Node{ID: "d", InDegree: 3, OutDegree: 2}))
}

func TestNodeFilter_InvertedBoundsMatchNothing(t *testing.T) {
	// Min > Max is evaluated literally, not rejected.
	f := &NodeFilter{MinConnections: intPtr(5), MaxConnections: intPtr(2)}

	assert.False(t, f.Matches(&Node{ID: "a", InDegree: 3}))
	assert.False(t, f.Matches(&Node{ID: "b", InDegree: 1}))
}

func TestNodeFilter_ConstraintsAreANDed(t *testing.T) {
	f := &NodeFilter{
		Categories:     []string{"function"},
		FileExtensions: []string{"py"},
	}

	assert.True(t, f.Matches(&Node{ID: "a", Category: "function", File: "a.py"}))
	assert.False(t, f.Matches(&Node{ID: "b", Category: "function", File: "a.go"}))
	assert.False(t, f.Matches(&Node{ID: "c", Category: "class", File: "a.py"}))
}

func TestNodeFilter_IsEmpty(t *testing.T) {
	var nilFilter *NodeFilter
	assert.True(t, nilFilter.IsEmpty())
	assert.True(t, (&NodeFilter{}).IsEmpty())
	assert.False(t, (&NodeFilter{Categories: []string{"function"}}).IsEmpty())
	assert.False(t, (&NodeFilter{MinConnections: intPtr(0)}).IsEmpty())
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, "py", FileExt("src/app.py"))
	assert.Equal(t, "ts", FileExt("src/App.TS"))
	assert.Equal(t, "", FileExt("Makefile"))
	assert.Equal(t, "", FileExt(""))
}

func TestFileDir(t *testing.T) {
	assert.Equal(t, "src/app", FileDir("src/app/main.py"))
	assert.Equal(t, "", FileDir("main.py"))
	assert.Equal(t, "", FileDir(""))
}
