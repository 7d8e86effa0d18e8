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

import "strings"

// NodeFilter restricts which nodes are considered visible.
//
// A node passes iff it satisfies every present constraint (logical AND).
// Empty or absent sets are unconstrained. Degree bounds apply to
// InDegree+OutDegree and are evaluated literally: MinConnections >
// MaxConnections simply matches nothing, which is a valid outcome.
type NodeFilter struct {
	// Categories restricts to nodes whose Category is in the set.
	Categories []string `json:"categories,omitempty"`

	// FileExtensions restricts to nodes whose file extension (lowercased,
	// without dot) is in the set.
	FileExtensions []string `json:"fileExtensions,omitempty"`

	// Directories restricts to nodes whose file path lies under one of
	// the listed directories (path-prefix match).
	Directories []string `json:"directories,omitempty"`

	// MinConnections and MaxConnections bound InDegree+OutDegree.
	// Nil means unbounded on that side.
	MinConnections *int `json:"minConnections,omitempty"`
	MaxConnections *int `json:"maxConnections,omitempty"`
}

// IsEmpty reports whether the filter has no constraints at all.
func (f *NodeFilter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return len(f.Categories) == 0 &&
		len(f.FileExtensions) == 0 &&
		len(f.Directories) == 0 &&
		f.MinConnections == nil &&
		f.MaxConnections == nil
}

// Matches reports whether the node satisfies every present constraint.
//
// A nil filter matches everything. A nil node matches nothing.
func (f *NodeFilter) Matches(n *Node) bool {
	if n == nil {
		return false
	}
	if f.IsEmpty() {
		return true
	}

	if len(f.Categories) > 0 && !containsFold(f.Categories, n.Category) {
		return false
	}

	if len(f.FileExtensions) > 0 {
		ext := FileExt(n.File)
		if ext == "" || !containsFold(f.FileExtensions, ext) {
			return false
		}
	}

	if len(f.Directories) > 0 && !underAnyDirectory(f.Directories, n.File) {
		return false
	}

	if f.MinConnections != nil && n.Connections() < *f.MinConnections {
		return false
	}
	if f.MaxConnections != nil && n.Connections() > *f.MaxConnections {
		return false
	}

	return true
}

// containsFold reports whether set contains value, case-insensitively.
func containsFold(set []string, value string) bool {
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

// underAnyDirectory reports whether file lies under one of the listed
// directories. A directory entry matches the directory itself and any
// path beneath it; it never matches a sibling sharing the same prefix
// (e.g. "src/app" does not match "src/application/x.go").
func underAnyDirectory(dirs []string, file string) bool {
	if file == "" {
		return false
	}
	for _, dir := range dirs {
		d := strings.TrimSuffix(dir, "/")
		if d == "" {
			continue
		}
		if strings.HasPrefix(file, d+"/") || FileDir(file) == d {
			return true
		}
	}
	return false
}
