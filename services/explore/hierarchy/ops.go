// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hierarchy

// Tree operations.
//
// All functions here are pure: they never re-run the BFS and they never
// alias the input tree. Mutating operations return a fresh deep copy so
// callers can keep prior trees for undo/redo-style UI state. An id with
// no matching node is a no-op, not an error; ids routinely disappear
// between rebuilds.

// Toggle flips IsExpanded on every node instance whose ID matches.
//
// The same logical node may appear in several branches; all instances
// flip together. A miss returns an unchanged copy.
func Toggle(tree *Tree, id string) *Tree {
	result := cloneTree(tree)
	forEachNode(result, func(n *Node) {
		if n.ID == id {
			n.IsExpanded = !n.IsExpanded
		}
	})
	return result
}

// ExpandAll returns a copy with IsExpanded set on every node.
func ExpandAll(tree *Tree) *Tree {
	result := cloneTree(tree)
	forEachNode(result, func(n *Node) {
		n.IsExpanded = true
	})
	return result
}

// CollapseAll returns a copy with IsExpanded cleared on every node.
func CollapseAll(tree *Tree) *Tree {
	result := cloneTree(tree)
	forEachNode(result, func(n *Node) {
		n.IsExpanded = false
	})
	return result
}

// ExpandToDepth returns a copy expanded down to the given visible depth:
// IsExpanded = (node.Depth < depth) on every node.
func ExpandToDepth(tree *Tree, depth int) *Tree {
	result := cloneTree(tree)
	forEachNode(result, func(n *Node) {
		n.IsExpanded = n.Depth < depth
	})
	return result
}

// VisibleNodes flattens the tree to the currently visible sequence in
// display order: each node first, then (while it is expanded) its
// parents section and its children, depth-first.
//
// The returned slice points into the given tree; callers treat it as
// read-only.
func VisibleNodes(tree *Tree) []*Node {
	if tree == nil || tree.Root == nil {
		return []*Node{}
	}

	result := make([]*Node, 0, tree.TotalNodes)
	var visit func(n *Node)
	visit = func(n *Node) {
		result = append(result, n)
		if !n.IsExpanded {
			return
		}
		for _, p := range n.Parents {
			visit(p)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(tree.Root)
	return result
}

// TreeStats counts nodes and the maximum depth in a single traversal.
func TreeStats(tree *Tree) Stats {
	var stats Stats
	forEachNode(tree, func(n *Node) {
		stats.TotalNodes++
		if n.Depth > stats.MaxDepth {
			stats.MaxDepth = n.Depth
		}
	})
	return stats
}

// forEachNode applies fn to every node in the tree, parents included.
func forEachNode(tree *Tree, fn func(*Node)) {
	if tree == nil || tree.Root == nil {
		return
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		fn(n)
		for _, p := range n.Parents {
			walk(p)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree.Root)
}

// cloneTree deep-copies a tree, including every node and remap entry.
func cloneTree(tree *Tree) *Tree {
	if tree == nil {
		return &Tree{RemappedConnections: []RemappedConnection{}}
	}

	result := &Tree{
		TotalNodes:          tree.TotalNodes,
		MaxDepth:            tree.MaxDepth,
		FilterStats:         tree.FilterStats,
		Truncated:           tree.Truncated,
		RemappedConnections: make([]RemappedConnection, 0, len(tree.RemappedConnections)),
	}
	for _, rc := range tree.RemappedConnections {
		skipped := make([]string, len(rc.SkippedNodes))
		copy(skipped, rc.SkippedNodes)
		result.RemappedConnections = append(result.RemappedConnections, RemappedConnection{
			Source:       rc.Source,
			Target:       rc.Target,
			SkippedNodes: skipped,
		})
	}
	result.Root = cloneNode(tree.Root)
	return result
}

// cloneNode deep-copies one node and its subtrees.
func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Children = make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		clone.Children = append(clone.Children, cloneNode(c))
	}
	if n.Parents != nil {
		clone.Parents = make([]*Node, 0, len(n.Parents))
		for _, p := range n.Parents {
			clone.Parents = append(clone.Parents, cloneNode(p))
		}
	}
	return &clone
}
