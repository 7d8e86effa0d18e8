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

import (
	"context"
	"time"

	"github.com/khoantd/GitVizz-sub001/services/explore/graph"
)

// contextCheckInterval is how often the BFS checks for cancellation.
const contextCheckInterval = 100

// direction selects which edge direction a traversal pass follows.
type direction int

const (
	// directionOutgoing discovers nodes this entity points at (children).
	directionOutgoing direction = iota

	// directionIncoming discovers nodes pointing at this entity (parents).
	directionIncoming
)

// frontierEntry is one pending candidate in the BFS worklist.
//
// The remap accumulator is carried explicitly on the entry rather than
// in closure state: a candidate discovered through elided nodes arrives
// with the skipped ids collected along its branch, and with the nearest
// visible ancestor it will attach to if it passes the filter.
type frontierEntry struct {
	// id is the graph node under evaluation.
	id string

	// depth is the visible depth the node receives if materialized.
	// Elided hops do not advance it.
	depth int

	// parent is the nearest visible ancestor already materialized.
	parent *Node

	// relationship is the label of the edge this candidate was
	// discovered through.
	relationship string

	// skipped accumulates elided node ids between parent and this
	// candidate, in traversal order. Nil on unbroken branches.
	skipped []string
}

// Builder produces hierarchy trees from a frozen graph index.
type Builder struct {
	index *graph.Index
}

// NewBuilder creates a builder over the given index.
func NewBuilder(index *graph.Index) *Builder {
	return &Builder{index: index}
}

// Build decomposes the neighborhood of root into a hierarchy tree.
//
// Description:
//
//	Runs one bounded BFS per direction (outgoing, then incoming) over the
//	original graph. Both passes share a single visited set seeded with
//	the root, so cyclic graphs (including self-loops and mutual
//	recursion) terminate: a node is evaluated at most once per build. Nodes
//	failing the filter are elided; the BFS continues through them at the
//	same visible depth, charging depth only to nodes that materialize,
//	and emits a RemappedConnection once a passing node is reached.
//
// Inputs:
//
//	ctx - Context for cancellation (checked every 100 dequeues).
//	rootID - Graph node the hierarchy is centered on.
//	maxDepth - Visible depth bound. <= 0 yields a root-only tree.
//	filter - Active node filter. Nil or empty passes everything.
//
// Outputs:
//
//	*Tree - The tree. An unknown rootID yields an empty tree
//	        (TotalNodes=0, nil Root) rather than an error; the UI treats
//	        it as "no hierarchy available".
//	error - Reserved; currently always nil. Cancellation sets
//	        Tree.Truncated instead of failing.
//
// Complexity:
//
//	O(V + E) per direction within the depth bound.
func (b *Builder) Build(ctx context.Context, rootID string, maxDepth int, filter *graph.NodeFilter) (*Tree, error) {
	start := time.Now()
	ctx, span := startBuildSpan(ctx, rootID, maxDepth)
	defer span.End()

	tree := &Tree{
		RemappedConnections: []RemappedConnection{},
	}

	rootNode, ok := b.index.Node(rootID)
	if !ok {
		recordBuildMetrics(ctx, time.Since(start), 0, false)
		return tree, nil
	}

	root := newTreeNode(rootNode, "", 0)
	root.IsExpanded = true
	tree.Root = root

	// originalCount tracks every node reachable before filtering (root
	// plus each dequeued candidate) so FilterStats conservation holds:
	// FilteredOutNodes + TotalNodes == TotalOriginalNodes.
	totalNodes := 1
	originalCount := 1
	filteredOut := 0
	maxSeen := 0
	checkCounter := 0

	// One visited set per build, shared by both direction passes and
	// never shared across calls. This is what guarantees termination on
	// cycles and keeps each logical node to a single instance per tree:
	// a node already materialized as a child is not re-added as a parent.
	visited := map[string]bool{rootID: true}

	for _, dir := range []direction{directionOutgoing, directionIncoming} {
		if maxDepth <= 0 {
			break
		}

		queue := b.enqueueNeighbors(nil, rootID, dir, visited, frontierEntry{
			depth:  0,
			parent: root,
		})

		for len(queue) > 0 {
			checkCounter++
			if checkCounter%contextCheckInterval == 0 {
				if ctx.Err() != nil {
					tree.Truncated = true
					b.finalize(tree, totalNodes, maxSeen, originalCount, filteredOut)
					recordBuildMetrics(ctx, time.Since(start), totalNodes, true)
					return tree, nil
				}
			}

			entry := queue[0]
			queue = queue[1:]
			originalCount++

			node, found := b.index.Node(entry.id)
			if !found {
				continue
			}

			if filter.Matches(node) {
				child := newTreeNode(node, entry.relationship, entry.depth)
				b.attach(root, entry.parent, child, dir)

				if len(entry.skipped) > 0 {
					tree.RemappedConnections = append(tree.RemappedConnections, RemappedConnection{
						Source:       entry.parent.ID,
						Target:       entry.id,
						SkippedNodes: entry.skipped,
					})
				}

				totalNodes++
				if entry.depth > maxSeen {
					maxSeen = entry.depth
				}

				if entry.depth < maxDepth {
					queue = b.enqueueNeighbors(queue, entry.id, dir, visited, frontierEntry{
						depth:  entry.depth,
						parent: child,
					})
				}
			} else {
				filteredOut++

				// Elided: continue through its neighbors as direct
				// neighbors of the nearest visible ancestor, at the
				// same visible depth, with this id appended to the
				// branch accumulator.
				skipped := make([]string, 0, len(entry.skipped)+1)
				skipped = append(skipped, entry.skipped...)
				skipped = append(skipped, entry.id)

				queue = b.enqueueNeighbors(queue, entry.id, dir, visited, frontierEntry{
					depth:   entry.depth - 1,
					parent:  entry.parent,
					skipped: skipped,
				})
			}
		}
	}

	b.finalize(tree, totalNodes, maxSeen, originalCount, filteredOut)
	setBuildSpanResult(span, totalNodes, len(tree.RemappedConnections))
	recordBuildMetrics(ctx, time.Since(start), totalNodes, false)
	return tree, nil
}

// enqueueNeighbors appends the unvisited direction-neighbors of id to
// the queue, in edge-list order. The proto entry supplies the visible
// depth of the discovering node, the ancestor to attach to, and the
// accumulated skipped ids; each neighbor is enqueued at depth+1.
func (b *Builder) enqueueNeighbors(queue []frontierEntry, id string, dir direction, visited map[string]bool, proto frontierEntry) []frontierEntry {
	var edges []*graph.Edge
	if dir == directionOutgoing {
		edges = b.index.Outgoing(id)
	} else {
		edges = b.index.Incoming(id)
	}

	for _, e := range edges {
		neighbor := e.Target
		if dir == directionIncoming {
			neighbor = e.Source
		}
		if visited[neighbor] {
			continue
		}
		visited[neighbor] = true
		queue = append(queue, frontierEntry{
			id:           neighbor,
			depth:        proto.depth + 1,
			parent:       proto.parent,
			relationship: e.Relationship,
			skipped:      proto.skipped,
		})
	}
	return queue
}

// attach links a materialized node under its nearest visible ancestor.
// Incoming-direction neighbors of the root go to Parents; everything
// else goes to Children.
func (b *Builder) attach(root, parent, child *Node, dir direction) {
	if parent == root && dir == directionIncoming {
		root.Parents = append(root.Parents, child)
		return
	}
	parent.Children = append(parent.Children, child)
}

// finalize writes the computed counts into the tree.
func (b *Builder) finalize(tree *Tree, totalNodes, maxSeen, originalCount, filteredOut int) {
	tree.TotalNodes = totalNodes
	tree.MaxDepth = maxSeen
	tree.FilterStats = FilterStats{
		TotalOriginalNodes: originalCount,
		FilteredOutNodes:   filteredOut,
		RemappedConnections: len(tree.RemappedConnections),
	}
}

// newTreeNode materializes a path-specific tree node from a graph node.
func newTreeNode(n *graph.Node, relationship string, depth int) *Node {
	return &Node{
		ID:           n.ID,
		Name:         n.Name,
		Category:     n.Category,
		File:         n.File,
		Code:         n.Code,
		StartLine:    n.StartLine,
		Relationship: relationship,
		Depth:        depth,
		Children:     make([]*Node, 0),
	}
}
