// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package explore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoantd/GitVizz-sub001/services/explore/graph"
	"github.com/khoantd/GitVizz-sub001/services/explore/hierarchy"
	"github.com/khoantd/GitVizz-sub001/services/explore/search"
)

// =============================================================================
// Test Fixtures
// =============================================================================

func testSnapshot() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "main", Name: "main", Category: "function", File: "src/main.py"},
		{ID: "fetchUser", Name: "fetchUser", Category: "function", File: "src/api/user.py"},
		{ID: "User", Name: "User", Category: "class", File: "src/models/user.py"},
	}
	edges := []graph.Edge{
		{Source: "main", Target: "fetchUser", Relationship: "calls"},
		{Source: "fetchUser", Target: "User", Relationship: "references"},
	}
	return nodes, edges
}

func loadedService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(DefaultServiceConfig())
	nodes, edges := testSnapshot()
	_, err := svc.LoadGraph(context.Background(), nodes, edges)
	require.NoError(t, err)
	return svc
}

// =============================================================================
// LoadGraph
// =============================================================================

func TestService_LoadGraph(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	nodes, edges := testSnapshot()

	stats, err := svc.LoadGraph(context.Background(), nodes, edges)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.True(t, svc.GraphLoaded())
}

func TestService_LoadGraph_StructuralError(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	nodes := []graph.Node{{ID: "a", Name: "A", Category: "function"}}
	edges := []graph.Edge{{Source: "a", Target: "ghost", Relationship: "calls"}}

	_, err := svc.LoadGraph(context.Background(), nodes, edges)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrEdgeEndpointMissing)
	assert.False(t, svc.GraphLoaded(), "failed load must not install a snapshot")
}

func TestService_LoadGraph_KeepsPreviousOnFailure(t *testing.T) {
	svc := loadedService(t)

	bad := []graph.Node{{ID: "a", Name: "A", Category: "function"}, {ID: "a", Name: "dup", Category: "function"}}
	_, err := svc.LoadGraph(context.Background(), bad, nil)
	require.Error(t, err)

	// The earlier snapshot stays queryable.
	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.NodeCount)
}

func TestService_NotLoaded(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	_, err := svc.Stats()
	assert.ErrorIs(t, err, ErrGraphNotLoaded)

	_, err = svc.Hierarchy(context.Background(), "main", 3, nil)
	assert.ErrorIs(t, err, ErrGraphNotLoaded)

	_, err = svc.Search(context.Background(), search.Request{Query: "x"})
	assert.ErrorIs(t, err, ErrGraphNotLoaded)

	_, err = svc.Suggestions("x", 5)
	assert.ErrorIs(t, err, ErrGraphNotLoaded)
}

// =============================================================================
// Hierarchy
// =============================================================================

func TestService_Hierarchy(t *testing.T) {
	svc := loadedService(t)

	tree, err := svc.Hierarchy(context.Background(), "main", 3, nil)
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
	assert.Equal(t, 3, tree.TotalNodes)
}

func TestService_Hierarchy_EmptyRoot(t *testing.T) {
	svc := loadedService(t)

	_, err := svc.Hierarchy(context.Background(), "", 3, nil)
	assert.ErrorIs(t, err, ErrRootRequired)
}

func TestService_Hierarchy_DepthDefaultsAndClamp(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.DefaultHierarchyDepth = 1
	cfg.MaxHierarchyDepth = 1
	svc := NewService(cfg)
	nodes, edges := testSnapshot()
	_, err := svc.LoadGraph(context.Background(), nodes, edges)
	require.NoError(t, err)

	// Unset depth uses the default; oversized requests clamp to the max.
	for _, depth := range []int{0, 99} {
		tree, err := svc.Hierarchy(context.Background(), "main", depth, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, tree.MaxDepth, "depth %d should resolve to 1", depth)
		assert.Equal(t, 2, tree.TotalNodes)
	}
}

func TestService_Hierarchy_UnknownRootSoftMiss(t *testing.T) {
	svc := loadedService(t)

	tree, err := svc.Hierarchy(context.Background(), "ghost", 3, nil)
	require.NoError(t, err)
	assert.Nil(t, tree.Root)
	assert.Equal(t, 0, tree.TotalNodes)
}

// =============================================================================
// Search / Suggestions / Facets / Lookup
// =============================================================================

func TestService_Search(t *testing.T) {
	svc := loadedService(t)

	results, err := svc.Search(context.Background(), search.Request{Query: "fetchUser"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "fetchUser", results[0].Node.ID)
}

func TestService_Search_MaxResultsClamped(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.MaxSearchResults = 1
	svc := NewService(cfg)
	nodes, edges := testSnapshot()
	_, err := svc.LoadGraph(context.Background(), nodes, edges)
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), search.Request{
		Query:      "fetchUser",
		MaxResults: 100,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestService_Suggestions(t *testing.T) {
	svc := loadedService(t)

	got, err := svc.Suggestions("fetch", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"fetchUser"}, got)
}

func TestService_Facets(t *testing.T) {
	svc := loadedService(t)

	facets, err := svc.Facets()
	require.NoError(t, err)
	assert.Equal(t, []string{"class", "function"}, facets.Categories)
}

func TestService_Lookup(t *testing.T) {
	svc := loadedService(t)

	nodes, err := svc.Lookup("user")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "User", nodes[0].ID)
}

// =============================================================================
// Tree Operations
// =============================================================================

func TestService_ApplyTreeOp(t *testing.T) {
	svc := loadedService(t)

	tree, err := svc.Hierarchy(context.Background(), "main", 3, nil)
	require.NoError(t, err)

	resp, err := svc.ApplyTreeOp(TreeOpRequest{Op: OpExpandAll, Tree: tree})
	require.NoError(t, err)
	require.NotNil(t, resp.Tree)
	assert.Equal(t, tree.TotalNodes, resp.Stats.TotalNodes)

	visible, err := svc.ApplyTreeOp(TreeOpRequest{Op: OpVisible, Tree: resp.Tree})
	require.NoError(t, err)
	assert.Len(t, visible.Visible, tree.TotalNodes)
}

func TestService_ApplyTreeOp_UnknownOp(t *testing.T) {
	svc := loadedService(t)

	_, err := svc.ApplyTreeOp(TreeOpRequest{Op: "explode", Tree: &hierarchy.Tree{}})
	assert.ErrorIs(t, err, ErrUnknownTreeOp)
}

func TestService_ApplyTreeOp_MissingTree(t *testing.T) {
	svc := loadedService(t)

	_, err := svc.ApplyTreeOp(TreeOpRequest{Op: OpToggle, NodeID: "main"})
	assert.ErrorIs(t, err, ErrTreeRequired)
}
