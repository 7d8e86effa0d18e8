// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package explore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/khoantd/GitVizz-sub001/services/explore/graph"
	"github.com/khoantd/GitVizz-sub001/services/explore/hierarchy"
	"github.com/khoantd/GitVizz-sub001/services/explore/search"
)

// ServiceVersion is the explore service version.
const ServiceVersion = "0.1.0"

// ServiceConfig configures service limits and defaults.
type ServiceConfig struct {
	// MaxNodes is the maximum snapshot node count. Default: 1,000,000.
	MaxNodes int

	// MaxEdges is the maximum snapshot edge count. Default: 10,000,000.
	MaxEdges int

	// DefaultHierarchyDepth is used when a request leaves depth unset.
	// Default: 3.
	DefaultHierarchyDepth int

	// MaxHierarchyDepth clamps requested depth. Default: 5, matching
	// the depth range the UI exposes.
	MaxHierarchyDepth int

	// MaxSearchResults clamps the per-request result cap. Default: 500.
	MaxSearchResults int

	// MaxSuggestions clamps the suggestion limit. Default: 50.
	MaxSuggestions int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxNodes:              graph.DefaultMaxNodes,
		MaxEdges:              graph.DefaultMaxEdges,
		DefaultHierarchyDepth: 3,
		MaxHierarchyDepth:     5,
		MaxSearchResults:      500,
		MaxSuggestions:        50,
	}
}

// snapshot bundles everything derived from one graph upload. Replaced
// wholesale on each load; individual fields are never mutated after
// construction, so a snapshot can be read without holding the lock.
type snapshot struct {
	index    *graph.Index
	engine   *search.Engine
	builder  *hierarchy.Builder
	facets   search.Facets
	loadedAt time.Time
}

// Service is the graph exploration service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. The snapshot pointer is guarded
//	by a RWMutex; everything behind it is immutable.
type Service struct {
	config ServiceConfig

	mu   sync.RWMutex
	snap *snapshot
}

// NewService creates a service with the given configuration.
func NewService(config ServiceConfig) *Service {
	return &Service{config: config}
}

// LoadGraph replaces the current snapshot with a new graph.
//
// Description:
//
//	Validates the snapshot (unique node ids, resolvable edge endpoints)
//	and builds the adjacency index and search engine concurrently. The
//	previous snapshot stays active until the new one is fully built, so
//	readers never observe a half-loaded state.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	nodes, edges - The graph snapshot.
//
// Outputs:
//
//	GraphStats - Sizes and load timestamp of the new snapshot.
//	error - Non-nil on structural violations (graph.ErrDuplicateNode,
//	        graph.ErrEdgeEndpointMissing) or capacity overflow.
func (s *Service) LoadGraph(ctx context.Context, nodes []graph.Node, edges []graph.Edge) (GraphStats, error) {
	normalized := graph.NormalizeDegrees(nodes, edges)

	var (
		index  *graph.Index
		engine *search.Engine
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		index, err = graph.NewIndex(normalized, edges,
			graph.WithMaxNodes(s.config.MaxNodes),
			graph.WithMaxEdges(s.config.MaxEdges),
		)
		return err
	})
	g.Go(func() error {
		engine = search.NewEngine(normalized)
		return nil
	})
	if err := g.Wait(); err != nil {
		recordGraphLoad(ctx, false)
		return GraphStats{}, fmt.Errorf("load graph: %w", err)
	}
	recordGraphLoad(ctx, true)

	snap := &snapshot{
		index:    index,
		engine:   engine,
		builder:  hierarchy.NewBuilder(index),
		facets:   engine.AvailableFilters(),
		loadedAt: time.Now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	return GraphStats{
		NodeCount:     index.NodeCount(),
		EdgeCount:     index.EdgeCount(),
		LoadedAtMilli: snap.loadedAt.UnixMilli(),
	}, nil
}

// Hierarchy builds the hierarchy tree for a root selection.
//
// Depth semantics: non-positive maxDepth uses the configured default;
// values above the configured maximum are clamped. An unknown root
// yields an empty tree, not an error.
func (s *Service) Hierarchy(ctx context.Context, rootID string, maxDepth int, filter *graph.NodeFilter) (*hierarchy.Tree, error) {
	if rootID == "" {
		return nil, ErrRootRequired
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	if maxDepth <= 0 {
		maxDepth = s.config.DefaultHierarchyDepth
	}
	if maxDepth > s.config.MaxHierarchyDepth {
		maxDepth = s.config.MaxHierarchyDepth
	}

	return snap.builder.Build(ctx, rootID, maxDepth, filter)
}

// Search runs one fuzzy search over the current snapshot.
func (s *Service) Search(ctx context.Context, req search.Request) ([]search.Result, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if req.MaxResults > s.config.MaxSearchResults {
		req.MaxResults = s.config.MaxSearchResults
	}
	start := time.Now()
	results, err := snap.engine.Search(ctx, req)
	recordSearchMetrics(ctx, time.Since(start), len(results), err != nil)
	return results, err
}

// Suggestions returns substring completions for a partial query.
func (s *Service) Suggestions(query string, limit int) ([]string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > s.config.MaxSuggestions {
		limit = s.config.MaxSuggestions
	}
	return snap.engine.Suggestions(query, limit), nil
}

// Facets returns the filter options present in the current snapshot.
func (s *Service) Facets() (search.Facets, error) {
	snap, err := s.snapshot()
	if err != nil {
		return search.Facets{}, err
	}
	return snap.facets, nil
}

// Lookup returns exact-term matches from the inverted index.
func (s *Service) Lookup(term string) ([]graph.Node, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.engine.Lookup(term), nil
}

// ApplyTreeOp applies one pure tree operation for the tree-ops endpoint.
//
// Operations never consult the graph; they transform the value the
// client holds. Unknown node ids inside an op are no-ops by design.
func (s *Service) ApplyTreeOp(req TreeOpRequest) (TreeOpResponse, error) {
	if req.Tree == nil {
		return TreeOpResponse{}, ErrTreeRequired
	}

	switch req.Op {
	case OpToggle:
		tree := hierarchy.Toggle(req.Tree, req.NodeID)
		return TreeOpResponse{Tree: tree, Stats: hierarchy.TreeStats(tree)}, nil
	case OpExpandAll:
		tree := hierarchy.ExpandAll(req.Tree)
		return TreeOpResponse{Tree: tree, Stats: hierarchy.TreeStats(tree)}, nil
	case OpCollapseAll:
		tree := hierarchy.CollapseAll(req.Tree)
		return TreeOpResponse{Tree: tree, Stats: hierarchy.TreeStats(tree)}, nil
	case OpExpandToDepth:
		tree := hierarchy.ExpandToDepth(req.Tree, req.Depth)
		return TreeOpResponse{Tree: tree, Stats: hierarchy.TreeStats(tree)}, nil
	case OpVisible:
		return TreeOpResponse{
			Visible: hierarchy.VisibleNodes(req.Tree),
			Stats:   hierarchy.TreeStats(req.Tree),
		}, nil
	default:
		return TreeOpResponse{}, fmt.Errorf("%w: %q", ErrUnknownTreeOp, req.Op)
	}
}

// Stats returns sizes of the currently loaded snapshot.
func (s *Service) Stats() (GraphStats, error) {
	snap, err := s.snapshot()
	if err != nil {
		return GraphStats{}, err
	}
	return GraphStats{
		NodeCount:     snap.index.NodeCount(),
		EdgeCount:     snap.index.EdgeCount(),
		LoadedAtMilli: snap.loadedAt.UnixMilli(),
	}, nil
}

// GraphLoaded reports whether a snapshot is available.
func (s *Service) GraphLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// snapshot returns the current snapshot or ErrGraphNotLoaded.
func (s *Service) snapshot() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrGraphNotLoaded
	}
	return s.snap, nil
}
