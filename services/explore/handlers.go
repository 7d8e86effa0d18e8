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
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoantd/GitVizz-sub001/services/explore/graph"
	"github.com/khoantd/GitVizz-sub001/services/explore/search"
)

// Handlers contains the HTTP handlers for the explore service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleLoadGraph handles POST /v1/explore/graph.
//
// Description:
//
//	Uploads a graph snapshot, replacing any previously loaded graph.
//	The snapshot is validated (unique node ids, resolvable edge
//	endpoints) before it becomes visible to readers.
//
// Request Body:
//
//	GraphPayload
//
// Response:
//
//	200 OK: GraphStats
//	400 Bad Request: Validation or structural error
func (h *Handlers) HandleLoadGraph(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleLoadGraph")

	var payload GraphPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	logger.Info("Loading graph", "nodes", len(payload.Nodes), "edges", len(payload.Edges))

	stats, err := h.svc.LoadGraph(c.Request.Context(), payload.Nodes, payload.Edges)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "LOAD_FAILED"

		if errors.Is(err, graph.ErrDuplicateNode) {
			statusCode = http.StatusBadRequest
			errCode = "DUPLICATE_NODE"
		} else if errors.Is(err, graph.ErrEdgeEndpointMissing) {
			statusCode = http.StatusBadRequest
			errCode = "DANGLING_EDGE"
		} else if errors.Is(err, graph.ErrMaxNodesExceeded) {
			statusCode = http.StatusBadRequest
			errCode = "TOO_MANY_NODES"
		} else if errors.Is(err, graph.ErrMaxEdgesExceeded) {
			statusCode = http.StatusBadRequest
			errCode = "TOO_MANY_EDGES"
		}

		logger.Error("Graph load failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Graph loaded", "nodes", stats.NodeCount, "edges", stats.EdgeCount)

	c.JSON(http.StatusOK, stats)
}

// HandleGraphStats handles GET /v1/explore/graph/stats.
//
// Response:
//
//	200 OK: GraphStats
//	409 Conflict: No graph loaded
func (h *Handlers) HandleGraphStats(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGraphStats")

	stats, err := h.svc.Stats()
	if err != nil {
		logger.Warn("Stats unavailable", "error", err)
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "GRAPH_NOT_LOADED",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HandleHierarchy handles POST /v1/explore/hierarchy.
//
// Description:
//
//	Builds a hierarchy tree for the requested root. Unknown root ids
//	yield an empty tree with a 200 status; only structural problems
//	(missing graph, missing root id) are errors.
//
// Request Body:
//
//	HierarchyRequest
//
// Response:
//
//	200 OK: hierarchy.Tree
//	400 Bad Request: Validation error
//	409 Conflict: No graph loaded
func (h *Handlers) HandleHierarchy(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleHierarchy")

	var req HierarchyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	tree, err := h.svc.Hierarchy(c.Request.Context(), req.RootID, req.MaxDepth, req.Filter)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "HIERARCHY_FAILED"

		if errors.Is(err, ErrRootRequired) {
			statusCode = http.StatusBadRequest
			errCode = "ROOT_REQUIRED"
		} else if errors.Is(err, ErrGraphNotLoaded) {
			statusCode = http.StatusConflict
			errCode = "GRAPH_NOT_LOADED"
		}

		logger.Error("Hierarchy build failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Hierarchy built",
		"root_id", req.RootID,
		"total_nodes", tree.TotalNodes,
		"truncated", tree.Truncated)

	c.JSON(http.StatusOK, tree)
}

// HandleTreeOp handles POST /v1/explore/hierarchy/ops.
//
// Description:
//
//	Applies one pure tree operation (toggle, expand_all, collapse_all,
//	expand_to_depth, visible) to a client-held tree and returns the
//	result. Never consults the graph.
//
// Request Body:
//
//	TreeOpRequest
//
// Response:
//
//	200 OK: TreeOpResponse
//	400 Bad Request: Validation error or unknown operation
func (h *Handlers) HandleTreeOp(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleTreeOp")

	var req TreeOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.ApplyTreeOp(req)
	if err != nil {
		errCode := "TREE_OP_FAILED"
		if errors.Is(err, ErrUnknownTreeOp) {
			errCode = "UNKNOWN_OP"
		} else if errors.Is(err, ErrTreeRequired) {
			errCode = "TREE_REQUIRED"
		}

		logger.Warn("Tree operation rejected", "op", req.Op, "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleSearch handles POST /v1/explore/search.
//
// Description:
//
//	Runs a fuzzy search over the loaded graph. An empty query with
//	filters enumerates matching nodes; an empty query without filters
//	returns no results.
//
// Request Body:
//
//	search.Request
//
// Response:
//
//	200 OK: []search.Result
//	400 Bad Request: Validation error
//	409 Conflict: No graph loaded
func (h *Handlers) HandleSearch(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSearch")

	var req search.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	results, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "SEARCH_FAILED"

		if errors.Is(err, ErrGraphNotLoaded) {
			statusCode = http.StatusConflict
			errCode = "GRAPH_NOT_LOADED"
		}

		logger.Error("Search failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Search completed", "query_len", len(req.Query), "results", len(results))

	c.JSON(http.StatusOK, results)
}

// HandleSuggestions handles GET /v1/explore/search/suggestions.
//
// Query Parameters:
//
//	q - Partial query (required)
//	limit - Maximum suggestions (optional, default 10)
//
// Response:
//
//	200 OK: SuggestionsResponse
//	400 Bad Request: Missing query
//	409 Conflict: No graph loaded
func (h *Handlers) HandleSuggestions(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSuggestions")

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Query parameter 'q' is required",
			Code:  "MISSING_QUERY",
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Query parameter 'limit' must be an integer",
				Code:  "INVALID_LIMIT",
			})
			return
		}
		limit = parsed
	}

	suggestions, err := h.svc.Suggestions(query, limit)
	if err != nil {
		logger.Warn("Suggestions unavailable", "error", err)
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "GRAPH_NOT_LOADED",
		})
		return
	}

	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// HandleFilters handles GET /v1/explore/search/filters.
//
// Response:
//
//	200 OK: search.Facets
//	409 Conflict: No graph loaded
func (h *Handlers) HandleFilters(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleFilters")

	facets, err := h.svc.Facets()
	if err != nil {
		logger.Warn("Filters unavailable", "error", err)
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "GRAPH_NOT_LOADED",
		})
		return
	}

	c.JSON(http.StatusOK, facets)
}

// HandleLookup handles GET /v1/explore/nodes/lookup.
//
// Description:
//
//	Exact-term lookup against the inverted index. Terms are matched
//	case-insensitively against node names, file basenames, and
//	categories.
//
// Query Parameters:
//
//	term - Exact term to look up (required)
//
// Response:
//
//	200 OK: LookupResponse
//	400 Bad Request: Missing term
//	409 Conflict: No graph loaded
func (h *Handlers) HandleLookup(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleLookup")

	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Query parameter 'term' is required",
			Code:  "MISSING_TERM",
		})
		return
	}

	nodes, err := h.svc.Lookup(term)
	if err != nil {
		logger.Warn("Lookup unavailable", "error", err)
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "GRAPH_NOT_LOADED",
		})
		return
	}

	c.JSON(http.StatusOK, LookupResponse{Nodes: nodes})
}

// HandleHealth handles GET /v1/explore/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     ServiceVersion,
		GraphLoaded: h.svc.GraphLoaded(),
	})
}

// HandleReady handles GET /v1/explore/ready.
//
// Description:
//
//	Readiness means a graph snapshot is loaded and queryable. Before
//	the first upload the service is healthy but not ready.
//
// Response:
//
//	200 OK: HealthResponse
//	503 Service Unavailable: No graph loaded
func (h *Handlers) HandleReady(c *gin.Context) {
	resp := HealthResponse{
		Status:      "ready",
		Version:     ServiceVersion,
		GraphLoaded: h.svc.GraphLoaded(),
	}
	if !resp.GraphLoaded {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getOrCreateRequestID extracts or generates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
