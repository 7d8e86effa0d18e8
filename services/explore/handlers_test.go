// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package explore

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoantd/GitVizz-sub001/services/explore/hierarchy"
	"github.com/khoantd/GitVizz-sub001/services/explore/search"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(svc *Service) *gin.Engine {
	router := gin.New()
	handlers := NewHandlers(svc)
	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

const testGraphJSON = `{
	"nodes": [
		{"id": "main", "name": "main", "category": "function", "file": "src/main.py"},
		{"id": "fetchUser", "name": "fetchUser", "category": "function", "file": "src/api/user.py"},
		{"id": "User", "name": "User", "category": "class", "file": "src/models/user.py"}
	],
	"edges": [
		{"source": "main", "target": "fetchUser", "relationship": "calls"},
		{"source": "fetchUser", "target": "User", "relationship": "references"}
	]
}`

func loadedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	w := doJSON(t, router, "POST", "/v1/explore/graph", testGraphJSON)
	require.Equal(t, http.StatusOK, w.Code)
	return router
}

// =============================================================================
// Graph Endpoints
// =============================================================================

func TestHandlers_LoadGraph(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doJSON(t, router, "POST", "/v1/explore/graph", testGraphJSON)
	require.Equal(t, http.StatusOK, w.Code)

	var stats GraphStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.NotZero(t, stats.LoadedAtMilli)
}

func TestHandlers_LoadGraph_InvalidBody(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doJSON(t, router, "POST", "/v1/explore/graph", `{"edges": []}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
}

func TestHandlers_LoadGraph_DanglingEdge(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	body := `{"nodes": [{"id": "a", "name": "A", "category": "function"}],
		"edges": [{"source": "a", "target": "ghost", "relationship": "calls"}]}`
	w := doJSON(t, router, "POST", "/v1/explore/graph", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DANGLING_EDGE", decodeError(t, w).Code)
}

func TestHandlers_GraphStats_NotLoaded(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doJSON(t, router, "GET", "/v1/explore/graph/stats", "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GRAPH_NOT_LOADED", decodeError(t, w).Code)
}

// =============================================================================
// Hierarchy Endpoints
// =============================================================================

func TestHandlers_Hierarchy(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "POST", "/v1/explore/hierarchy", `{"rootId": "main", "maxDepth": 3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var tree hierarchy.Tree
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	assert.Equal(t, 3, tree.TotalNodes)
	require.NotNil(t, tree.Root)
	assert.Equal(t, "main", tree.Root.ID)
}

func TestHandlers_Hierarchy_MissingRoot(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "POST", "/v1/explore/hierarchy", `{"maxDepth": 3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
}

func TestHandlers_Hierarchy_NotLoaded(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doJSON(t, router, "POST", "/v1/explore/hierarchy", `{"rootId": "main"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GRAPH_NOT_LOADED", decodeError(t, w).Code)
}

func TestHandlers_TreeOp(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "POST", "/v1/explore/hierarchy", `{"rootId": "main", "maxDepth": 3}`)
	require.Equal(t, http.StatusOK, w.Code)

	opBody := `{"op": "expand_all", "tree": ` + w.Body.String() + `}`
	w = doJSON(t, router, "POST", "/v1/explore/hierarchy/ops", opBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TreeOpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Tree)
	assert.Equal(t, 3, resp.Stats.TotalNodes)
}

func TestHandlers_TreeOp_UnknownOp(t *testing.T) {
	router := loadedRouter(t)

	body := `{"op": "explode", "tree": {"totalNodes": 0}}`
	w := doJSON(t, router, "POST", "/v1/explore/hierarchy/ops", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_OP", decodeError(t, w).Code)
}

// =============================================================================
// Search Endpoints
// =============================================================================

func TestHandlers_Search(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "POST", "/v1/explore/search", `{"query": "fetchUser"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var results []search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "fetchUser", results[0].Node.ID)
}

func TestHandlers_Search_NotLoaded(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doJSON(t, router, "POST", "/v1/explore/search", `{"query": "x"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GRAPH_NOT_LOADED", decodeError(t, w).Code)
}

func TestHandlers_Suggestions(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "GET", "/v1/explore/search/suggestions?q=fetch", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SuggestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"fetchUser"}, resp.Suggestions)
}

func TestHandlers_Suggestions_MissingQuery(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "GET", "/v1/explore/search/suggestions", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_QUERY", decodeError(t, w).Code)
}

func TestHandlers_Filters(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "GET", "/v1/explore/search/filters", "")
	require.Equal(t, http.StatusOK, w.Code)

	var facets search.Facets
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facets))
	assert.Equal(t, []string{"class", "function"}, facets.Categories)
}

func TestHandlers_Lookup(t *testing.T) {
	router := loadedRouter(t)

	w := doJSON(t, router, "GET", "/v1/explore/nodes/lookup?term=User", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Nodes, 1)
	assert.Equal(t, "User", resp.Nodes[0].ID)
}

// =============================================================================
// Health Endpoints
// =============================================================================

func TestHandlers_Health(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doJSON(t, router, "GET", "/v1/explore/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceVersion, resp.Version)
	assert.False(t, resp.GraphLoaded)
}

func TestHandlers_Ready_BeforeAndAfterLoad(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	router := setupTestRouter(svc)

	w := doJSON(t, router, "GET", "/v1/explore/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, router, "POST", "/v1/explore/graph", testGraphJSON)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/v1/explore/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlers_RequestIDEchoed(t *testing.T) {
	router := loadedRouter(t)

	req, _ := http.NewRequest("GET", "/v1/explore/graph/stats", nil)
	req.Header.Set("X-Request-ID", "test-request-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "test-request-42", w.Header().Get("X-Request-ID"))
}
