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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all explore routes with the router.
//
// Description:
//
//	Registers all /v1/explore/* endpoints with the given Gin router
//	group. The router group should already have any required middleware
//	applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Graph Endpoints:
//
//	POST /v1/explore/graph - Upload a graph snapshot
//	GET  /v1/explore/graph/stats - Current snapshot sizes
//
// Hierarchy Endpoints:
//
//	POST /v1/explore/hierarchy - Build a hierarchy tree for a root
//	POST /v1/explore/hierarchy/ops - Apply a pure tree operation
//
// Search Endpoints:
//
//	POST /v1/explore/search - Fuzzy search over the node set
//	GET  /v1/explore/search/suggestions - Substring completions
//	GET  /v1/explore/search/filters - Available filter facets
//	GET  /v1/explore/nodes/lookup - Exact-term inverted index lookup
//
// Health Endpoints:
//
//	GET  /v1/explore/health - Health check
//	GET  /v1/explore/ready - Readiness check (requires a loaded graph)
//
// Example:
//
//	service := explore.NewService(explore.DefaultServiceConfig())
//	handlers := explore.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	explore.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	exploreGroup := rg.Group("/explore")
	{
		// Graph lifecycle
		exploreGroup.POST("/graph", handlers.HandleLoadGraph)
		exploreGroup.GET("/graph/stats", handlers.HandleGraphStats)

		// Hierarchy decomposition
		exploreGroup.POST("/hierarchy", handlers.HandleHierarchy)
		exploreGroup.POST("/hierarchy/ops", handlers.HandleTreeOp)

		// Fuzzy search
		exploreGroup.POST("/search", handlers.HandleSearch)
		exploreGroup.GET("/search/suggestions", handlers.HandleSuggestions)
		exploreGroup.GET("/search/filters", handlers.HandleFilters)

		// Exact lookup
		exploreGroup.GET("/nodes/lookup", handlers.HandleLookup)

		// Health checks
		exploreGroup.GET("/health", handlers.HandleHealth)
		exploreGroup.GET("/ready", handlers.HandleReady)
	}
}
