// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AntigravityCloud/services/backend/handlers"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
)

func SetupRoutes(router *gin.Engine, svc *projects.Service) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API group consumed by sync clients
	api := router.Group("/api")
	{
		api.GET("/data", handlers.GetData(svc))
		api.POST("/sync", handlers.Sync(svc))
		// Project tracking routes
		projectRoutes := api.Group("/projects")
		{
			projectRoutes.GET("/completed", handlers.ListCompleted(svc))
			projectRoutes.GET("/in-progress", handlers.ListInProgress(svc))
			projectRoutes.GET("/evaluate", handlers.Evaluate(svc))
		}
	}

	// Legacy clients probe unknown paths and expect a plain-text body.
	router.NoRoute(handlers.NotFound)
}
