// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the backend service.
//
// This package contains middleware for cross-origin access, request
// tracing, and metrics collection. All of it is applied globally in the
// router setup, ahead of any route handler.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// CORS Middleware
// =============================================================================

// CORS creates a Gin middleware that permits cross-origin requests.
//
// # Description
//
// The backend is consumed by browser-based sync clients served from other
// origins, so every response carries a permissive CORS header set. Preflight
// OPTIONS requests are answered directly with 204 and never reach a route
// handler. Because this runs as global middleware, preflights succeed even
// for paths that have no route.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin
//
// # Limitations
//
//   - The allowed origin is the wildcard; there is no per-origin policy.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
