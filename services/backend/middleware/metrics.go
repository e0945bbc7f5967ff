// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AntigravityCloud/services/backend/observability"
)

// =============================================================================
// Metrics Middleware
// =============================================================================

// Metrics creates a Gin middleware that counts requests.
//
// # Description
//
// Records each completed request under its matched route template (keeping
// label cardinality bounded), falling back to the raw path for unrouted
// requests. Runs after the handler chain so it sees the final status code.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		observability.DefaultMetrics.RecordRequest(
			path,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		)
	}
}
