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
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Context Keys
// =============================================================================

// requestIDKey is the context key for the request ID.
const requestIDKey = "antigravity_request_id"

// RequestIDHeader is the header the ID is read from and echoed back on.
const RequestIDHeader = "X-Request-ID"

// =============================================================================
// Request ID Middleware
// =============================================================================

// RequestID creates a Gin middleware that tags every request with an ID.
//
// # Description
//
// Reuses the client-supplied X-Request-ID header when present, otherwise
// generates a UUIDv4. The ID is stored in the Gin context for log
// correlation and echoed back on the response so clients can quote it when
// reporting problems.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context, empty when the
// middleware did not run.
func GetRequestID(c *gin.Context) string {
	if v, exists := c.Get(requestIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
