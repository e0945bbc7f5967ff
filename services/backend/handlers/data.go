// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers of the tracking backend.
//
// Handlers translate between the wire and the projects service: they parse
// and validate request input, call one service operation, and map its errors
// onto status codes. Client payload problems come back as 400, storage
// failures as 500; handlers never leak raw storage errors to clients.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AntigravityCloud/services/backend/middleware"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
)

// GetData returns the whole tracking document exactly as persisted. No
// evaluation pass runs here; clients that want fresh completion status call
// the listing or evaluate endpoints.
func GetData(svc *projects.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := svc.FetchDocument(c.Request.Context())
		if err != nil {
			slog.Error("failed to read tracking document",
				"request_id", middleware.GetRequestID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read database"})
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}
