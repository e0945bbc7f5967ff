// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AntigravityCloud/services/backend/middleware"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
)

// collectionNamePattern accepts the names clients may sync under. Unknown
// names are allowed (the document stores them alongside the fixed
// collections), but they must look like identifiers, not arbitrary JSON keys.
var collectionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Registration never fails for a fresh tag name.
		_ = v.RegisterValidation("collection", func(fl validator.FieldLevel) bool {
			return collectionNamePattern.MatchString(fl.Field().String())
		})
	}
}

// syncRequest is the POST /api/sync body: one collection name and its full
// replacement contents.
type syncRequest struct {
	Key  string          `json:"key" binding:"required,collection"`
	Data json.RawMessage `json:"data" binding:"required"`
}

// Sync replaces one collection of the tracking document with the posted
// data. Syncing stages re-evaluates project completion before the document
// is saved.
func Sync(svc *projects.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sync request: " + err.Error()})
			return
		}

		if err := svc.SyncCollection(c.Request.Context(), req.Key, req.Data); err != nil {
			if errors.Is(err, projects.ErrInvalidPayload) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slog.Error("failed to sync collection", "key", req.Key,
				"request_id", middleware.GetRequestID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save database"})
			return
		}

		slog.Info("collection synced", "key", req.Key,
			"request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
