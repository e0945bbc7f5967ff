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
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AntigravityCloud/services/backend/middleware"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
)

// ListCompleted returns the completed projects, optionally filtered by the
// month and/or year of their completion date via query parameters.
//
// A month outside 1-12 or a non-integer value for either parameter is a
// client error and comes back as 400 before the store is touched.
func ListCompleted(svc *projects.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		list, err := svc.ListCompleted(c.Request.Context(), filter)
		if err != nil {
			slog.Error("failed to list completed projects",
				"request_id", middleware.GetRequestID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read database"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ListInProgress returns every project not currently completed.
func ListInProgress(svc *projects.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListInProgress(c.Request.Context())
		if err != nil {
			slog.Error("failed to list in-progress projects",
				"request_id", middleware.GetRequestID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read database"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// Evaluate triggers a completion evaluation pass over all projects and
// reports each project's resulting status.
func Evaluate(svc *projects.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Evaluate(c.Request.Context())
		if err != nil {
			slog.Error("failed to evaluate project completion",
				"request_id", middleware.GetRequestID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read database"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// filterError is returned verbatim to the client, so it names the parameter
// and the constraint, never internals.
type filterError string

func (e filterError) Error() string { return string(e) }

func parseFilter(c *gin.Context) (projects.Filter, error) {
	var filter projects.Filter

	if raw, ok := c.GetQuery("month"); ok {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return filter, filterError("month must be an integer between 1 and 12")
		}
		filter.Month = &month
	}
	if raw, ok := c.GetQuery("year"); ok {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, filterError("year must be an integer")
		}
		filter.Year = &year
	}
	return filter, nil
}
