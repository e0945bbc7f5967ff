// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for backend route registration

package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AntigravityCloud/services/backend/completion"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
	"github.com/AleutianAI/AntigravityCloud/services/backend/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st, err := store.NewMemoryStore(nil)
	require.NoError(t, err)
	svc := projects.NewService(st, completion.Evaluator{}, nil)

	router := gin.New()
	SetupRoutes(router, svc)
	return router
}

func TestSetupRoutes_AllEndpointsRegistered(t *testing.T) {
	router := newRouter(t)

	endpoints := []struct {
		method string
		path   string
		body   string
	}{
		{"GET", "/health", ""},
		{"GET", "/metrics", ""},
		{"GET", "/api/data", ""},
		{"GET", "/api/projects/completed", ""},
		{"GET", "/api/projects/in-progress", ""},
		{"GET", "/api/projects/evaluate", ""},
		{"POST", "/api/sync", `{"key":"users","data":[]}`},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			var req *http.Request
			if ep.body == "" {
				req, _ = http.NewRequest(ep.method, ep.path, nil)
			} else {
				req, _ = http.NewRequest(ep.method, ep.path, strings.NewReader(ep.body))
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestSetupRoutes_UnknownPathIsPlainTextNotFound(t *testing.T) {
	router := newRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/unknown", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestSetupRoutes_MetricsExposition(t *testing.T) {
	router := newRouter(t)

	// Generate some traffic first.
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines",
		"prometheus default collectors must be exposed")
}
