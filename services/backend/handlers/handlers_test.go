// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the tracking backend HTTP handlers

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

var testInstant = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st, err := store.NewMemoryStore(nil)
	require.NoError(t, err)
	eval := completion.Evaluator{Now: func() time.Time { return testInstant }}
	svc := projects.NewService(st, eval, nil)

	router := gin.New()
	router.GET("/api/data", GetData(svc))
	router.GET("/api/projects/completed", ListCompleted(svc))
	router.GET("/api/projects/in-progress", ListInProgress(svc))
	router.GET("/api/projects/evaluate", Evaluate(svc))
	router.POST("/api/sync", Sync(svc))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func syncBody(key, data string) string {
	return `{"key":"` + key + `","data":` + data + `}`
}

// =============================================================================
// GET /api/data Tests
// =============================================================================

func TestGetData_ReturnsWholeDocument(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, "GET", "/api/data", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got, "projects")
	assert.Contains(t, got, "stages")
	assert.Contains(t, got, "lessonsLearned")
	assert.JSONEq(t, `[]`, string(got["projects"]))
}

func TestGetData_DoesNotEvaluate(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, "POST", "/api/sync",
		syncBody("stages", `[{"id":"s1","projectId":"p1","progress":100}]`))
	doRequest(t, router, "POST", "/api/sync",
		syncBody("projects", `[{"id":"p1","name":"Apollo"}]`))

	w := doRequest(t, router, "GET", "/api/data", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "completionDate",
		"raw dump must not trigger evaluation")
}

// =============================================================================
// GET /api/projects/completed Tests
// =============================================================================

func TestListCompleted_ResponseShape(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, "POST", "/api/sync",
		syncBody("projects", `[{"id":"p1","name":"Apollo"}]`))
	doRequest(t, router, "POST", "/api/sync",
		syncBody("stages", `[{"id":"s1","projectId":"p1","progress":100}]`))

	w := doRequest(t, router, "GET", "/api/projects/completed", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Count   int `json:"count"`
		Filters struct {
			Month *int `json:"month"`
			Year  *int `json:"year"`
		} `json:"filters"`
		Projects []map[string]any `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Nil(t, got.Filters.Month)
	assert.Nil(t, got.Filters.Year)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "Completed", got.Projects[0]["status"])
	assert.Equal(t, float64(100), got.Projects[0]["totalProgress"])
	assert.Equal(t, float64(1), got.Projects[0]["stageCount"])
}

func TestListCompleted_FiltersEchoed(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, "GET", "/api/projects/completed?month=3&year=2026", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Filters struct {
			Month *int `json:"month"`
			Year  *int `json:"year"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Filters.Month)
	assert.Equal(t, 3, *got.Filters.Month)
	require.NotNil(t, got.Filters.Year)
	assert.Equal(t, 2026, *got.Filters.Year)
}

func TestListCompleted_BadFilters(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		query string
	}{
		{"month zero", "?month=0"},
		{"month thirteen", "?month=13"},
		{"month not a number", "?month=march"},
		{"year not a number", "?year=twenty-six"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "GET", "/api/projects/completed"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

// =============================================================================
// GET /api/projects/in-progress Tests
// =============================================================================

func TestListInProgress_ResponseShape(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, "POST", "/api/sync",
		syncBody("projects", `[{"id":"p1","name":"Apollo"}]`))
	doRequest(t, router, "POST", "/api/sync",
		syncBody("stages", `[{"id":"s1","projectId":"p1","progress":30}]`))

	w := doRequest(t, router, "GET", "/api/projects/in-progress", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Count    int              `json:"count"`
		Projects []map[string]any `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "In Progress", got.Projects[0]["status"])
	assert.Equal(t, float64(30), got.Projects[0]["totalProgress"])
}

// =============================================================================
// GET /api/projects/evaluate Tests
// =============================================================================

func TestEvaluate_ResponseShape(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, "POST", "/api/sync",
		syncBody("stages", `[{"id":"s1","projectId":"p1","progress":100}]`))
	doRequest(t, router, "POST", "/api/sync",
		syncBody("projects", `[{"id":"p1","name":"Apollo"}]`))

	w := doRequest(t, router, "GET", "/api/projects/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Evaluated bool `json:"evaluated"`
		Updated   bool `json:"updated"`
		Projects  []struct {
			ID             string  `json:"id"`
			Name           string  `json:"name"`
			Completed      bool    `json:"completed"`
			CompletionDate *string `json:"completionDate"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Evaluated)
	assert.True(t, got.Updated)
	require.Len(t, got.Projects, 1)
	assert.True(t, got.Projects[0].Completed)
	require.NotNil(t, got.Projects[0].CompletionDate)

	// A second run reports updated=false.
	w = doRequest(t, router, "GET", "/api/projects/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Evaluated)
	assert.False(t, got.Updated)
}

// =============================================================================
// POST /api/sync Tests
// =============================================================================

func TestSync_Success(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, "POST", "/api/sync",
		syncBody("users", `[{"id":"u1","name":"Dana"}]`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestSync_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"data":[]}`},
		{"missing data", `{"key":"users"}`},
		{"key not an identifier", `{"key":"../etc","data":[]}`},
		{"not json", `key=users`},
		{"data not an array", `{"key":"users","data":{"id":"u1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "POST", "/api/sync", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestSync_StagesStampCompletion(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, "POST", "/api/sync",
		syncBody("projects", `[{"id":"p1","name":"Apollo"}]`))

	w := doRequest(t, router, "POST", "/api/sync",
		syncBody("stages", `[{"id":"s1","projectId":"p1","progress":100}]`))
	require.Equal(t, http.StatusOK, w.Code)

	data := doRequest(t, router, "GET", "/api/data", "")
	assert.Contains(t, data.Body.String(),
		`"completionDate":"`+testInstant.Format(time.RFC3339Nano)+`"`)
}

// =============================================================================
// Fresh Document Tests
// =============================================================================

func TestFreshDocument_EmptyListings(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, "GET", "/api/projects/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	w = doRequest(t, router, "GET", "/api/projects/in-progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	w = doRequest(t, router, "GET", "/api/projects/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"evaluated":true,"updated":false,"projects":[]}`, w.Body.String())
}

// =============================================================================
// Misc Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestNotFound_PlainText(t *testing.T) {
	router := gin.New()
	router.NoRoute(NotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", w.Body.String())
}
