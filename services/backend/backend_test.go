// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for backend service construction and wiring

package backend

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_MemoryBackend(t *testing.T) {
	svc, err := New(Config{StoreBackend: StoreMemory, GinMode: gin.TestMode})
	require.NoError(t, err)
	require.NotNil(t, svc.Router())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_FileBackendSeedsDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	svc, err := New(Config{
		StoreBackend: StoreFile,
		DBPath:       path,
		GinMode:      gin.TestMode,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/data", nil)
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"projects":[]`)
}

func TestNew_UnknownStoreBackend(t *testing.T) {
	_, err := New(Config{StoreBackend: "cassette-tape"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassette-tape")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ANTIGRAVITY_PORT", "8123")
	t.Setenv("ANTIGRAVITY_STORE", "badger")
	t.Setenv("ANTIGRAVITY_BADGER_DIR", "/data/badger")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Port)
	assert.Equal(t, StoreBadger, cfg.StoreBackend)
	assert.Equal(t, "/data/badger", cfg.BadgerDir)
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := applyConfigDefaults(Config{})
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, "database.json", cfg.DBPath)
}
