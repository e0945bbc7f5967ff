// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the tracking document aggregate

package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Shape Tests
// =============================================================================

func TestNewDocument_MarshalsAllCollectionsEmpty(t *testing.T) {
	out, err := json.Marshal(NewDocument())
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &got))

	require.Len(t, got, len(Collections()))
	for _, key := range Collections() {
		assert.JSONEq(t, `[]`, string(got[key]), "collection %s", key)
	}
}

func TestDocument_UnmarshalSeedsMissingCollections(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"projects":[{"id":"p1"}]}`), &doc))

	require.Len(t, doc.Projects, 1)
	assert.NotNil(t, doc.Stages)
	assert.NotNil(t, doc.Users)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"stages":[]`)
}

func TestDocument_RoundTripKeepsUnknownCollections(t *testing.T) {
	in := `{"projects":[],"milestones":[{"id":"m1","due":"2026-09-01"}]}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(in), &doc))

	out, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &got))
	assert.JSONEq(t, `[{"id":"m1","due":"2026-09-01"}]`, string(got["milestones"]))
}

// =============================================================================
// SetCollection Tests
// =============================================================================

func TestDocument_SetCollection(t *testing.T) {
	t.Run("projects decode typed", func(t *testing.T) {
		doc := NewDocument()
		err := doc.SetCollection(CollectionProjects,
			json.RawMessage(`[{"id":"p1","name":"Apollo"}]`))
		require.NoError(t, err)
		require.Len(t, doc.Projects, 1)
		assert.Equal(t, "Apollo", doc.Projects[0].Name)
	})

	t.Run("stages decode typed", func(t *testing.T) {
		doc := NewDocument()
		err := doc.SetCollection(CollectionStages,
			json.RawMessage(`[{"id":"s1","projectId":"p1","progress":50}]`))
		require.NoError(t, err)
		require.Len(t, doc.Stages, 1)
		assert.Equal(t, 50, doc.Stages[0].ProgressValue())
	})

	t.Run("unknown collection is stored", func(t *testing.T) {
		doc := NewDocument()
		err := doc.SetCollection("milestones", json.RawMessage(`[{"id":"m1"}]`))
		require.NoError(t, err)
		assert.Contains(t, doc.Extra, "milestones")
	})

	t.Run("non-array payload is rejected", func(t *testing.T) {
		doc := NewDocument()
		err := doc.SetCollection(CollectionUsers, json.RawMessage(`{"id":"u1"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a JSON array")
	})

	t.Run("malformed project record is rejected", func(t *testing.T) {
		doc := NewDocument()
		err := doc.SetCollection(CollectionProjects, json.RawMessage(`[{"id":42}]`))
		require.Error(t, err)
	})

	t.Run("json null becomes empty collection", func(t *testing.T) {
		doc := NewDocument()
		err := doc.SetCollection(CollectionNotifications, json.RawMessage(`null`))
		require.NoError(t, err)
		assert.Empty(t, doc.Notifications)
		assert.NotNil(t, doc.Notifications)
	})
}
