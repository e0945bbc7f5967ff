// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
)

// MemoryStore keeps the encoded document in memory. It exists so tests and
// ephemeral runs can substitute the file backend without touching disk.
// Load always decodes a fresh copy, mirroring the isolation callers get from
// a real file: mutating a loaded document never leaks into the store until
// Save.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns a store seeded with doc, or with an empty document
// when doc is nil.
func NewMemoryStore(doc *datatypes.Document) (*MemoryStore, error) {
	if doc == nil {
		doc = datatypes.NewDocument()
	}
	s := &MemoryStore{}
	if err := s.Save(context.Background(), doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemoryStore) Load(ctx context.Context) (*datatypes.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := datatypes.NewDocument()
	if err := json.Unmarshal(s.data, doc); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	return doc, nil
}

func (s *MemoryStore) Save(ctx context.Context, doc *datatypes.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
