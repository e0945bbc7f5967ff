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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
)

// FileStore keeps the document in one pretty-printed JSON file. Writes go
// through a temp file and rename so a crash mid-save never truncates the
// database. A mutex serializes file access within the process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens the document file at path, creating it with all fixed
// collections empty when it does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat document file: %w", err)
		}
		if err := s.write(datatypes.NewDocument()); err != nil {
			return nil, fmt.Errorf("seed document file: %w", err)
		}
	}
	return s, nil
}

// Path returns the location of the document file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*datatypes.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return datatypes.NewDocument(), nil
		}
		return nil, fmt.Errorf("read document file: %w", err)
	}
	doc := datatypes.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document file: %w", err)
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc *datatypes.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(doc)
}

func (s *FileStore) write(doc *datatypes.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create document directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace document file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
