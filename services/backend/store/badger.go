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

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
)

// documentKey is the single key the whole document lives under. The database
// stays at document granularity on purpose: sync replaces entire collections,
// so a per-record key scheme would buy nothing but merge complexity.
var documentKey = []byte("document")

// BadgerStore persists the document in an embedded Badger database. It is the
// durable alternative to FileStore for deployments that want crash-safe
// writes without managing a JSON file directly.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at dir and seeds it
// with an empty document when the document key is absent.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	s := &BadgerStore{db: db}
	if err := s.seed(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BadgerStore) seed() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(documentKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		data, err := json.Marshal(datatypes.NewDocument())
		if err != nil {
			return err
		}
		return txn.Set(documentKey, data)
	})
	if err != nil {
		return fmt.Errorf("seed badger document: %w", err)
	}
	return nil
}

func (s *BadgerStore) Load(ctx context.Context) (*datatypes.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := datatypes.NewDocument()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, doc)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load badger document: %w", err)
	}
	return doc, nil
}

func (s *BadgerStore) Save(ctx context.Context, doc *datatypes.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(documentKey, data)
	})
	if err != nil {
		return fmt.Errorf("save badger document: %w", err)
	}
	return nil
}

// Close releases the underlying database. The store is unusable afterwards.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
