// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists the tracking document as a single unit.
//
// There are no per-collection transactions: a backend either loads or saves
// the whole document, and two writers racing each other resolve as
// last-write-wins at document granularity. In-process callers serialize
// their load-mutate-save sequences above this package; nothing here defends
// against a second process sharing the same file.
package store

import (
	"context"

	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
)

// Store loads and saves the whole tracking document. Implementations must be
// safe for concurrent use.
type Store interface {
	// Load returns the persisted document, seeding an empty one when the
	// backend has never been written.
	Load(ctx context.Context) (*datatypes.Document, error)

	// Save persists the document, replacing whatever was stored before.
	Save(ctx context.Context, doc *datatypes.Document) error
}
