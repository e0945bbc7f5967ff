// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package projects implements the project-tracking operations behind the
// HTTP API: listing projects by completion status, running explicit
// evaluation passes, and syncing whole collections from clients.
//
// Every operation that can mutate the document runs under one service-wide
// mutex, so a load-evaluate-save sequence is never interleaved with another
// writer in the same process. The store below resolves cross-process races
// as last-write-wins; this layer only guarantees in-process consistency.
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AleutianAI/AntigravityCloud/services/backend/completion"
	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
	"github.com/AleutianAI/AntigravityCloud/services/backend/observability"
	"github.com/AleutianAI/AntigravityCloud/services/backend/store"
)

// ErrInvalidPayload marks errors caused by a malformed client payload rather
// than a storage failure. Handlers map it to a 400 response.
var ErrInvalidPayload = errors.New("invalid payload")

// Service executes tracking operations against a document store.
type Service struct {
	store store.Store
	eval  completion.Evaluator
	log   *slog.Logger

	// mu serializes every load-mutate-save sequence.
	mu sync.Mutex
}

// NewService builds a service on the given store. A nil logger falls back to
// slog.Default().
func NewService(st store.Store, eval completion.Evaluator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, eval: eval, log: log}
}

// FetchDocument returns the persisted document as-is, without running an
// evaluation pass. This is the raw dump behind GET /api/data.
func (s *Service) FetchDocument(ctx context.Context) (*datatypes.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// ListCompleted returns every completed project, optionally narrowed to
// completions in a given month and/or year. The listing runs a fresh
// evaluation pass first and persists any repairs it made.
func (s *Service) ListCompleted(ctx context.Context, filter Filter) (*CompletedList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, doc); err != nil {
		return nil, err
	}

	list := &CompletedList{
		Filters:  FilterEcho{Month: filter.Month, Year: filter.Year},
		Projects: []Enriched{},
	}
	for i := range doc.Projects {
		p := &doc.Projects[i]
		if !completion.IsCompleted(p.ID, doc.Stages) || !p.CompletionDateSet() {
			continue
		}
		if !filter.matches(*p.CompletionDate) {
			continue
		}
		list.Projects = append(list.Projects, enrich(*p, doc.Stages, StatusCompleted))
	}
	list.Count = len(list.Projects)
	return list, nil
}

// ListInProgress returns every project not currently completed, each
// enriched with its progress summary. Like ListCompleted it evaluates first
// and persists any repairs.
func (s *Service) ListInProgress(ctx context.Context) (*InProgressList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, doc); err != nil {
		return nil, err
	}

	list := &InProgressList{Projects: []Enriched{}}
	for i := range doc.Projects {
		p := &doc.Projects[i]
		if completion.IsCompleted(p.ID, doc.Stages) {
			continue
		}
		list.Projects = append(list.Projects, enrich(*p, doc.Stages, StatusInProgress))
	}
	list.Count = len(list.Projects)
	return list, nil
}

// Evaluate runs an explicit evaluation pass, persists the document when the
// pass changed anything, and reports per-project status.
func (s *Service) Evaluate(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	updated := s.evaluate(doc)
	if updated {
		if err := s.persist(ctx, doc); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		Evaluated: true,
		Updated:   updated,
		Projects:  make([]ProjectStatus, 0, len(doc.Projects)),
	}
	for i := range doc.Projects {
		p := &doc.Projects[i]
		summary.Projects = append(summary.Projects, ProjectStatus{
			ID:             p.ID,
			Name:           p.Name,
			Completed:      completion.IsCompleted(p.ID, doc.Stages),
			CompletionDate: p.CompletionDate,
		})
	}
	return summary, nil
}

// SyncCollection replaces the named collection with the client's data and
// persists the document. Replacing the stages collection triggers an
// evaluation pass before the save, so completionDate values never go stale
// behind a stage update. The save happens exactly once, whether or not the
// evaluation changed anything.
func (s *Service) SyncCollection(ctx context.Context, key string, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := doc.SetCollection(key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if key == datatypes.CollectionStages {
		s.evaluate(doc)
	}
	return s.persist(ctx, doc)
}

// evaluate runs one completion pass over the document, recording evaluation
// and transition metrics. It does not persist.
func (s *Service) evaluate(doc *datatypes.Document) bool {
	before := make([]bool, len(doc.Projects))
	for i := range doc.Projects {
		before[i] = doc.Projects[i].CompletionDateSet()
	}

	updated := s.eval.EvaluateAll(doc)

	completed, regressed := 0, 0
	for i := range doc.Projects {
		after := doc.Projects[i].CompletionDateSet()
		switch {
		case after && !before[i]:
			completed++
		case !after && before[i]:
			regressed++
		}
	}
	observability.DefaultMetrics.RecordEvaluation(updated)
	observability.DefaultMetrics.RecordTransitions(observability.DirectionCompleted, completed)
	observability.DefaultMetrics.RecordTransitions(observability.DirectionRegressed, regressed)
	if updated {
		s.log.Debug("completion evaluation mutated document",
			"completed", completed, "regressed", regressed)
	}
	return updated
}

// refresh evaluates and persists only when the pass changed something, so
// read traffic on an already-consistent document costs no write.
func (s *Service) refresh(ctx context.Context, doc *datatypes.Document) error {
	if !s.evaluate(doc) {
		return nil
	}
	return s.persist(ctx, doc)
}

func (s *Service) persist(ctx context.Context, doc *datatypes.Document) error {
	err := s.store.Save(ctx, doc)
	observability.DefaultMetrics.RecordSave(err)
	if err != nil {
		s.log.Error("document save failed", "error", err)
	}
	return err
}

func enrich(p datatypes.Project, stages []datatypes.Stage, status string) Enriched {
	total, count := completion.Progress(p.ID, stages)
	return Enriched{
		Project:       p,
		Status:        status,
		TotalProgress: total,
		StageCount:    count,
	}
}
