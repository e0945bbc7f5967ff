// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package completion derives a project's completed/in-progress status from
// its stages and maintains the completionDate field accordingly.
//
// # Rule
//
// A project is completed iff it has at least one stage and every one of its
// stages reports full (100) progress. A project with zero stages is always
// in progress, no matter what a stale completionDate claims. Progress values
// are coerced through datatypes.CoerceProgress, so a malformed stage counts
// as 0 and keeps its project in progress rather than failing evaluation.
//
// # Timestamp maintenance
//
// EvaluateAll is the only place a completion timestamp is ever generated.
// It records the most recent instant at which evaluation observed full
// progress across all stages, which can lag the true completion moment when
// evaluation runs infrequently. Re-running it without an intervening stage
// change never rewrites an existing timestamp.
package completion

import (
	"math"
	"time"

	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
)

// IsCompleted reports whether the project identified by projectID is
// completed given the full stage collection: false when no stage belongs to
// it, otherwise true iff every owned stage is at full progress.
func IsCompleted(projectID string, stages []datatypes.Stage) bool {
	matched := false
	for i := range stages {
		if stages[i].ProjectID != projectID {
			continue
		}
		matched = true
		if stages[i].ProgressValue() != datatypes.FullProgress {
			return false
		}
	}
	return matched
}

// Progress returns the rounded mean progress and stage count for the given
// project, both 0 when it has no stages. Rounding is half away from zero.
func Progress(projectID string, stages []datatypes.Stage) (totalProgress, stageCount int) {
	sum := 0
	for i := range stages {
		if stages[i].ProjectID != projectID {
			continue
		}
		sum += stages[i].ProgressValue()
		stageCount++
	}
	if stageCount == 0 {
		return 0, 0
	}
	return int(math.Round(float64(sum) / float64(stageCount))), stageCount
}

// Evaluator re-derives completion status for whole documents. The zero value
// stamps with time.Now; tests inject a fixed clock.
type Evaluator struct {
	// Now supplies the instant used for new completion timestamps.
	Now func() time.Time
}

// EvaluateAll recomputes completion for every project in the document and
// repairs stale completionDate values in place:
//
//   - newly completed projects get the current UTC instant (RFC 3339, Z)
//   - projects that regressed below full progress get an explicit null
//   - everything else is left untouched, so the pass is idempotent
//
// It returns whether any project was mutated, letting callers skip a save
// when nothing changed. Safe to run on every read request.
func (e Evaluator) EvaluateAll(doc *datatypes.Document) bool {
	updated := false
	for i := range doc.Projects {
		project := &doc.Projects[i]
		completed := IsCompleted(project.ID, doc.Stages)
		switch {
		case completed && !project.CompletionDateSet():
			project.SetCompletionDate(e.now().UTC().Format(time.RFC3339Nano))
			updated = true
		case !completed && project.CompletionDateSet():
			project.ClearCompletionDate()
			updated = true
		}
	}
	return updated
}

func (e Evaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
