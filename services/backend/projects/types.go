// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package projects

import (
	"bytes"
	"fmt"
	"time"

	"github.com/AleutianAI/AntigravityCloud/services/backend/datatypes"
)

// Display status values attached to enriched project listings. These are
// presentation strings consumed by sync clients, not internal state.
const (
	StatusCompleted  = "Completed"
	StatusInProgress = "In Progress"
)

// Filter narrows a completed-projects listing by the month and/or year of the
// completion timestamp. A nil field means no constraint on that component.
type Filter struct {
	Month *int
	Year  *int
}

// matches reports whether a completion timestamp satisfies the filter. With
// no constraints set every timestamp matches; with at least one set, a
// timestamp that fails to parse matches nothing and the project silently
// drops out of the listing.
func (f Filter) matches(ts string) bool {
	if f.Month == nil && f.Year == nil {
		return true
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return false
	}
	if f.Month != nil && int(t.Month()) != *f.Month {
		return false
	}
	if f.Year != nil && t.Year() != *f.Year {
		return false
	}
	return true
}

// Enriched is a project record decorated with its derived progress summary
// for listing responses. It serializes as the project's own fields followed
// by status, totalProgress, and stageCount.
type Enriched struct {
	datatypes.Project

	Status        string
	TotalProgress int
	StageCount    int
}

func (e Enriched) MarshalJSON() ([]byte, error) {
	base, err := e.Project.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	// Reopen the project object and append the derived fields. A client field
	// that collides with a derived name is overridden by the later key,
	// matching how sync clients merge records.
	buf.Write(base[:len(base)-1])
	buf.WriteString(`,"status":`)
	fmt.Fprintf(&buf, "%q", e.Status)
	fmt.Fprintf(&buf, `,"totalProgress":%d,"stageCount":%d}`, e.TotalProgress, e.StageCount)
	return buf.Bytes(), nil
}

// FilterEcho reports back which filters a listing applied, null when a
// component was unconstrained.
type FilterEcho struct {
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

// CompletedList is the response body for the completed-projects listing.
type CompletedList struct {
	Count    int        `json:"count"`
	Filters  FilterEcho `json:"filters"`
	Projects []Enriched `json:"projects"`
}

// InProgressList is the response body for the in-progress listing.
type InProgressList struct {
	Count    int        `json:"count"`
	Projects []Enriched `json:"projects"`
}

// ProjectStatus is one row of an evaluation summary.
type ProjectStatus struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Completed      bool    `json:"completed"`
	CompletionDate *string `json:"completionDate"`
}

// Summary is the response body for an explicit evaluation run. Updated is
// true when the run changed at least one project's completionDate.
type Summary struct {
	Evaluated bool            `json:"evaluated"`
	Updated   bool            `json:"updated"`
	Projects  []ProjectStatus `json:"projects"`
}
