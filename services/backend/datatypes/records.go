// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the persisted record types for the Antigravity
// project-tracking document.
//
// Records arrive from sync clients with arbitrary extra fields. Each type
// therefore carries the fields the backend actually reads as typed members
// and keeps everything else in a raw bag so that a record written back to
// disk contains exactly the fields it arrived with.
package datatypes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FullProgress is the stage progress value that counts as finished.
const FullProgress = 100

// =============================================================================
// Project
// =============================================================================

// Project is a tracked project record.
//
// CompletionDate is derived state owned by the completion evaluator: it is
// set to an ISO-8601 UTC instant when every stage of the project reaches
// full progress and cleared to JSON null when one regresses. Presence of the
// field on the wire is preserved: a project that never carried a
// completionDate key is written back without one, while a cleared date is
// written as an explicit null.
type Project struct {
	ID             string
	Name           string
	CompletionDate *string

	hasName           bool
	hasCompletionDate bool

	// Extra holds every field the backend does not interpret, keyed by its
	// wire name.
	Extra map[string]json.RawMessage
}

// CompletionDateSet reports whether the project currently has a usable
// completion timestamp. A missing key, a null, and an empty string all count
// as unset, matching how sync clients have historically cleared the field.
func (p *Project) CompletionDateSet() bool {
	return p.CompletionDate != nil && *p.CompletionDate != ""
}

// SetCompletionDate stamps the project with the given timestamp.
func (p *Project) SetCompletionDate(ts string) {
	p.CompletionDate = &ts
	p.hasCompletionDate = true
}

// ClearCompletionDate resets the timestamp to an explicit null.
func (p *Project) ClearCompletionDate() {
	p.CompletionDate = nil
	p.hasCompletionDate = true
}

func (p *Project) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &p.ID); err != nil {
			return err
		}
		delete(fields, "id")
	}
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &p.Name); err != nil {
			return err
		}
		p.hasName = true
		delete(fields, "name")
	}
	if raw, ok := fields["completionDate"]; ok {
		p.hasCompletionDate = true
		if !isJSONNull(raw) {
			var ts string
			if err := json.Unmarshal(raw, &ts); err != nil {
				return err
			}
			p.CompletionDate = &ts
		}
		delete(fields, "completionDate")
	}
	p.Extra = fields
	return nil
}

func (p Project) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField(&buf, "id", p.ID)
	if p.hasName || p.Name != "" {
		buf.WriteByte(',')
		writeField(&buf, "name", p.Name)
	}
	if p.hasCompletionDate || p.CompletionDate != nil {
		buf.WriteString(`,"completionDate":`)
		if p.CompletionDate == nil {
			buf.WriteString("null")
		} else {
			writeString(&buf, *p.CompletionDate)
		}
	}
	if err := writeExtras(&buf, p.Extra); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// =============================================================================
// Stage
// =============================================================================

// Stage is one unit of project progress, owned by a project via ProjectID.
// Progress is kept raw exactly as it arrived; use ProgressValue for the
// coerced integer the evaluator operates on.
type Stage struct {
	ID        string
	ProjectID string
	Progress  json.RawMessage

	Extra map[string]json.RawMessage
}

// ProgressValue returns the stage progress coerced to an integer.
func (s *Stage) ProgressValue() int {
	return CoerceProgress(s.Progress)
}

// CoerceProgress applies the backend's progress fallback policy: a JSON
// number is truncated to an integer, a JSON string holding a base-10 integer
// is parsed, and everything else (missing, null, bool, object, non-numeric
// string) resolves to 0. Coercion never fails; a single malformed record must
// not be able to abort an evaluation or a listing.
func CoerceProgress(raw json.RawMessage) int {
	if len(raw) == 0 || isJSONNull(raw) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return n
		}
	}
	return 0
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &s.ID); err != nil {
			return err
		}
		delete(fields, "id")
	}
	if raw, ok := fields["projectId"]; ok {
		if err := json.Unmarshal(raw, &s.ProjectID); err != nil {
			return err
		}
		delete(fields, "projectId")
	}
	if raw, ok := fields["progress"]; ok {
		s.Progress = raw
		delete(fields, "progress")
	}
	s.Extra = fields
	return nil
}

func (s Stage) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField(&buf, "id", s.ID)
	buf.WriteByte(',')
	writeField(&buf, "projectId", s.ProjectID)
	if s.Progress != nil {
		buf.WriteString(`,"progress":`)
		buf.Write(s.Progress)
	}
	if err := writeExtras(&buf, s.Extra); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// =============================================================================
// JSON helpers
// =============================================================================

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func writeField(buf *bytes.Buffer, key, value string) {
	writeString(buf, key)
	buf.WriteByte(':')
	writeString(buf, value)
}

func writeString(buf *bytes.Buffer, s string) {
	encoded, _ := json.Marshal(s)
	buf.Write(encoded)
}

// writeExtras appends the unrecognized fields in sorted key order. Sorting
// keeps output deterministic; clients get their fields back byte-for-byte,
// though not necessarily in the order they sent them.
func writeExtras(buf *bytes.Buffer, extra map[string]json.RawMessage) error {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !json.Valid(extra[k]) {
			return fmt.Errorf("record field %q holds invalid JSON", k)
		}
		buf.WriteByte(',')
		writeString(buf, k)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	return nil
}
