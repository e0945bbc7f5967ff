// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Fixed collection names of the tracking document. The document always
// carries all seven, even when empty.
const (
	CollectionUsers          = "users"
	CollectionProjects       = "projects"
	CollectionStages         = "stages"
	CollectionNotifications  = "notifications"
	CollectionDelayRecords   = "delayRecords"
	CollectionLessonsLearned = "lessonsLearned"
	CollectionProjectReports = "projectReports"
)

// Collections lists the fixed collection names in on-disk order.
func Collections() []string {
	return []string{
		CollectionUsers,
		CollectionProjects,
		CollectionStages,
		CollectionNotifications,
		CollectionDelayRecords,
		CollectionLessonsLearned,
		CollectionProjectReports,
	}
}

// Document is the aggregate root: every collection of the tracking database,
// persisted as one unit. Projects and stages are fully typed because the
// completion evaluator reads them; the remaining collections are opaque
// ordered records. Extra holds any additional collection a client has synced
// under a name outside the fixed seven.
type Document struct {
	Users          []json.RawMessage
	Projects       []Project
	Stages         []Stage
	Notifications  []json.RawMessage
	DelayRecords   []json.RawMessage
	LessonsLearned []json.RawMessage
	ProjectReports []json.RawMessage

	Extra map[string]json.RawMessage
}

// NewDocument returns a document with all fixed collections present and
// empty, the shape written to disk on first run.
func NewDocument() *Document {
	return &Document{
		Users:          []json.RawMessage{},
		Projects:       []Project{},
		Stages:         []Stage{},
		Notifications:  []json.RawMessage{},
		DelayRecords:   []json.RawMessage{},
		LessonsLearned: []json.RawMessage{},
		ProjectReports: []json.RawMessage{},
	}
}

// SetCollection replaces the named collection wholesale with the given JSON
// value. The projects and stages collections must decode into their record
// types; every other name must hold a JSON array of records. The error, when
// non-nil, describes a client payload problem, never a storage one.
func (d *Document) SetCollection(key string, data json.RawMessage) error {
	switch key {
	case CollectionProjects:
		var projects []Project
		if err := json.Unmarshal(data, &projects); err != nil {
			return fmt.Errorf("collection %q: %w", key, err)
		}
		if projects == nil {
			projects = []Project{}
		}
		d.Projects = projects
	case CollectionStages:
		var stages []Stage
		if err := json.Unmarshal(data, &stages); err != nil {
			return fmt.Errorf("collection %q: %w", key, err)
		}
		if stages == nil {
			stages = []Stage{}
		}
		d.Stages = stages
	case CollectionUsers, CollectionNotifications, CollectionDelayRecords,
		CollectionLessonsLearned, CollectionProjectReports:
		records, err := decodeRecords(key, data)
		if err != nil {
			return err
		}
		switch key {
		case CollectionUsers:
			d.Users = records
		case CollectionNotifications:
			d.Notifications = records
		case CollectionDelayRecords:
			d.DelayRecords = records
		case CollectionLessonsLearned:
			d.LessonsLearned = records
		case CollectionProjectReports:
			d.ProjectReports = records
		}
	default:
		if _, err := decodeRecords(key, data); err != nil {
			return err
		}
		if d.Extra == nil {
			d.Extra = map[string]json.RawMessage{}
		}
		d.Extra[key] = data
	}
	return nil
}

func decodeRecords(key string, data json.RawMessage) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("collection %q must be a JSON array: %w", key, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	fresh := NewDocument()
	*d = *fresh
	for _, key := range Collections() {
		raw, ok := fields[key]
		if !ok || isJSONNull(raw) {
			delete(fields, key)
			continue
		}
		if err := d.SetCollection(key, raw); err != nil {
			return err
		}
		delete(fields, key)
	}
	if len(fields) > 0 {
		d.Extra = fields
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range Collections() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, key)
		buf.WriteByte(':')
		encoded, err := json.Marshal(d.collection(key))
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	if len(d.Extra) > 0 {
		keys := make([]string, 0, len(d.Extra))
		for k := range d.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteByte(',')
			writeString(&buf, k)
			buf.WriteByte(':')
			buf.Write(d.Extra[k])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// collection returns the named fixed collection as a marshalable value,
// substituting an empty array for nil so the persisted document never holds
// JSON null.
func (d Document) collection(key string) any {
	nonNil := func(records []json.RawMessage) []json.RawMessage {
		if records == nil {
			return []json.RawMessage{}
		}
		return records
	}
	switch key {
	case CollectionUsers:
		return nonNil(d.Users)
	case CollectionProjects:
		if d.Projects == nil {
			return []Project{}
		}
		return d.Projects
	case CollectionStages:
		if d.Stages == nil {
			return []Stage{}
		}
		return d.Stages
	case CollectionNotifications:
		return nonNil(d.Notifications)
	case CollectionDelayRecords:
		return nonNil(d.DelayRecords)
	case CollectionLessonsLearned:
		return nonNil(d.LessonsLearned)
	case CollectionProjectReports:
		return nonNil(d.ProjectReports)
	}
	return nil
}
