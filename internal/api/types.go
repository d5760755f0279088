// Package api defines the todolist data model and the gateway contract to the
// document database, plus an HTTP/WebSocket client for the document server.
package api

import (
	"bytes"
	"encoding/json"
)

// Task represents a single todo item.
type Task struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"` // MM/DD/YYYY, empty when unscheduled
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
	Archived  Flag   `json:"archived"`
}

// Project represents a user-owned list of tasks.
type Project struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	UserID    string `json:"userId"`
	DocID     string `json:"docId,omitempty"` // storage key, assigned by the gateway
}

// Flag is the archived marker of a task. It keeps the raw JSON value so that
// documents carrying a missing or non-boolean marker are not coerced to false.
type Flag struct {
	raw json.RawMessage
}

var (
	jsonTrue  = []byte("true")
	jsonFalse = []byte("false")
)

// Bool returns a Flag holding a strict boolean.
func Bool(b bool) Flag {
	if b {
		return Flag{raw: jsonTrue}
	}
	return Flag{raw: jsonFalse}
}

// IsTrue reports whether the flag is the boolean true.
func (f Flag) IsTrue() bool {
	return bytes.Equal(f.raw, jsonTrue)
}

// IsFalse reports whether the flag is the boolean false.
func (f Flag) IsFalse() bool {
	return bytes.Equal(f.raw, jsonFalse)
}

// IsSet reports whether the flag carries any value at all.
func (f Flag) IsSet() bool {
	return len(f.raw) > 0 && !bytes.Equal(f.raw, []byte("null"))
}

// String renders the raw marker, mostly for logs and tests.
func (f Flag) String() string {
	if !f.IsSet() {
		return "unset"
	}
	return string(f.raw)
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0:0], bytes.TrimSpace(data)...)
	return nil
}

// TaskFilter narrows a task subscription. UserID is always required.
// A nil Date means "any date"; a pointer to "" means "unscheduled only".
type TaskFilter struct {
	UserID    string
	ProjectID string
	Date      *string
}

// Matches reports whether a task satisfies every constraint of the filter.
func (f TaskFilter) Matches(t Task) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.Date != nil && t.Date != *f.Date {
		return false
	}
	return true
}

// DateOnly is a helper for building a TaskFilter date constraint.
func DateOnly(date string) *string {
	return &date
}

// Snapshot is the wire form of a task subscription delivery.
type Snapshot struct {
	Tasks []Task `json:"tasks"`
}

// CreatedResponse is returned by the document server for create mutations.
type CreatedResponse struct {
	ID    string `json:"id,omitempty"`
	DocID string `json:"docId,omitempty"`
}
