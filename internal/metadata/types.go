package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// SampleIDKey is the JSON key carrying an entry's sample identifier.
const SampleIDKey = "sampleId"

// Entry is one linelist row: a sample and its metadata values.
type Entry struct {
	SampleID string
	Fields   map[string]any
}

// Value returns the value stored for field and whether it is present.
func (e Entry) Value(field string) (any, bool) {
	v, ok := e.Fields[field]
	return v, ok
}

// Clone returns a copy whose field map is independent of e.
func (e Entry) Clone() Entry {
	return Entry{SampleID: e.SampleID, Fields: maps.Clone(e.Fields)}
}

// UnmarshalJSON decodes the flat {"sampleId": "S1", "age": 30} wire shape.
func (e *Entry) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	id, ok := raw[SampleIDKey]
	if !ok {
		return fmt.Errorf("entry missing %s", SampleIDKey)
	}
	switch v := id.(type) {
	case string:
		e.SampleID = v
	case float64:
		e.SampleID = FormatValue(v)
	default:
		return fmt.Errorf("entry %s has unsupported type %T", SampleIDKey, id)
	}
	delete(raw, SampleIDKey)
	fields := make(map[string]any, len(raw))
	for key, value := range raw {
		if !isScalar(value) {
			return fmt.Errorf("entry %s field %q is not a scalar", e.SampleID, key)
		}
		fields[key] = value
	}
	e.Fields = fields
	return nil
}

// MarshalJSON encodes the entry in its flat wire shape.
func (e Entry) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(e.Fields)+1)
	for key, value := range e.Fields {
		flat[key] = value
	}
	flat[SampleIDKey] = e.SampleID
	return json.Marshal(flat)
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, float64, bool:
		return true
	default:
		return false
	}
}

// EntryListResponse mirrors the entries endpoint.
type EntryListResponse struct {
	Entries []Entry `json:"entries"`
}

// SaveRequest addresses a single cell update.
type SaveRequest struct {
	SampleID string
	Field    string
	Label    string
	Value    any
}

type saveFieldBody struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// DeleteResult is returned when a field is removed from all entries.
type DeleteResult struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Project mirrors the project details endpoint.
type Project struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Description  string `json:"description"`
	Organism     string `json:"organism"`
	CreatedDate  string `json:"createdDate"`
	ModifiedDate string `json:"modifiedDate"`
}

// ParsedCreatedDate returns CreatedDate as time.Time when possible.
func (p Project) ParsedCreatedDate() time.Time {
	return parseTime(p.CreatedDate)
}

// ParsedModifiedDate returns ModifiedDate as time.Time when possible.
func (p Project) ParsedModifiedDate() time.Time {
	return parseTime(p.ModifiedDate)
}

var editableProjectAttributes = []string{"label", "description", "organism"}

// IsEditableProjectAttribute reports whether field can be changed with
// UpdateProjectAttribute.
func IsEditableProjectAttribute(field string) bool {
	return slices.Contains(editableProjectAttributes, strings.TrimSpace(field))
}

// EditableProjectAttributes lists attributes accepted by UpdateProjectAttribute.
func EditableProjectAttributes() []string {
	return slices.Clone(editableProjectAttributes)
}

type projectAttributeBody struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

const serverTimestampLayout = "2006-01-02 15:04:05"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(serverTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
