package linelist

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidIntent is returned by Dispatch for intents missing required fields.
var ErrInvalidIntent = errors.New("invalid intent")

// Intent is a request for action coming from the view or CLI.
type Intent interface {
	intentName() string
	requestID() string
}

// Started is the application-start signal. Only the first one triggers the
// initial load; later ones are dropped.
type Started struct {
	RequestID string
}

// LoadRequested asks for a full reload of the linelist.
type LoadRequested struct {
	RequestID string
}

// EntryEdited sets one cell. Label is the column label sent to the service;
// empty uses the label derived from Field.
type EntryEdited struct {
	RequestID string
	SampleID  string
	Field     string
	Value     any
	Label     string
}

// FieldRemovalRequested removes a field from every entry.
type FieldRemovalRequested struct {
	RequestID string
	Field     string
}

func (Started) intentName() string               { return "started" }
func (LoadRequested) intentName() string         { return "load_requested" }
func (EntryEdited) intentName() string           { return "entry_edited" }
func (FieldRemovalRequested) intentName() string { return "field_removal_requested" }

func (i Started) requestID() string               { return i.RequestID }
func (i LoadRequested) requestID() string         { return i.RequestID }
func (i EntryEdited) requestID() string           { return i.RequestID }
func (i FieldRemovalRequested) requestID() string { return i.RequestID }

func ensureRequestID(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return uuid.NewString()
}

// cell addresses a single (sample, field) pair.
type cell struct {
	sampleID string
	field    string
}

func (e EntryEdited) cell() cell {
	return cell{sampleID: e.SampleID, field: e.Field}
}
