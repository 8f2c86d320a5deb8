package state

import (
	"maps"
	"slices"

	"github.com/five82/linelist/internal/metadata"
)

// Status is the load lifecycle of the linelist.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// State is the last-known-good linelist plus load bookkeeping.
type State struct {
	Status        Status
	Entries       []metadata.Entry
	Fields        []string // sorted union of entry field names
	LastError     error    // most recent load failure; cleared on Loaded
	LastSaveError error    // most recent save failure
	Failures      int      // consecutive load failures
	Generation    int      // successful loads applied
}

// Event is an outcome, or the local effect of an intent, applied by Reduce.
type Event interface {
	event()
}

// LoadStarted marks a fetch as in flight.
type LoadStarted struct{}

// Loaded replaces the entry set with a fresh fetch result.
type Loaded struct {
	Entries []metadata.Entry
}

// LoadFailed records a failed fetch. Entries from earlier loads are kept.
type LoadFailed struct {
	Err error
}

// EntryPatched sets one cell in place. It is applied optimistically before
// the save is confirmed.
type EntryPatched struct {
	SampleID string
	Field    string
	Value    any
}

// SaveFailed records a failed save. The optimistic value is not rolled back.
type SaveFailed struct {
	SampleID string
	Field    string
	Err      error
}

func (LoadStarted) event()  {}
func (Loaded) event()       {}
func (LoadFailed) event()   {}
func (EntryPatched) event() {}
func (SaveFailed) event()   {}

// Reduce returns the state that results from applying ev to s. It never
// mutates s, so equal inputs always produce equal outputs.
func Reduce(s State, ev Event) State {
	next := s.Clone()
	switch e := ev.(type) {
	case LoadStarted:
		next.Status = StatusLoading
	case Loaded:
		next.Entries = cloneEntries(e.Entries)
		next.Fields = collectFields(next.Entries)
		next.Status = StatusReady
		next.LastError = nil
		next.Failures = 0
		next.Generation++
	case LoadFailed:
		next.Status = StatusFailed
		next.LastError = e.Err
		next.Failures++
	case EntryPatched:
		idx := indexOf(next.Entries, e.SampleID)
		if idx < 0 || e.Field == "" {
			return next
		}
		entry := next.Entries[idx]
		if entry.Fields == nil {
			entry.Fields = make(map[string]any, 1)
		}
		entry.Fields[e.Field] = e.Value
		next.Entries[idx] = entry
		if _, found := slices.BinarySearch(next.Fields, e.Field); !found {
			next.Fields = append(next.Fields, e.Field)
			slices.Sort(next.Fields)
		}
	case SaveFailed:
		next.LastSaveError = e.Err
	}
	return next
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	dup := s
	dup.Entries = cloneEntries(s.Entries)
	dup.Fields = slices.Clone(s.Fields)
	return dup
}

// Entry returns the entry for sampleID.
func (s State) Entry(sampleID string) (metadata.Entry, bool) {
	idx := indexOf(s.Entries, sampleID)
	if idx < 0 {
		return metadata.Entry{}, false
	}
	return s.Entries[idx].Clone(), true
}

func indexOf(entries []metadata.Entry, sampleID string) int {
	return slices.IndexFunc(entries, func(e metadata.Entry) bool {
		return e.SampleID == sampleID
	})
}

func cloneEntries(entries []metadata.Entry) []metadata.Entry {
	if entries == nil {
		return nil
	}
	dup := make([]metadata.Entry, len(entries))
	for i, e := range entries {
		dup[i] = e.Clone()
	}
	return dup
}

func collectFields(entries []metadata.Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		for key := range e.Fields {
			seen[key] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(seen))
}
