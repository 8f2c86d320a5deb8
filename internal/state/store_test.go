package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/linelist/internal/metadata"
)

func TestStore_ZeroValueIsUninitialized(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Status != StatusUninitialized {
		t.Fatalf("Status = %v, want uninitialized", snap.Status)
	}
	if snap.Version != 0 || !snap.LastUpdated.IsZero() {
		t.Fatalf("snapshot = %#v, want zero bookkeeping", snap)
	}
}

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Apply(LoadStarted{})
	s.Apply(Loaded{Entries: []metadata.Entry{{SampleID: "S1", Fields: map[string]any{"age": float64(30)}}}})

	snap := s.Snapshot()
	if snap.Status != StatusReady {
		t.Fatalf("Status = %v, want ready", snap.Status)
	}
	if snap.Version != 2 {
		t.Fatalf("Version = %d, want 2", snap.Version)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Entries[0].Fields["age"] = float64(999)
	snap2 := s.Snapshot()
	if snap2.Entries[0].Fields["age"] != float64(30) {
		t.Fatalf("Snapshot should clone entries; got age %v want 30", snap2.Entries[0].Fields["age"])
	}
}

func TestStore_LoadFailureKeepsPreviousEntries(t *testing.T) {
	var s Store

	s.Apply(Loaded{Entries: []metadata.Entry{{SampleID: "S1"}}})
	origErr := errors.New("boom")
	s.Apply(LoadStarted{})
	s.Apply(LoadFailed{Err: origErr})

	snap := s.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("Status = %v, want failed", snap.Status)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].SampleID != "S1" {
		t.Fatalf("entries changed on error: %#v", snap.Entries)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned LastError should still wrap the original")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	s.Apply(LoadFailed{Err: errors.New("fail 1")})
	if snap := s.Snapshot(); snap.Failures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: Failures = %d offline = %v, want 1 false", snap.Failures, snap.IsOffline())
	}

	s.Apply(LoadFailed{Err: errors.New("fail 2")})
	if snap := s.Snapshot(); snap.Failures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: Failures = %d offline = %v, want 2 true", snap.Failures, snap.IsOffline())
	}

	s.Apply(Loaded{})
	if snap := s.Snapshot(); snap.Failures != 0 || snap.IsOffline() {
		t.Fatalf("after success: Failures = %d offline = %v, want 0 false", snap.Failures, snap.IsOffline())
	}
}

func TestStore_ConcurrentApplyIsSerialized(t *testing.T) {
	var s Store
	s.Apply(Loaded{Entries: []metadata.Entry{{SampleID: "S1", Fields: map[string]any{}}}})

	const writers = 32
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply(EntryPatched{SampleID: "S1", Field: fieldName(i), Value: float64(i)})
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if got := len(snap.Entries[0].Fields); got != writers {
		t.Fatalf("S1 has %d fields, want %d", got, writers)
	}
	if len(snap.Fields) != writers {
		t.Fatalf("Fields = %d, want %d", len(snap.Fields), writers)
	}
	if snap.Version != writers+1 {
		t.Fatalf("Version = %d, want %d", snap.Version, writers+1)
	}
}

func fieldName(i int) string {
	return "f" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}
