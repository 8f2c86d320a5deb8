package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the latest linelist available to the view.
type Snapshot struct {
	State
	LastUpdated time.Time
	Version     uint64 // increments on every Apply
}

// IsOffline returns true when the service has failed several loads in a row.
func (s Snapshot) IsOffline() bool {
	return s.Failures >= 2
}

// Store serializes reducer application. The zero value is ready to use.
type Store struct {
	mu          sync.RWMutex
	state       State
	lastUpdated time.Time
	version     uint64
}

// Apply reduces ev into the stored state atomically and returns the result.
func (s *Store) Apply(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, ev)
	s.lastUpdated = time.Now()
	s.version++
	return s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:       s.state.Clone(),
		LastUpdated: s.lastUpdated,
		Version:     s.version,
	}
	if s.state.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.state.LastError)
	}
	if s.state.LastSaveError != nil {
		snap.LastSaveError = fmt.Errorf("%w", s.state.LastSaveError)
	}
	return snap
}
