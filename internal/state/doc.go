// Package state holds the linelist shown by the view and the reducer that
// evolves it.
//
// # Overview
//
// State is a plain value: the load status, the last-known-good entries, the
// sorted field list and some failure bookkeeping. It only changes through
// Reduce, a pure function from (State, Event) to State. Store wraps the
// current State behind a mutex so the synchronization loops can apply events
// from several goroutines while the UI takes snapshots.
//
//	Synchronization loops:           View:
//	┌──────────────────────┐        ┌──────────────────┐
//	│ store.Apply(event)   │        │ store.Snapshot() │
//	│   └─> Reduce (lock)  │───────→│   └─> render     │
//	└──────────────────────┘        └──────────────────┘
//
// # Events
//
//   - LoadStarted:  status → loading
//   - Loaded:       entries replaced wholesale, status → ready
//   - LoadFailed:   status → failed, entries kept, error recorded
//   - EntryPatched: one cell set in place (optimistic edit)
//   - SaveFailed:   error recorded, no rollback
//
// Field removal has no event of its own. The synchronization process reloads
// after a removal and the fresh Loaded replaces everything.
//
// # Determinism
//
// Reduce never reads clocks and never mutates its input; it clones entries on
// the way in and out. Applying the same event to the same state twice yields
// equal results, which keeps reducer tests free of fakes. Store adds the
// wall-clock LastUpdated and a Version counter outside the reducer.
//
// # Usage Example
//
//	var store state.Store // zero value is ready
//	store.Apply(state.LoadStarted{})
//	store.Apply(state.Loaded{Entries: entries})
//
//	snap := store.Snapshot()
//	if entry, ok := snap.Entry("S1"); ok {
//		fmt.Println(entry.Fields["age"])
//	}
package state
