// Package linelist runs the synchronization process between the view, the
// metadata service and the local store.
//
// # Overview
//
// The view never talks to the service directly. It dispatches intents; the
// process routes each intent to the loop that owns it, calls the gateway, and
// applies outcomes to the state.Store. User-facing results go to a Notifier.
//
//	view ──Dispatch──> Process ──gateway call──> metadata service
//	                      │
//	                      ├──store.Apply(outcome)──> state.Store ──Snapshot──> view
//	                      └──Notify──> notification banner
//
// # Loops
//
// Start launches four goroutines, each blocked on its own channel:
//
//   - Initial load: waits for the first Started, loads once, exits. Later
//     Started intents are dropped. Failures leave the store failed and are
//     not retried.
//   - Entry edit: patches the cell in the store immediately, then hands the
//     save to a per-cell sequencer and goes back to listening. Saves to
//     different cells run concurrently; saves to the same cell run in the
//     order they were submitted, so the last edit is the one that sticks.
//     Failed saves produce an error notification and are not rolled back.
//   - Field removal: deletes the field on the service, notifies with the
//     server's message (or the error), then reloads exactly once whatever the
//     outcome.
//   - Refresh: reloads once per LoadRequested.
//
// All loads share a mutex, so two fetches are never in flight together and a
// stale response can never overwrite a newer one.
//
// # Failure Handling
//
// Gateway errors are converted into store events and notifications; a panic
// inside a handler is recovered and reported. No failure stops a loop. Saves
// in flight are not cancelled by reloads; their results are superseded by the
// next Loaded.
//
// # Usage Example
//
//	proc, err := linelist.New(linelist.Options{
//		Gateway:   client,
//		ProjectID: cfg.ProjectID,
//		Store:     store,
//		Notifier:  notes,
//		Logger:    logger,
//	})
//	if err != nil {
//		return err
//	}
//	proc.Start(ctx)
//	_ = proc.Dispatch(ctx, linelist.Started{})
//	_ = proc.Dispatch(ctx, linelist.EntryEdited{SampleID: "S1", Field: "age", Value: 31.0})
//
// Settle waits until everything dispatched so far has been handled, which is
// what the one-shot CLI commands and the tests use.
package linelist
