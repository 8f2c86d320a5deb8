// Package app is the composition root for linelist.
//
// # Overview
//
// Open wires configuration, preferences, logging, the metadata client, the
// state.Store and the linelist.Process into a Session and starts the process
// loops. Both the TUI (Run) and the one-shot CLI commands go through Open, so
// they share the same config resolution and log file.
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       ├─────> config.Load()        ~/.config/linelist/config.toml
//	       ├─────> prefs.Load()         theme and hidden columns
//	       ├─────> logging.New()        JSON log in <log_dir>/linelist.log
//	       ├─────> metadata.NewClient() gateway to the metadata service
//	       ├─────> state.Store{}        shared linelist state
//	       └─────> linelist.New()       synchronization loops
//
//	Run():
//	  Open ─> Dispatch(Started) ─> StartRefresher ─> ui.Run (blocks)
//
// # Refresher
//
// StartRefresher dispatches LoadRequested every RefreshEvery. A tick is
// skipped while a load is already running. After consecutive load failures
// the interval doubles per failure up to five minutes, and returns to normal
// after the next successful load. A zero interval disables it.
//
// # Error Handling
//
// Open fails on an unreadable config, a missing project_id, or a log file
// that cannot be created. Everything after that is reported through
// notifications and the store; the session keeps running.
//
// # Usage Example
//
//	session, err := app.Open(ctx, app.Options{ProjectID: "7"}, notifier)
//	if err != nil {
//		return err
//	}
//	defer session.Close()
//	if err := session.LoadAndSettle(ctx); err != nil {
//		return err
//	}
//	snap := session.Store.Snapshot()
package app
