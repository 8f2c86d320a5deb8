// Package ui provides the terminal user interface for linelist.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never calls the metadata service
// directly: edits, field removals and reloads are dispatched as intents to
// the synchronization process, and the grid is redrawn from state.Store
// snapshots polled on a tick. Notifications produced by the process arrive
// on a channel and are shown in the footer for a few seconds.
//
// # Package Structure
//
//   - app.go: Model, Update/View, key handling, messages and commands, Run
//   - grid.go: column sizing, horizontal windowing, bubbles/table rendering
//   - header.go: project/status header, command bar, footer, activity pane
//   - keys.go: key.Binding map used for matching and help text
//   - help.go: help overlay built from the key map
//   - theme.go: lipgloss palettes (Dracula, Nightfox, Slate)
//   - style_helpers.go: background-safe segment rendering
//
// # Grid
//
// One row per sample, one column per field. The Sample ID column is pinned
// on the left; the other columns scroll horizontally so the selected column
// is always visible. Column labels come from metadata.FieldLabel. Hidden
// columns are stored in prefs and survive restarts.
//
// # Editing
//
//   - enter/e opens a text input on the selected cell, prefilled with the
//     current value. Enter saves through an EntryEdited intent built with
//     metadata.EditValue: number and boolean cells stay typed, and any other
//     cell saves the text exactly as typed. Esc cancels.
//   - x asks for confirmation, then dispatches FieldRemovalRequested.
//   - r dispatches LoadRequested and refetches the project header.
//
// The process applies edits optimistically, so the new value appears on the
// next tick whether or not the save has finished.
//
// # Key Bindings
//
//   - j/k, up/down: move between samples
//   - h/l, left/right, tab: move between fields
//   - g/G: first/last sample
//   - H: hide the selected column, A: show all columns
//   - a: toggle the activity log pane
//   - T: cycle theme
//   - ?: help
//   - q or Ctrl+C: quit
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:       ctx,
//		Dispatcher:    process,
//		Store:         store,
//		Projects:      client,
//		Notifications: notes.C(),
//		LogPath:       cfg.LogPath(),
//		Prefs:         userPrefs,
//	})
package ui
