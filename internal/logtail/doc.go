// Package logtail reads the tail of the linelist activity log.
//
// # Overview
//
// The TUI shows recent activity by reading the same JSON log file the
// logging package writes. Read extracts the last N lines of a file with a
// ring buffer, so memory stays O(maxLines) whatever the file size. Parse
// turns a JSON line into a Record and Format renders a Record on one line
// for the activity pane.
//
// # Reading Log Files
//
//	recs, err := logtail.ReadRecords(cfg.LogPath(), 200)
//	if err != nil {
//		return err
//	}
//	for _, rec := range recs {
//		fmt.Println(logtail.Format(rec))
//	}
//
// A maxLines of zero or less returns the whole file. Lines longer than 1MB
// fail the read.
//
// # Record Format
//
// The keys written by the logging package are recognized:
//
//   - ts: RFC3339 timestamp, parsed into Record.Time
//   - level: lowercased severity
//   - msg: the message
//
// Every other key lands in Record.Attrs as a string. Lines that are not JSON
// (a text-format log, or a partial write) are kept as plain messages.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files. Other errors are returned
// wrapped. Parse and Format never fail.
package logtail
