package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary details.
	LayoutCompactWidth = 100
)

// Grid sizing.
const (
	minColumnWidth    = 6
	maxColumnWidth    = 28
	sampleColumnWidth = 14
	chromeHeight      = 4 // header, command bar, notice line, table header
)

// Activity pane.
const (
	activityLines  = 200
	activityHeight = 8
)

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot poll interval.
	DefaultUIInterval = 500 * time.Millisecond

	// NoticeTTL is how long a notification stays in the footer.
	NoticeTTL = 5 * time.Second

	// ProjectFetchTimeout bounds the header's project lookup.
	ProjectFetchTimeout = 10 * time.Second
)
