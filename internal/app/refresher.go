package app

import (
	"context"
	"time"

	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/state"
)

const (
	defaultRefreshInterval = 30 * time.Second
	maxBackoff             = 5 * time.Minute
)

// Dispatcher accepts intents. *linelist.Process satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, in linelist.Intent) error
}

// StartRefresher launches a background goroutine that requests a reload at
// a fixed cadence, backing off while loads keep failing. Ticks are skipped
// while a load is already in progress. The returned channel closes when the
// goroutine exits.
func StartRefresher(ctx context.Context, d Dispatcher, store *state.Store, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			snap := store.Snapshot()
			if snap.Status != state.StatusLoading {
				if err := d.Dispatch(ctx, linelist.LoadRequested{}); err != nil && ctx.Err() != nil {
					return
				}
			}
			timer.Reset(calculateBackoff(snap.Failures, interval))
		}
	}()
	return done
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	next := base
	for range failures {
		next *= 2
		if next >= maxBackoff {
			return maxBackoff
		}
	}
	return next
}
