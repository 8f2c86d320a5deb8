package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute},
		{"many failures capped", 40, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

type recordingDispatcher struct {
	mu      sync.Mutex
	intents []linelist.Intent
	err     error
	calls   chan struct{}
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{calls: make(chan struct{}, 64)}
}

func (d *recordingDispatcher) Dispatch(_ context.Context, in linelist.Intent) error {
	d.mu.Lock()
	d.intents = append(d.intents, in)
	err := d.err
	d.mu.Unlock()
	d.calls <- struct{}{}
	return err
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.intents)
}

func waitForCalls(t *testing.T, d *recordingDispatcher, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for range n {
		select {
		case <-d.calls:
		case <-deadline:
			t.Fatalf("dispatch calls = %d, want at least %d", d.count(), n)
		}
	}
}

func TestStartRefresher_DispatchesLoadRequested(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := newRecordingDispatcher()
	store := &state.Store{}

	done := StartRefresher(ctx, d, store, 5*time.Millisecond)
	waitForCalls(t, d, 3)
	cancel()
	<-done

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, in := range d.intents {
		if _, ok := in.(linelist.LoadRequested); !ok {
			t.Fatalf("intent[%d] = %T, want linelist.LoadRequested", i, in)
		}
	}
}

func TestStartRefresher_SkipsWhileLoading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newRecordingDispatcher()
	store := &state.Store{}
	store.Apply(state.LoadStarted{})

	done := StartRefresher(ctx, d, store, 2*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if got := d.count(); got != 0 {
		t.Fatalf("dispatch calls while loading = %d, want 0", got)
	}

	store.Apply(state.Loaded{})
	waitForCalls(t, d, 1)
	cancel()
	<-done
}

func TestStartRefresher_KeepsRunningAfterDispatchError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := newRecordingDispatcher()
	d.err = errors.New("queue full")

	done := StartRefresher(ctx, d, &state.Store{}, 2*time.Millisecond)
	waitForCalls(t, d, 2)
	cancel()
	<-done
}

func TestStartRefresher_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := StartRefresher(ctx, newRecordingDispatcher(), &state.Store{}, time.Hour)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("refresher did not stop after cancel")
	}
}
