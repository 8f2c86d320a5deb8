package linelist

import (
	"context"
	"sync"
)

// cellSequencer runs saves concurrently across cells while keeping saves to
// the same cell in submission order. A worker goroutine exists per cell only
// while that cell has queued saves.
type cellSequencer struct {
	mu      sync.Mutex
	pending map[cell][]EntryEdited
	workers sync.WaitGroup
}

func newCellSequencer() *cellSequencer {
	return &cellSequencer{pending: make(map[cell][]EntryEdited)}
}

// submit queues e and returns immediately. run is called once per submitted
// edit from the cell's worker goroutine.
func (s *cellSequencer) submit(e EntryEdited, run func(EntryEdited)) {
	key := e.cell()

	s.mu.Lock()
	queue, active := s.pending[key]
	s.pending[key] = append(queue, e)
	s.mu.Unlock()

	if active {
		return
	}
	s.workers.Add(1)
	go s.drain(key, run)
}

func (s *cellSequencer) drain(key cell, run func(EntryEdited)) {
	defer s.workers.Done()
	for {
		s.mu.Lock()
		queue := s.pending[key]
		if len(queue) == 0 {
			delete(s.pending, key)
			s.mu.Unlock()
			return
		}
		next := queue[0]
		s.pending[key] = queue[1:]
		s.mu.Unlock()

		run(next)
	}
}

func (s *cellSequencer) wait() {
	s.workers.Wait()
}

// inflight counts dispatched intents that have not finished processing.
type inflight struct {
	mu    sync.Mutex
	count int
	idle  chan struct{}
}

func (f *inflight) add() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.count == 0 {
		f.idle = make(chan struct{})
	}
	f.count++
}

func (f *inflight) done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.count == 0 {
		return
	}
	f.count--
	if f.count == 0 {
		close(f.idle)
	}
}

// wait blocks until nothing is in flight or ctx is done.
func (f *inflight) wait(ctx context.Context) error {
	for {
		f.mu.Lock()
		if f.count == 0 {
			f.mu.Unlock()
			return nil
		}
		idle := f.idle
		f.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
