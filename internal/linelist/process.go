package linelist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/linelist/internal/metadata"
	"github.com/five82/linelist/internal/state"
)

const defaultQueueSize = 64

// Options configure a Process.
type Options struct {
	Gateway   metadata.Gateway
	ProjectID string
	Store     *state.Store
	Notifier  Notifier     // nil discards notifications
	Logger    *slog.Logger // nil discards logs
	QueueSize int          // per-intent channel buffer; zero uses 64
}

// Process is the synchronization process between intents, the gateway and
// the store. It owns four loops:
//
//   - initial load: one pass after the first Started
//   - entry edit: optimistic patch, then a sequenced save per cell
//   - field removal: delete, notify, then one full reload
//   - refresh: one reload per LoadRequested
//
// Loads from any loop are serialized by loadMu.
type Process struct {
	gateway   metadata.Gateway
	projectID string
	store     *state.Store
	notifier  Notifier
	logger    *slog.Logger

	started  chan Started
	loads    chan LoadRequested
	edits    chan EntryEdited
	removals chan FieldRemovalRequested

	startRequested atomic.Bool
	startOnce      sync.Once
	loadMu         sync.Mutex
	saves          *cellSequencer
	loops          sync.WaitGroup
	pending        inflight
}

// New validates opts and builds a Process. Call Start to launch the loops.
func New(opts Options) (*Process, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("linelist process requires a gateway")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("linelist process requires a store")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Process{
		gateway:   opts.Gateway,
		projectID: strings.TrimSpace(opts.ProjectID),
		store:     opts.Store,
		notifier:  notifier,
		logger:    logger.With("component", "linelist"),
		started:   make(chan Started, 1),
		loads:     make(chan LoadRequested, size),
		edits:     make(chan EntryEdited, size),
		removals:  make(chan FieldRemovalRequested, size),
		saves:     newCellSequencer(),
	}, nil
}

// Start launches the loops. They run until ctx is cancelled. Calling Start
// more than once has no effect.
func (p *Process) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.loops.Add(4)
		go p.runInitialLoad(ctx)
		go p.runEdits(ctx)
		go p.runRemovals(ctx)
		go p.runRefreshes(ctx)
	})
}

// Dispatch hands an intent to its loop. It blocks only while the loop's queue
// is full; ctx bounds that wait.
func (p *Process) Dispatch(ctx context.Context, in Intent) error {
	switch v := in.(type) {
	case Started:
		if !p.startRequested.CompareAndSwap(false, true) {
			p.logger.Debug("start signal ignored", "reason", "initial load already requested")
			return nil
		}
		v.RequestID = ensureRequestID(v.RequestID)
		p.pending.add()
		p.started <- v
		return nil
	case LoadRequested:
		v.RequestID = ensureRequestID(v.RequestID)
		return send(ctx, &p.pending, p.loads, v)
	case EntryEdited:
		if strings.TrimSpace(v.SampleID) == "" || strings.TrimSpace(v.Field) == "" {
			return fmt.Errorf("%w: entry edit needs sample id and field", ErrInvalidIntent)
		}
		if !metadata.IsFinite(v.Value) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidIntent, v.Field)
		}
		v.RequestID = ensureRequestID(v.RequestID)
		if strings.TrimSpace(v.Label) == "" {
			v.Label = metadata.FieldLabel(v.Field)
		}
		return send(ctx, &p.pending, p.edits, v)
	case FieldRemovalRequested:
		if strings.TrimSpace(v.Field) == "" {
			return fmt.Errorf("%w: field removal needs a field", ErrInvalidIntent)
		}
		v.RequestID = ensureRequestID(v.RequestID)
		return send(ctx, &p.pending, p.removals, v)
	case nil:
		return fmt.Errorf("%w: nil intent", ErrInvalidIntent)
	default:
		return fmt.Errorf("%w: unsupported intent %T", ErrInvalidIntent, in)
	}
}

func send[T any](ctx context.Context, pending *inflight, ch chan<- T, v T) error {
	pending.add()
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		pending.done()
		return ctx.Err()
	}
}

// Settle blocks until every dispatched intent has been fully handled,
// including the saves it spawned, or until ctx is done.
func (p *Process) Settle(ctx context.Context) error {
	return p.pending.wait(ctx)
}

// Wait blocks until the loops have exited and queued saves have finished.
func (p *Process) Wait() {
	p.loops.Wait()
	p.saves.wait()
}

func (p *Process) runInitialLoad(ctx context.Context) {
	defer p.loops.Done()
	select {
	case <-ctx.Done():
		return
	case in := <-p.started:
		p.handle(in, func() {
			p.load(ctx, in.RequestID, "initial")
		})
		p.pending.done()
		p.logger.Debug("initial load loop completed")
	}
}

func (p *Process) runEdits(ctx context.Context) {
	defer p.loops.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-p.edits:
			p.handle(in, func() {
				p.store.Apply(state.EntryPatched{SampleID: in.SampleID, Field: in.Field, Value: in.Value})
			})
			p.saves.submit(in, func(e EntryEdited) {
				defer p.pending.done()
				p.handle(e, func() { p.save(ctx, e) })
			})
		}
	}
}

func (p *Process) runRemovals(ctx context.Context) {
	defer p.loops.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-p.removals:
			p.handle(in, func() { p.removeField(ctx, in) })
			p.handle(in, func() { p.load(ctx, in.RequestID, "field removed") })
			p.pending.done()
		}
	}
}

func (p *Process) runRefreshes(ctx context.Context) {
	defer p.loops.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-p.loads:
			p.handle(in, func() { p.load(ctx, in.RequestID, "refresh") })
			p.pending.done()
		}
	}
}

// handle runs fn and converts a panic into an error notification so the
// calling loop keeps listening.
func (p *Process) handle(in Intent, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("intent handler panicked",
				"intent", in.intentName(),
				"request_id", in.requestID(),
				"panic", fmt.Sprint(r),
			)
			p.notify(LevelError, fmt.Sprintf("Internal error handling %s", strings.ReplaceAll(in.intentName(), "_", " ")), in.requestID())
		}
	}()
	fn()
}

func (p *Process) load(ctx context.Context, requestID, reason string) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	start := time.Now()
	p.store.Apply(state.LoadStarted{})
	entries, err := p.gateway.FetchEntries(metadata.WithRequestID(ctx, requestID), p.projectID)
	if err != nil {
		p.store.Apply(state.LoadFailed{Err: err})
		p.logger.Warn("linelist load failed",
			"request_id", requestID,
			"reason", reason,
			"error_kind", errorKind(err),
			"error", err,
		)
		p.notify(LevelError, "Unable to load linelist: "+metadata.UserMessage(err), requestID)
		return
	}
	p.store.Apply(state.Loaded{Entries: entries})
	p.logger.Info("linelist loaded",
		"request_id", requestID,
		"reason", reason,
		"entries", len(entries),
		"duration", time.Since(start),
	)
}

func (p *Process) save(ctx context.Context, in EntryEdited) {
	err := p.gateway.SaveField(metadata.WithRequestID(ctx, in.RequestID), metadata.SaveRequest{
		SampleID: in.SampleID,
		Field:    in.Field,
		Label:    in.Label,
		Value:    in.Value,
	})
	if err != nil {
		p.store.Apply(state.SaveFailed{SampleID: in.SampleID, Field: in.Field, Err: err})
		p.logger.Warn("entry save failed",
			"request_id", in.RequestID,
			"sample_id", in.SampleID,
			"field", in.Field,
			"error_kind", errorKind(err),
			"error", err,
		)
		p.notify(LevelError, metadata.UserMessage(err), in.RequestID)
		return
	}
	p.logger.Info("entry saved",
		"request_id", in.RequestID,
		"sample_id", in.SampleID,
		"field", in.Field,
	)
	p.notify(LevelSuccess, "Saved", in.RequestID)
}

func (p *Process) removeField(ctx context.Context, in FieldRemovalRequested) {
	result, err := p.gateway.DeleteField(metadata.WithRequestID(ctx, in.RequestID), in.Field)
	if err != nil {
		p.logger.Warn("field removal failed",
			"request_id", in.RequestID,
			"field", in.Field,
			"error_kind", errorKind(err),
			"error", err,
		)
		p.notify(LevelError, metadata.UserMessage(err), in.RequestID)
		return
	}
	message := strings.TrimSpace(result.Message)
	if message == "" {
		message = fmt.Sprintf("Removed %s", metadata.FieldLabel(in.Field))
	}
	p.logger.Info("field removed", "request_id", in.RequestID, "field", in.Field)
	p.notify(LevelInfo, message, in.RequestID)
}

func (p *Process) notify(level Level, text, requestID string) {
	p.notifier.Notify(Notification{
		Level:     level,
		Text:      text,
		RequestID: requestID,
		Time:      time.Now(),
	})
}

func errorKind(err error) string {
	var apiErr *metadata.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorKind()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "unknown"
}
