package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/linelist/internal/config"
	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/logging"
	"github.com/five82/linelist/internal/metadata"
	"github.com/five82/linelist/internal/prefs"
	"github.com/five82/linelist/internal/state"
)

// Options configure a linelist session. Empty fields fall back to the
// config file.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/linelist/prefs.toml
	APIURL       string
	ProjectID    string
	RefreshEvery time.Duration
	LogPath      string // overrides <log_dir>/linelist.log, e.g. "stderr"
}

// Session holds the wired components shared by the TUI and the one-shot
// commands.
type Session struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
	Client    *metadata.Client
	Store     *state.Store
	Process   *linelist.Process

	closer io.Closer
}

// Open loads configuration, builds the gateway, store and synchronization
// process, and starts the process loops. Close releases the log file.
func Open(ctx context.Context, opts Options, notifier linelist.Notifier) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load linelist config: %w", err)
	}
	applyOverrides(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logger, closer, err := newLogger(cfg, opts.LogPath)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := metadata.NewClient(metadata.ClientOptions{
		APIURL:    cfg.APIURL,
		ProjectID: cfg.ProjectID,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init metadata client: %w", err)
	}

	store := &state.Store{}
	process, err := linelist.New(linelist.Options{
		Gateway:   client,
		ProjectID: cfg.ProjectID,
		Store:     store,
		Notifier:  notifier,
		Logger:    logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init linelist process: %w", err)
	}
	process.Start(ctx)

	logger.Info("linelist session opened",
		"api_url", cfg.APIURL,
		"project_id", cfg.ProjectID,
	)

	return &Session{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
		Client:    client,
		Store:     store,
		Process:   process,
		closer:    closer,
	}, nil
}

// LoadAndSettle sends the start signal and waits for the initial load. The
// returned error is the load failure, if any.
func (s *Session) LoadAndSettle(ctx context.Context) error {
	if err := s.Process.Dispatch(ctx, linelist.Started{}); err != nil {
		return err
	}
	if err := s.Process.Settle(ctx); err != nil {
		return err
	}
	snap := s.Store.Snapshot()
	if snap.Status == state.StatusFailed {
		if snap.LastError != nil {
			return fmt.Errorf("load linelist: %w", snap.LastError)
		}
		return errors.New("load linelist: failed")
	}
	return nil
}

// DispatchAndSettle dispatches in and waits for it, and any work it spawned,
// to finish.
func (s *Session) DispatchAndSettle(ctx context.Context, in linelist.Intent) error {
	if err := s.Process.Dispatch(ctx, in); err != nil {
		return err
	}
	return s.Process.Settle(ctx)
}

// Close releases the log file.
func (s *Session) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// newLogger writes to the configured log file unless path overrides it.
func newLogger(cfg config.Config, path string) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return logging.NewFromConfig(cfg)
	}
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Path: path})
}

func applyOverrides(cfg *config.Config, opts Options) {
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.ProjectID); v != "" {
		cfg.ProjectID = v
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshEvery = opts.RefreshEvery
	}
}
