package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/linelist/internal/config"
)

func TestNew_JSONFileUsesShortKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "linelist.log")
	logger, closer, err := New(Options{Level: "info", Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("entry saved", "sample_id", "S1", "duration", 1500*time.Millisecond)
	logger.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("log has %d lines, want 1 (debug filtered): %q", len(lines), data)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "entry saved" || record["level"] != "info" || record["sample_id"] != "S1" {
		t.Fatalf("record = %v, want msg/level/sample_id", record)
	}
	if record["duration"] != "1.5s" {
		t.Fatalf("duration = %v, want 1.5s", record["duration"])
	}
	if _, ok := record["ts"].(string); !ok {
		t.Fatalf("ts = %v, want RFC3339 string", record["ts"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.log")
	logger, closer, err := New(Options{Level: "debug", Format: "text", Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("debug message", "field", "age")
	_ = closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "msg=\"debug message\"") || !strings.Contains(string(data), "field=age") {
		t.Fatalf("text log = %q, want logfmt message and attrs", data)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, _, err := New(Options{Format: "xml", Path: "stderr"}); err == nil {
		t.Fatalf("New returned nil error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFromConfig_WritesUnderLogDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{LogDir: dir, LogLevel: "info"}
	logger, closer, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")
	_ = closer.Close()
	if _, err := os.Stat(filepath.Join(dir, "linelist.log")); err != nil {
		t.Fatalf("expected linelist.log under log dir: %v", err)
	}
}
