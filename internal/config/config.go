package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the connection and logging settings for linelist.
type Config struct {
	APIURL         string
	ProjectID      string
	UserID         string
	RequestTimeout time.Duration
	RefreshEvery   time.Duration // zero disables auto refresh
	LogDir         string
	LogLevel       string
	LogFormat      string
}

const (
	defaultConfigPath     = "~/.config/linelist/config.toml"
	defaultLogDir         = "~/.local/share/linelist/logs"
	defaultAPIURL         = "127.0.0.1:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	logFileName           = "linelist.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		LogDir:         mustExpand(defaultLogDir),
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		ProjectID      any    `toml:"project_id"`
		UserID         any    `toml:"user_id"`
		RequestTimeout int    `toml:"request_timeout"`
		RefreshEvery   int    `toml:"refresh_every"`
		LogDir         string `toml:"log_dir"`
		LogLevel       string `toml:"log_level"`
		LogFormat      string `toml:"log_format"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if cfg.ProjectID, err = identifier("project_id", raw.ProjectID); err != nil {
		return Config{}, err
	}
	if cfg.UserID, err = identifier("user_id", raw.UserID); err != nil {
		return Config{}, err
	}
	if raw.RequestTimeout < 0 || raw.RefreshEvery < 0 {
		return Config{}, fmt.Errorf("parse config: request_timeout and refresh_every must not be negative")
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	cfg.RefreshEvery = time.Duration(raw.RefreshEvery) * time.Second
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	return cfg, nil
}

// Validate reports settings that make the service unreachable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ProjectID) == "" {
		return fmt.Errorf("project_id is not set; add it to %s or pass --project", defaultConfigPath)
	}
	return nil
}

// LogPath returns the path to the linelist activity log.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// identifier accepts either a TOML string or integer for ID fields.
func identifier(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case int64:
		return fmt.Sprintf("%d", v), nil
	default:
		return "", fmt.Errorf("parse config: %s must be a string or integer, got %T", key, value)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
