// Package config loads the linelist TOML configuration.
//
// # Overview
//
// The config file tells linelist which metadata service to talk to, which
// project to edit, and where to write its activity log. Everything is
// optional except project_id, which Validate enforces before any command
// touches the network.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/linelist/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/linelist/config.toml
//   - API endpoint: 127.0.0.1:8080
//   - Request timeout: 30 seconds
//   - Auto refresh: disabled
//   - Log directory: ~/.local/share/linelist/logs
//   - Activity log: <log_dir>/linelist.log
//   - Log level/format: info/json
//
// # TOML Format
//
//	api_url = "https://irida.example.org"
//	project_id = 5
//	user_id = 12
//	request_timeout = 30  # seconds
//	refresh_every = 0     # seconds, 0 disables
//	log_dir = "~/.local/share/linelist/logs"
//	log_level = "info"
//	log_format = "json"   # or "text"
//
// project_id and user_id accept either strings or integers. Tilde expansion
// is performed for log_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, negative durations, and IDs that are
// neither strings nor integers. A missing file is not an error.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//	client, err := metadata.NewClient(metadata.ClientOptions{
//		APIURL:    cfg.APIURL,
//		ProjectID: cfg.ProjectID,
//		Timeout:   cfg.RequestTimeout,
//	})
package config
