package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeAPI serves project 7 of the metadata service from memory.
type fakeAPI struct {
	mu       sync.Mutex
	entries  []map[string]any
	project  map[string]any
	failSave bool
	saves    []map[string]any
	deleted  []string
	removed  []string
	patched  map[string]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		entries: []map[string]any{
			{"sampleId": "S1", "age": 30.0, "organism": "E. coli"},
			{"sampleId": "S2", "age": 41.0},
		},
		project: map[string]any{
			"id":           "7",
			"label":        "Outbreak 2026",
			"description":  "Sequenced isolates",
			"organism":     "E. coli",
			"createdDate":  "2026-01-02T03:04:05Z",
			"modifiedDate": "2026-02-03T04:05:06Z",
		},
		patched: map[string]string{},
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/7/linelist/entries", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeBody(w, map[string]any{"entries": f.entries})
	})
	mux.HandleFunc("PUT /api/projects/7/linelist/entries/{sample}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failSave {
			w.WriteHeader(http.StatusInternalServerError)
			writeBody(w, map[string]any{"message": "value rejected"})
			return
		}
		body["sampleId"] = r.PathValue("sample")
		f.saves = append(f.saves, body)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/projects/7/linelist/fields/{field}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		field := r.PathValue("field")
		f.deleted = append(f.deleted, field)
		for _, e := range f.entries {
			delete(e, field)
		}
		writeBody(w, map[string]any{"message": fmt.Sprintf("Removed %s from 2 samples", field)})
	})
	mux.HandleFunc("GET /api/projects/7", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeBody(w, f.project)
	})
	mux.HandleFunc("PATCH /api/projects/7", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.patched[body.Field] = body.Value
		writeBody(w, map[string]any{"message": "Project updated"})
	})
	mux.HandleFunc("DELETE /api/projects/7/members/{user}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.removed = append(f.removed, r.PathValue("user"))
		writeBody(w, map[string]any{"message": ""})
	})
	return mux
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type cliTestEnv struct {
	api        *fakeAPI
	configPath string
	prefsPath  string
	logPath    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	logDir := filepath.Join(base, "logs")
	configPath := filepath.Join(base, "config.toml")
	config := fmt.Sprintf("api_url = %q\nproject_id = 7\nuser_id = \"u-1\"\nrequest_timeout = 5\nlog_dir = %q\n", server.URL, logDir)
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		api:        api,
		configPath: configPath,
		prefsPath:  filepath.Join(base, "prefs.toml"),
		logPath:    filepath.Join(logDir, "linelist.log"),
	}
}

func (env *cliTestEnv) writePrefs(t *testing.T, body string) {
	t.Helper()
	if err := os.WriteFile(env.prefsPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", env.configPath, "--prefs", env.prefsPath}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
