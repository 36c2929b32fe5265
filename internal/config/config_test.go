package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
auth:
  api_key: "test-key-123"
tracker:
  schedule_path: "/data/week.txt"
  catalog_path: "/data/catalog.yaml"
  export_format: "records"
  recommend_count: 5
log:
  level: "debug"
  format: "json"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
	if cfg.Tracker.SchedulePath != "/data/week.txt" {
		t.Errorf("tracker.schedule_path = %q", cfg.Tracker.SchedulePath)
	}
	if cfg.Tracker.ExportFormat != "records" {
		t.Errorf("tracker.export_format = %q", cfg.Tracker.ExportFormat)
	}
	if cfg.Tracker.RecommendCount != 5 {
		t.Errorf("tracker.recommend_count = %d, want 5", cfg.Tracker.RecommendCount)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

// TestLoadKeepsDefaults verifies fields absent from the file keep their defaults.
func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "server:\n  port: 8181\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("server.port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want default", cfg.Server.Host)
	}
	if cfg.Tracker.RecommendCount != 3 {
		t.Errorf("tracker.recommend_count = %d, want 3", cfg.Tracker.RecommendCount)
	}
}

// TestLoadNoFile verifies an empty path yields defaults plus env overrides.
func TestLoadNoFile(t *testing.T) {
	t.Setenv("WEEKLOG_CATALOG_PATH", "/etc/weeklog/catalog.json")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracker.CatalogPath != "/etc/weeklog/catalog.json" {
		t.Errorf("tracker.catalog_path = %q", cfg.Tracker.CatalogPath)
	}
	if cfg.Tracker.SchedulePath != "week.txt" {
		t.Errorf("tracker.schedule_path = %q, want default", cfg.Tracker.SchedulePath)
	}
}

// TestEnvOverride verifies that WEEKLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("WEEKLOG_SERVER_PORT", "9999")
	t.Setenv("WEEKLOG_AUTH_API_KEY", "env-key")
	t.Setenv("WEEKLOG_RECOMMEND_COUNT", "7")
	t.Setenv("WEEKLOG_TAILSCALE_ENABLED", "true")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	if cfg.Tracker.RecommendCount != 7 {
		t.Errorf("tracker.recommend_count = %d, want 7", cfg.Tracker.RecommendCount)
	}
	if !cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = false, want true")
	}
	// Unchanged fields should keep YAML values
	if cfg.Tracker.CatalogPath != "/data/catalog.yaml" {
		t.Errorf("tracker.catalog_path = %q", cfg.Tracker.CatalogPath)
	}
}

// TestValidation verifies out-of-range or unknown settings are rejected.
func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port too large", "server:\n  port: 70000\n"},
		{"zero recommend count", "tracker:\n  recommend_count: 0\n"},
		{"unknown export format", "tracker:\n  export_format: csv\n"},
		{"unknown log level", "log:\n  level: verbose\n"},
		{"unknown log format", "log:\n  format: xml\n"},
		{"tailscale without hostname", "tailscale:\n  enabled: true\n  hostname: \"\"\n"},
		{"log file without size", "log:\n  file: weeklog.log\n  max_size_mb: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tt.yaml)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestAddr verifies the listen address.
func TestAddr(t *testing.T) {
	s := ServerConfig{Host: "localhost", Port: 8080}
	if got := s.Addr(); got != "localhost:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
