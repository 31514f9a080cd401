package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points every config source at scratch directories so tests never
// read the developer's real files.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.API.BaseURL != "https://api.meridianesg.io" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Log.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want INFO", cfg.Log.LogLevel)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join("ralph", "ralph.db")) {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	configDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "ralph")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "api:\n  baseUrl: https://staging.meridianesg.io\nlog:\n  logLevel: DEBUG\n"
	if err := os.WriteFile(filepath.Join(configDir, "ralph.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RALPH_API_TOKEN", "sekrit")

	cfg, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.API.BaseURL != "https://staging.meridianesg.io" {
		t.Errorf("BaseURL = %q, want staging URL from file", cfg.API.BaseURL)
	}
	if cfg.Log.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG from file", cfg.Log.LogLevel)
	}
	if cfg.API.Token != "sekrit" {
		t.Errorf("Token = %q, want value from environment", cfg.API.Token)
	}
	if redacted := cfg.Redacted(); redacted.API.Token != "[REDACTED]" {
		t.Errorf("Redacted().API.Token = %q", redacted.API.Token)
	}
}

func TestRuntimeOverridesWin(t *testing.T) {
	isolate(t)

	level := "ERROR"
	baseURL := "https://override.meridianesg.io"
	cfg, err := New(&RuntimeOverrides{LogLevel: &level, BaseURL: &baseURL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Log.LogLevel != "ERROR" {
		t.Errorf("LogLevel = %q, want ERROR", cfg.Log.LogLevel)
	}
	if cfg.API.BaseURL != baseURL {
		t.Errorf("BaseURL = %q, want override", cfg.API.BaseURL)
	}
}

func TestInvalidLogLevelRejected(t *testing.T) {
	isolate(t)

	level := "LOUD"
	if _, err := New(&RuntimeOverrides{LogLevel: &level}); err == nil {
		t.Fatal("New() accepted invalid log level")
	}
}
