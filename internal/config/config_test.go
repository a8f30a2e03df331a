package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nudgekit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  id: app-1\n  key: s3cret\n")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.App.ID != "app-1" || c.App.Key != "s3cret" {
		t.Fatalf("app = %+v", c.App)
	}
	if c.Analytics.FlushInterval != 10*time.Second || c.Analytics.BatchSize != 20 {
		t.Fatalf("analytics defaults = %+v", c.Analytics)
	}
	if c.Inspector.Bind != "127.0.0.1" || c.Inspector.Port != 8765 || c.Inspector.Enabled {
		t.Fatalf("inspector defaults = %+v", c.Inspector)
	}
	if c.Logging.Level != "info" {
		t.Fatalf("logging level default = %q", c.Logging.Level)
	}
}

func TestLoadYAMLValues(t *testing.T) {
	path := writeConfig(t, `
app:
  id: app-2
analytics:
  base_url: https://ingest.example.com
  flush_interval: 2s
  batch_size: 5
inspector:
  enabled: true
  port: 9999
logging:
  level: debug
  json: true
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Analytics.BaseURL != "https://ingest.example.com" ||
		c.Analytics.FlushInterval != 2*time.Second || c.Analytics.BatchSize != 5 {
		t.Fatalf("analytics = %+v", c.Analytics)
	}
	if !c.Inspector.Enabled || c.Inspector.Port != 9999 {
		t.Fatalf("inspector = %+v", c.Inspector)
	}
	if c.Logging.Level != "debug" || !c.Logging.JSON {
		t.Fatalf("logging = %+v", c.Logging)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "app:\n  id: from-file\nlogging:\n  level: warn\n")
	t.Setenv("NUDGEKIT_APP_ID", "from-env")
	t.Setenv("NUDGEKIT_LOG_LEVEL", "debug")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.App.ID != "from-env" {
		t.Fatalf("app id = %q, want env override", c.App.ID)
	}
	if c.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want env override", c.Logging.Level)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("NUDGEKIT_APP_ID", "env-only")
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.App.ID != "env-only" || c.Analytics.BatchSize != 20 {
		t.Fatalf("config = %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
