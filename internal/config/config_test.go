package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.TUI.RefreshRate != 100*time.Millisecond {
		t.Errorf("refresh rate = %v, want 100ms", cfg.TUI.RefreshRate)
	}
	if cfg.TUI.OutputLines != 10000 {
		t.Errorf("output lines = %d, want 10000", cfg.TUI.OutputLines)
	}
	if !cfg.Features.Env || !cfg.Features.Stdin || !cfg.Features.WorkingDir {
		t.Error("all feature tabs should default to enabled")
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
	if cfg.History.Retention != 30*24*time.Hour {
		t.Errorf("retention = %v, want 720h", cfg.History.Retention)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
tui:
  refresh_rate: 250ms
  output_lines: 500
features:
  env: false
  stdin_desc: "Text fed to the program"
history:
  enabled: false
  path: /tmp/h.db
locale:
  path: /tmp/pl.yaml
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.TUI.RefreshRate != 250*time.Millisecond {
		t.Errorf("refresh rate = %v, want 250ms", cfg.TUI.RefreshRate)
	}
	if cfg.TUI.OutputLines != 500 {
		t.Errorf("output lines = %d, want 500", cfg.TUI.OutputLines)
	}
	if cfg.Features.Env {
		t.Error("features.env should be disabled")
	}
	if cfg.Features.StdinDesc != "Text fed to the program" {
		t.Errorf("stdin desc = %q", cfg.Features.StdinDesc)
	}
	if !cfg.Features.Stdin {
		t.Error("unset features.stdin should keep its default")
	}
	if cfg.History.Enabled {
		t.Error("history.enabled should be false")
	}
	if cfg.History.Path != "/tmp/h.db" {
		t.Errorf("history path = %q", cfg.History.Path)
	}
	if cfg.Locale.Path != "/tmp/pl.yaml" {
		t.Errorf("locale path = %q", cfg.Locale.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
