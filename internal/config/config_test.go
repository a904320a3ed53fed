package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UndoWindowSeconds != 8 {
		t.Errorf("UndoWindowSeconds = %d, want 8", cfg.UndoWindowSeconds)
	}
	if !cfg.Notifications {
		t.Error("notifications should default on")
	}
	if cfg.DBPath != filepath.Join(cfg.DataDir, "flatmatrix.db") {
		t.Errorf("DBPath = %q should live under DataDir %q", cfg.DBPath, cfg.DataDir)
	}
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "flatmatrix")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	writeConfig(t, `
data_dir = "/tmp/elsewhere"
undo_window_seconds = 3
notifications = false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/tmp/elsewhere" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	// db_path was not pinned, so it follows the relocated data dir
	if cfg.DBPath != "/tmp/elsewhere/flatmatrix.db" {
		t.Errorf("DBPath = %q, want it derived from data_dir", cfg.DBPath)
	}
	if cfg.UndoWindowSeconds != 3 || cfg.Notifications {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadPinnedDBPath(t *testing.T) {
	writeConfig(t, `
data_dir = "/tmp/elsewhere"
db_path = "/var/lib/matrix.db"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/var/lib/matrix.db" {
		t.Errorf("explicit db_path should win: %q", cfg.DBPath)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	writeConfig(t, `undo_window_seconds = "eight"`)

	if _, err := Load(); err == nil {
		t.Fatal("malformed config should error")
	}
}

func TestLoadRejectsNonPositiveWindow(t *testing.T) {
	writeConfig(t, `undo_window_seconds = -5`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UndoWindowSeconds != 8 {
		t.Errorf("non-positive window should fall back to default, got %d", cfg.UndoWindowSeconds)
	}
}
