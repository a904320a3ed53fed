// Package config loads the optional TOML configuration file. Everything has
// a sensible default; the file only exists for users who want to move the
// data directory or tune the undo window.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dori/flatmatrix/internal/storage"
)

// Config holds application configuration.
type Config struct {
	DataDir           string `toml:"data_dir"`
	DBPath            string `toml:"db_path"`
	UndoWindowSeconds int    `toml:"undo_window_seconds"`
	Notifications     bool   `toml:"notifications"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := storage.DefaultDataDir()
	return &Config{
		DataDir:           dataDir,
		DBPath:            filepath.Join(dataDir, "flatmatrix.db"),
		UndoWindowSeconds: 8,
		Notifications:     true,
	}
}

// Load reads configuration in priority order: defaults, then the user config
// file when present. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path := userConfigFile()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	// A relocated data dir moves the default db path with it unless the file
	// pinned db_path explicitly.
	if defaults := Default(); cfg.DBPath == defaults.DBPath && cfg.DataDir != defaults.DataDir {
		cfg.DBPath = filepath.Join(cfg.DataDir, "flatmatrix.db")
	}
	if cfg.UndoWindowSeconds <= 0 {
		cfg.UndoWindowSeconds = Default().UndoWindowSeconds
	}

	return cfg, nil
}

// UndoWindow returns the undo-toast lifetime as a duration.
func (c *Config) UndoWindow() time.Duration {
	return time.Duration(c.UndoWindowSeconds) * time.Second
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "flatmatrix", "config.toml")
}
