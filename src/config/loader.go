package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

var validate = validator.New()

// Load builds the effective configuration: defaults, overlaid with
// <config-dir>/config.json when present, overlaid with environment
// variables, then validated. CONFIG_DIR moves the whole directory and
// is applied before the file is looked up.
func Load() (*Config, error) {
	cfg := Defaults()

	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		cfg.Data.ConfigDir = dir
	}

	if err := applyFile(cfg, filepath.Join(cfg.Data.ConfigDir, "config.json")); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFile overlays config.json onto cfg. A missing file is fine; a
// malformed one is an error the user needs to see, not silently skip.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays the process environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		cfg.API.Model = v
	}
	if v := os.Getenv("SAFETY_MODE"); v != "" {
		cfg.Safety.Mode = bailucore.SafetyMode(v)
	}
	if v := os.Getenv("DEBUG"); v != "" && v != "0" && v != "false" {
		cfg.Debug = true
	}
}

// Save writes cfg as indented JSON to <config-dir>/config.json,
// creating the directory if needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(cfg.Data.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.Data.ConfigDir, "config.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SessionDBPath is where the session store lives.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Data.ConfigDir, "chat-sessions", "sessions.db")
}

// HistoryPath is the REPL's line-history file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Data.ConfigDir, "history.txt")
}

// LogPath is the debug trace file written when DEBUG is set.
func (c *Config) LogPath() string {
	return filepath.Join(c.Data.ConfigDir, "bailu.log")
}
