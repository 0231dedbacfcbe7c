// Package config loads Bailu's layered configuration: built-in
// defaults, then <config-dir>/config.json, then environment variables.
// Each layer only overrides what it sets.
package config

import (
	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// Config is the full configuration tree.
type Config struct {
	API    APIConfig    `json:"api" validate:"required"`
	Safety SafetyConfig `json:"safety" validate:"required"`
	Agent  AgentConfig  `json:"agent" validate:"required"`
	Tools  ToolsConfig  `json:"tools"`
	Data   DataConfig   `json:"data" validate:"required"`
	Debug  bool         `json:"debug"`
}

// APIConfig is the LLM endpoint connection block.
type APIConfig struct {
	Key     string `json:"key"`
	BaseURL string `json:"base_url" validate:"omitempty,url"`
	Model   string `json:"model" validate:"required"`
}

// SafetyConfig governs the mediator's default policy.
type SafetyConfig struct {
	// Mode is the startup safety mode; a slash command can change it
	// for the session.
	Mode bailucore.SafetyMode `json:"mode" validate:"oneof=dry-run review auto-apply"`
	// ExtraBlockedCommands is loaded from config.json but not passed to
	// the command runner; only the built-in blocklist is enforced.
	ExtraBlockedCommands []string `json:"extra_blocked_commands,omitempty"`
}

// AgentConfig holds loop limits. They are loaded and validated but not
// read by the orchestrator or the tools, which use their own constants
// (orchestrator.MaxIterations, convstore.DefaultTokenBudget, the
// run_command default timeout).
type AgentConfig struct {
	MaxIterations  int `json:"max_iterations" validate:"gt=0"`
	TokenBudget    int `json:"token_budget" validate:"gt=0"`
	CommandTimeout int `json:"command_timeout_seconds" validate:"gt=0"`
}

// ToolsConfig selects optional tool groups.
type ToolsConfig struct {
	EnableWebFetch bool     `json:"enable_web_fetch"`
	Disabled       []string `json:"disabled,omitempty"`
}

// DataConfig locates on-disk artifacts.
type DataConfig struct {
	// ConfigDir holds config.json, history.txt, and the session
	// database. Overridable via CONFIG_DIR.
	ConfigDir string `json:"config_dir" validate:"required"`
}
