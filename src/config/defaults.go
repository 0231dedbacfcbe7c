package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// DefaultConfigDir is the XDG-resolved per-user directory.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "bailu")
}

// Defaults is the bottom configuration layer.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "anthropic/claude-sonnet-4",
		},
		Safety: SafetyConfig{
			Mode: bailucore.SafetyReview,
		},
		Agent: AgentConfig{
			MaxIterations:  100,
			TokenBudget:    8000,
			CommandTimeout: 300,
		},
		Tools: ToolsConfig{
			EnableWebFetch: true,
		},
		Data: DataConfig{
			ConfigDir: DefaultConfigDir(),
		},
	}
}
