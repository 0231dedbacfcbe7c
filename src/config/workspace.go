package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WorkspaceConfig is the optional advisory file at the workspace root
// (.bailu.json). It carries hints only — a test command, paths worth
// reading early — and any problem reading or parsing it degrades to the
// zero value, never an error.
type WorkspaceConfig struct {
	TestCommand    string   `json:"test_command,omitempty"`
	ImportantPaths []string `json:"important_paths,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// WorkspaceConfigFile is the advisory file's name.
const WorkspaceConfigFile = ".bailu.json"

// LoadWorkspace reads the advisory config under root.
func LoadWorkspace(root string) WorkspaceConfig {
	var wc WorkspaceConfig
	data, err := os.ReadFile(filepath.Join(root, WorkspaceConfigFile))
	if err != nil {
		return wc
	}
	if err := json.Unmarshal(data, &wc); err != nil {
		return WorkspaceConfig{}
	}
	return wc
}

// Render formats the hints as a system-prompt section; empty when there
// is nothing to say.
func (wc WorkspaceConfig) Render() string {
	if wc.TestCommand == "" && len(wc.ImportantPaths) == 0 && wc.Notes == "" {
		return ""
	}
	out := "Workspace hints:\n"
	if wc.TestCommand != "" {
		out += "- Test command: " + wc.TestCommand + "\n"
	}
	for _, p := range wc.ImportantPaths {
		out += "- Important path: " + p + "\n"
	}
	if wc.Notes != "" {
		out += "- Notes: " + wc.Notes + "\n"
	}
	return out
}
