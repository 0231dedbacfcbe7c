package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("API_KEY", "")
	t.Setenv("SAFETY_MODE", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, bailucore.SafetyReview, cfg.Safety.Mode)
	assert.Equal(t, 100, cfg.Agent.MaxIterations)
	assert.False(t, cfg.Debug)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"safety":{"mode":"auto-apply"},"agent":{"max_iterations":7,"token_budget":9000,"command_timeout_seconds":60}}`), 0600))
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("SAFETY_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, bailucore.SafetyAutoApply, cfg.Safety.Mode)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"safety":{"mode":"auto-apply"}}`), 0600))
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("SAFETY_MODE", "dry-run")
	t.Setenv("MODEL_NAME", "test/override")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, bailucore.SafetyDryRun, cfg.Safety.Mode)
	assert.Equal(t, "test/override", cfg.API.Model)
}

func TestLoadRejectsBadMode(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SAFETY_MODE", "yolo")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600))
	t.Setenv("CONFIG_DIR", dir)

	_, err := Load()
	require.Error(t, err)
}

func TestWorkspaceConfigDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()

	// Missing file: zero value.
	wc := LoadWorkspace(dir)
	assert.Equal(t, WorkspaceConfig{}, wc)
	assert.Equal(t, "", wc.Render())

	// Malformed file: still zero value, never an error.
	require.NoError(t, os.WriteFile(filepath.Join(dir, WorkspaceConfigFile), []byte("not json"), 0644))
	wc = LoadWorkspace(dir)
	assert.Equal(t, WorkspaceConfig{}, wc)
}

func TestWorkspaceConfigRender(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, WorkspaceConfigFile),
		[]byte(`{"test_command":"go test ./...","important_paths":["src/"]}`), 0644))

	wc := LoadWorkspace(dir)
	out := wc.Render()
	assert.Contains(t, out, "go test ./...")
	assert.Contains(t, out, "src/")
}
