package tool_applydiff

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/fs"
)

func newWorkspace(t *testing.T) *fs.Workspace {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/ws", 0755); err != nil {
		t.Fatal(err)
	}
	return fs.NewWith("/ws", fsys)
}

func TestApplyDiffReplacesLine(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/a.txt", []byte("one\ntwo\nthree\n"), 0644))

	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{
		"path": "a.txt",
		"diff": "@@ -1,3 +1,3 @@\n one\n-two\n+TWO\n three\n",
	})
	require.True(t, result.Success, result.Error)

	data, err := afero.ReadFile(ws.Fs(), "/ws/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\nthree\n", string(data))

	backup, err := afero.ReadFile(ws.Fs(), "/ws/a.txt.backup")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(backup))

	assert.Equal(t, 1, result.Metadata["linesAdded"])
	assert.Equal(t, 1, result.Metadata["linesRemoved"])
	assert.Equal(t, "/ws/a.txt.backup", result.Metadata["backup"])
}

func TestApplyDiffCreatesNewFile(t *testing.T) {
	ws := newWorkspace(t)

	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{
		"path": "fresh.txt",
		"diff": "--- /dev/null\n+++ b/fresh.txt\n@@ -0,0 +1,2 @@\n+hello\n+world\n",
	})
	require.True(t, result.Success, result.Error)

	data, err := afero.ReadFile(ws.Fs(), "/ws/fresh.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", string(data))
	assert.Equal(t, 2, result.Metadata["linesAdded"])
}

func TestApplyDiffEmptyDiffStillBacksUp(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/a.txt", []byte("keep\n"), 0644))

	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{"path": "a.txt", "diff": "  "})
	require.True(t, result.Success, result.Error)

	data, err := afero.ReadFile(ws.Fs(), "/ws/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))

	backup, err := afero.ReadFile(ws.Fs(), "/ws/a.txt.backup")
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(backup))
}

func TestApplyDiffRequiresHunkHeader(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/a.txt", []byte("one\n"), 0644))

	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{
		"path": "a.txt",
		"diff": "-one\n+two\n",
	})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "invalid-arguments"), result.Error)
}

func TestApplyDiffMissingFile(t *testing.T) {
	ws := newWorkspace(t)
	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{
		"path": "gone.txt",
		"diff": "@@ -1,1 +1,1 @@\n-x\n+y\n",
	})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "not-found"), result.Error)
}

func TestApplyDiffNoBackupWhenDisabled(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/a.txt", []byte("one\n"), 0644))

	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{
		"path":          "a.txt",
		"diff":          "@@ -1,1 +1,1 @@\n-one\n+uno\n",
		"create_backup": false,
	})
	require.True(t, result.Success, result.Error)

	exists, _ := afero.Exists(ws.Fs(), "/ws/a.txt.backup")
	assert.False(t, exists)
	_, hasBackup := result.Metadata["backup"]
	assert.False(t, hasBackup)
}

func TestApplyUnifiedRejectsOutOfRangeHunk(t *testing.T) {
	_, _, _, err := ApplyUnified("a\nb\n", "@@ -10,1 +10,1 @@\n-a\n+z\n")
	require.Error(t, err)
}

func TestApplyDiffPathViolation(t *testing.T) {
	ws := newWorkspace(t)
	handler := Handler(ws)
	result := handler(context.Background(), map[string]any{
		"path": "../outside.txt",
		"diff": "@@ -1,1 +1,1 @@\n-x\n+y\n",
	})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "path-violation"), result.Error)
}
