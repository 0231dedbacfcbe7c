package tool_writefile

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

func TestWriteFileCreates(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{
		"path":    "out.txt",
		"content": "line one\nline two\n",
	})
	require.True(t, result.Success, result.Error)

	data, err := afero.ReadFile(ws.Fs(), "/ws/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
	assert.Equal(t, true, result.Metadata["created"])
	assert.Equal(t, 2, result.Metadata["lines"])
	assert.Equal(t, 18, result.Metadata["bytes"])
}

func TestWriteFileOverwriteReportsNotCreated(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/out.txt", []byte("old"), 0644))

	result := Handler(ws)(context.Background(), map[string]any{
		"path":    "out.txt",
		"content": "new",
	})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, false, result.Metadata["created"])

	data, _ := afero.ReadFile(ws.Fs(), "/ws/out.txt")
	assert.Equal(t, "new", string(data))
}

func TestWriteFileMissingParentWithoutCreateDirs(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{
		"path":    "deep/nested/out.txt",
		"content": "x",
	})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "not-found"), result.Error)
}

func TestWriteFileCreateDirs(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{
		"path":        "deep/nested/out.txt",
		"content":     "x",
		"create_dirs": true,
	})
	require.True(t, result.Success, result.Error)

	exists, _ := afero.Exists(ws.Fs(), "/ws/deep/nested/out.txt")
	assert.True(t, exists)
}

func TestWriteFileRejectsTraversal(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{
		"path":    "..\\escape.txt",
		"content": "x",
	})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "path-violation"), result.Error)
}
