package tool_getfileinfo

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/fs"
)

func TestGetFileInfo(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/ws", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/ws/main.go", []byte("package main\n"), 0644))
	ws := fs.NewWith("/ws", fsys)

	result := Handler(ws)(context.Background(), map[string]any{"path": "main.go"})
	require.True(t, result.Success, result.Error)

	assert.Contains(t, result.Output, "kind: file")
	assert.Contains(t, result.Output, "language: go")
	assert.Equal(t, 1, result.Metadata["lines"])
	assert.Equal(t, false, result.Metadata["isDir"])
}

func TestGetFileInfoDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/ws/sub", 0755))
	ws := fs.NewWith("/ws", fsys)

	result := Handler(ws)(context.Background(), map[string]any{"path": "sub"})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Output, "kind: directory")
	assert.Equal(t, true, result.Metadata["isDir"])
}

func TestGetFileInfoMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/ws", 0755))
	ws := fs.NewWith("/ws", fsys)

	result := Handler(ws)(context.Background(), map[string]any{"path": "nope"})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "not-found"), result.Error)
}
