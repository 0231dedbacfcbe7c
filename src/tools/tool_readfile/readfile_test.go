package tool_readfile

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

func TestReadFileReturnsContents(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/README.md", []byte("hello"), 0644))

	result := Handler(ws)(context.Background(), map[string]any{"path": "README.md"})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "hello", result.Output)
	assert.Equal(t, 5, result.Metadata["size"])
	assert.Equal(t, 1, result.Metadata["lines"])
}

func TestReadFileNotFound(t *testing.T) {
	ws := newWorkspace(t)
	result := Handler(ws)(context.Background(), map[string]any{"path": "missing.txt"})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "not-found"), result.Error)
}

func TestReadFileRejectsTraversal(t *testing.T) {
	ws := newWorkspace(t)
	result := Handler(ws)(context.Background(), map[string]any{"path": "../../etc/passwd"})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "path-violation"), result.Error)
}

func TestReadFileBase64(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/blob.bin", []byte{0x00, 0x01, 0x02}, 0644))

	result := Handler(ws)(context.Background(), map[string]any{"path": "blob.bin", "encoding": "base64"})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "AAEC", result.Output)
}

func TestReadFileRejectsBinaryWithoutEncoding(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/blob.bin", []byte{0x00, 0x01}, 0644))

	result := Handler(ws)(context.Background(), map[string]any{"path": "blob.bin"})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "base64")
}
