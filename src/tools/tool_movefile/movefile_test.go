package tool_movefile

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
	require.NoError(t, fsys.MkdirAll("/ws", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/ws/a.txt", []byte("payload"), 0644))
	return fs.NewWith("/ws", fsys)
}

func TestMoveFile(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"source": "a.txt", "destination": "b.txt"})
	require.True(t, result.Success, result.Error)

	exists, _ := afero.Exists(ws.Fs(), "/ws/a.txt")
	assert.False(t, exists)
	data, err := afero.ReadFile(ws.Fs(), "/ws/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestMoveFileMissingSource(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"source": "nope.txt", "destination": "b.txt"})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "not-found"), result.Error)
}

func TestMoveFileRefusesOverwrite(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, afero.WriteFile(ws.Fs(), "/ws/b.txt", []byte("old"), 0644))

	result := Handler(ws)(context.Background(), map[string]any{"source": "a.txt", "destination": "b.txt"})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "invalid-arguments"), result.Error)
}
