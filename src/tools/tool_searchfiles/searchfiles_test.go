package tool_searchfiles

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
	require.NoError(t, fsys.MkdirAll("/ws/src", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/ws/src/server.go", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/src/server_test.go", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/README.md", []byte("x"), 0644))
	return fs.NewWith("/ws", fsys)
}

func TestSearchFilesByName(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"pattern": `_test\.go$`})
	require.True(t, result.Success, result.Error)

	lines := strings.Split(result.Output, "\n")
	assert.Contains(t, lines, "src/server_test.go")
	assert.NotContains(t, lines, "src/server.go")
	assert.Equal(t, 1, result.Metadata["count"])
}

func TestSearchFilesBadPattern(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"pattern": "["})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "invalid-arguments"), result.Error)
}

func TestSearchFilesScopedPath(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"pattern": `\.md$`, "path": "src"})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, 0, result.Metadata["count"])
}
