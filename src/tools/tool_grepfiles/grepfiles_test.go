package tool_grepfiles

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
	require.NoError(t, fsys.MkdirAll("/ws/pkg", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/ws/main.go", []byte("package main\n\nfunc main() {}\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/pkg/util.go", []byte("package pkg\n\nfunc Util() {}\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/notes.txt", []byte("no code here\n"), 0644))
	return fs.NewWith("/ws", fsys)
}

func TestGrepFilesFindsMatches(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"pattern": `func \w+\(`})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Output, "main.go:3: func main() {}")
	assert.Contains(t, result.Output, "pkg/util.go:3: func Util() {}")
	assert.Equal(t, 2, result.Metadata["matches"])
}

func TestGrepFilesFileFilter(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"pattern": ".", "file_filter": "*.txt"})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Output, "notes.txt")
	assert.NotContains(t, result.Output, "main.go")
}

func TestGrepFilesBadPattern(t *testing.T) {
	ws := newWorkspace(t)

	result := Handler(ws)(context.Background(), map[string]any{"pattern": "("})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "invalid-arguments"), result.Error)
}
