package tool_createdir

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/fs"
)

func TestCreateDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/ws", 0755))
	ws := fs.NewWith("/ws", fsys)

	result := Handler(ws)(context.Background(), map[string]any{"path": "a/b/c"})
	require.True(t, result.Success, result.Error)

	ok, _ := afero.DirExists(fsys, "/ws/a/b/c")
	assert.True(t, ok)
	assert.Equal(t, false, result.Metadata["existed"])

	// Creating it again succeeds quietly and reports it already existed.
	result = Handler(ws)(context.Background(), map[string]any{"path": "a/b/c"})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, true, result.Metadata["existed"])
}
