package tools

import (
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/shell"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

func build(t *testing.T, opts Options) *toolsurface.Surface {
	t.Helper()
	s := toolsurface.New()
	ws := fs.NewWith("/ws", afero.NewMemMapFs())
	require.NoError(t, RegisterAll(s, ws, shell.NewRunner(slog.Default()), opts))
	return s
}

func TestRegisterAllDefaultSet(t *testing.T) {
	s := build(t, Options{})

	var names []string
	for _, def := range s.List() {
		names = append(names, def.Name)
	}

	for _, required := range []string{ReadFileName, ListDirectoryName, WriteFileName, ApplyDiffName, RunCommandName} {
		assert.Contains(t, names, required)
	}
	assert.NotContains(t, names, WebFetchName)
}

func TestRegisterAllWebFetchGated(t *testing.T) {
	s := build(t, Options{EnableWebFetch: true})
	_, _, ok := s.Get(WebFetchName)
	assert.True(t, ok)
}

func TestRegisterAllDisabled(t *testing.T) {
	s := build(t, Options{Disabled: []string{GrepFilesName}})
	_, _, ok := s.Get(GrepFilesName)
	assert.False(t, ok)
}

func TestSafeFlags(t *testing.T) {
	s := build(t, Options{EnableWebFetch: true})

	safe := map[string]bool{
		ReadFileName:      true,
		ListDirectoryName: true,
		GetFileInfoName:   true,
		SearchFilesName:   true,
		GrepFilesName:     true,
	}
	for _, def := range s.List() {
		assert.Equal(t, safe[def.Name], def.Safe, def.Name)
	}
}
