package tool_runcommand

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/shell"
)

func testHandler(t *testing.T) (func(map[string]any) bailucore.ToolResult, string) {
	t.Helper()
	root := t.TempDir()
	h := Handler(fs.New(root), shell.NewRunner(slog.Default()))
	return func(params map[string]any) bailucore.ToolResult {
		return h(context.Background(), params)
	}, root
}

func TestRunCommandEcho(t *testing.T) {
	run, _ := testHandler(t)

	result := run(map[string]any{"command": "echo hello"})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "hello\n", result.Output)
	assert.Equal(t, 0, result.Metadata["exitCode"])
	assert.Equal(t, false, result.Metadata["timedOut"])
}

func TestRunCommandBlocked(t *testing.T) {
	run, _ := testHandler(t)

	result := run(map[string]any{"command": "rm -rf /"})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "blocked"), result.Error)
}

func TestRunCommandNonZeroExit(t *testing.T) {
	run, _ := testHandler(t)

	result := run(map[string]any{"command": "sh", "args": []any{"-c", "exit 3"}})
	require.False(t, result.Success)
	assert.Equal(t, 3, result.Metadata["exitCode"])
}

func TestRunCommandTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("timeout test sleeps")
	}
	run, _ := testHandler(t)

	start := time.Now()
	result := run(map[string]any{"command": "sleep 5", "timeout": 0.2})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "timeout"), result.Error)
	assert.Equal(t, true, result.Metadata["timedOut"])
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunCommandCwd(t *testing.T) {
	run, root := testHandler(t)

	result := run(map[string]any{"command": "pwd"})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, root, strings.TrimSpace(result.Output))
}

func TestRunCommandEmpty(t *testing.T) {
	run, _ := testHandler(t)

	result := run(map[string]any{"command": ""})
	require.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "invalid-arguments"), result.Error)
}

func TestRunCommandStderrInMetadata(t *testing.T) {
	run, _ := testHandler(t)

	result := run(map[string]any{"command": "sh", "args": []any{"-c", "echo oops 1>&2"}})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "oops\n", result.Metadata["stderr"])
}
