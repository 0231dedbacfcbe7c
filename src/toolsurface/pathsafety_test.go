package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func TestResolvePathRelative(t *testing.T) {
	abs, err := ResolvePath("/ws", "src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "/ws/src/main.go", abs)
}

func TestResolvePathAbsoluteInsideRoot(t *testing.T) {
	abs, err := ResolvePath("/ws", "/ws/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "/ws/src/main.go", abs)
}

func TestResolvePathRootItself(t *testing.T) {
	abs, err := ResolvePath("/ws", ".")
	require.NoError(t, err)
	assert.Equal(t, "/ws", abs)
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	for _, raw := range []string{
		"../../etc/passwd",
		"..\\..\\windows",
		"src/%2e%2e/%2e%2e/etc/passwd",
		"src/%2E%2E/secret",
	} {
		_, err := ResolvePath("/ws", raw)
		require.Error(t, err, raw)
		assert.True(t, bailucore.HasCode(err, bailucore.CodePathViolation), raw)
	}
}

func TestResolvePathRejectsAbsoluteOutsideRoot(t *testing.T) {
	_, err := ResolvePath("/ws", "/etc/passwd")
	require.Error(t, err)
	assert.True(t, bailucore.HasCode(err, bailucore.CodePathViolation))
}

func TestResolvePathRejectsSiblingPrefix(t *testing.T) {
	// "/wsx" shares the "/ws" string prefix but is not a descendant.
	_, err := ResolvePath("/ws", "/wsx/file")
	require.Error(t, err)
}
