package toolsurface

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func noopHandler(ctx context.Context, params map[string]any) bailucore.ToolResult {
	return bailucore.ToolResult{Success: true}
}

func defFor(name string) bailucore.ToolDefinition {
	return bailucore.ToolDefinition{
		Name:        name,
		Description: "a test tool",
		Parameters: []bailucore.ToolParameter{
			{Name: "path", Type: bailucore.ParamString, Required: true},
		},
		Safe: true,
	}
}

func TestRegisterAndGet(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(defFor("alpha"), noopHandler))

	def, handler, ok := s.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", def.Name)
	assert.NotNil(t, handler)

	_, _, ok = s.Get("missing")
	assert.False(t, ok)
}

func otherHandler(ctx context.Context, params map[string]any) bailucore.ToolResult {
	return bailucore.ToolResult{Success: false}
}

func TestRegisterIdempotentForIdenticalRegistration(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(defFor("alpha"), noopHandler))
	require.NoError(t, s.Register(defFor("alpha"), noopHandler))
}

func TestRegisterCollisionRejected(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(defFor("alpha"), noopHandler))

	changed := defFor("alpha")
	changed.Description = "something else"
	assert.Error(t, s.Register(changed, noopHandler))
}

func TestRegisterSameDefinitionDifferentHandlerRejected(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(defFor("alpha"), noopHandler))
	assert.Error(t, s.Register(defFor("alpha"), otherHandler))

	// The original handler stays registered.
	_, handler, ok := s.Get("alpha")
	require.True(t, ok)
	assert.True(t, handler(context.Background(), nil).Success)
}

func TestListOrderedByName(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(defFor("zeta"), noopHandler))
	require.NoError(t, s.Register(defFor("alpha"), noopHandler))
	require.NoError(t, s.Register(defFor("mid"), noopHandler))

	var names []string
	for _, d := range s.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}
