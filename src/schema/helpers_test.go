package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func TestString(t *testing.T) {
	s := String("a path")
	require.NotNil(t, s)
	require.NotNil(t, s.Type)
	assert.Equal(t, jsonschema.SimpleType("string"), *s.Type.SimpleTypes)
	assert.Equal(t, "a path", *s.Description)
}

func TestBoolCarriesDefault(t *testing.T) {
	s := Bool("a flag", true)
	require.NotNil(t, s.Default)
	assert.Equal(t, true, *s.Default)
}

func TestObjectRequired(t *testing.T) {
	s := Object(map[string]*jsonschema.Schema{
		"path":    String("the path"),
		"content": String("the content"),
	}, []string{"path", "content"})
	require.NotNil(t, s)
	assert.Len(t, s.Properties, 2)
	assert.ElementsMatch(t, []string{"path", "content"}, s.Required)
}

func TestFromParameters(t *testing.T) {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "file path", Required: true},
		{Name: "recursive", Type: bailucore.ParamBoolean, Description: "walk subdirectories", Default: false},
		{Name: "timeout", Type: bailucore.ParamNumber, Description: "seconds"},
	}
	s := FromParameters(params)
	require.NotNil(t, s)
	assert.Len(t, s.Properties, 3)
	assert.Equal(t, []string{"path"}, s.Required)

	rec, ok := s.Properties["recursive"]
	require.True(t, ok)
	require.NotNil(t, rec.TypeObject)
	assert.Equal(t, jsonschema.SimpleType("boolean"), *rec.TypeObject.Type.SimpleTypes)
}
