package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func validationDef() bailucore.ToolDefinition {
	return bailucore.ToolDefinition{
		Name: "t",
		Parameters: []bailucore.ToolParameter{
			{Name: "path", Type: bailucore.ParamString, Required: true},
			{Name: "timeout", Type: bailucore.ParamNumber},
			{Name: "recursive", Type: bailucore.ParamBoolean, Default: false},
			{Name: "args", Type: bailucore.ParamArray},
		},
	}
}

func TestValidateParamsHappyPath(t *testing.T) {
	out, err := ValidateParams(validationDef(), map[string]any{
		"path":    "a.txt",
		"timeout": 30.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "a.txt", out["path"])
	assert.Equal(t, 30.0, out["timeout"])
	// Absent optional with a default gets the default injected.
	assert.Equal(t, false, out["recursive"])
}

func TestValidateParamsMissingRequired(t *testing.T) {
	_, err := ValidateParams(validationDef(), map[string]any{})
	require.Error(t, err)
	assert.True(t, bailucore.HasCode(err, bailucore.CodeInvalidArguments))
	assert.Contains(t, err.Error(), "path")
}

func TestValidateParamsCoercesNumericString(t *testing.T) {
	out, err := ValidateParams(validationDef(), map[string]any{
		"path":    "a.txt",
		"timeout": "45",
	})
	require.NoError(t, err)
	assert.Equal(t, 45.0, out["timeout"])
}

func TestValidateParamsCoercesBooleanString(t *testing.T) {
	out, err := ValidateParams(validationDef(), map[string]any{
		"path":      "a.txt",
		"recursive": "true",
	})
	require.NoError(t, err)
	assert.Equal(t, true, out["recursive"])
}

func TestValidateParamsRejectsMistyped(t *testing.T) {
	_, err := ValidateParams(validationDef(), map[string]any{
		"path":    "a.txt",
		"timeout": "soon",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestValidateParamsRejectsNonArray(t *testing.T) {
	_, err := ValidateParams(validationDef(), map[string]any{
		"path": "a.txt",
		"args": "not-a-list",
	})
	require.Error(t, err)
	assert.True(t, bailucore.HasCode(err, bailucore.CodeInvalidArguments))
}
