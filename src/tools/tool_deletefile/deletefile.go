package tool_deletefile

import (
	"context"
	"fmt"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "delete_file"

const deleteFilePrompt = `Deletes a single file from the workspace. Directories are refused, even empty ones; use run_command deliberately to remove one.`

type deleteFileInput struct {
	Path string `json:"path"`
}

// Definition describes delete_file: a mutating tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "The file to delete", Required: true},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: deleteFilePrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the delete_file executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input deleteFileInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "delete_file parameters", err))
		}

		abs, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		info, err := ws.Fs().Stat(abs)
		if err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}
		if info.IsDir() {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments, input.Path+" is a directory"))
		}

		if err := ws.Fs().Remove(abs); err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}

		toolsutil.GetLogger().Info("deleted file", "path", abs)
		return bailucore.ToolResult{
			Success:  true,
			Output:   fmt.Sprintf("Deleted %s", input.Path),
			Metadata: map[string]any{"size": info.Size()},
		}
	}
}
