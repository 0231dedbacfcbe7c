package tool_createdir

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "create_directory"

const createDirPrompt = `Creates a directory (and any missing parents) inside the workspace. Succeeds quietly if it already exists.`

type createDirInput struct {
	Path string `json:"path"`
}

// Definition describes create_directory: a mutating tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "The directory to create", Required: true},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: createDirPrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the create_directory executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input createDirInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "create_directory parameters", err))
		}

		abs, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		fsys := ws.Fs()
		existed, _ := afero.DirExists(fsys, abs)
		if err := fsys.MkdirAll(abs, 0755); err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}

		toolsutil.GetLogger().Info("created directory", "path", abs, "existed", existed)
		return bailucore.ToolResult{
			Success:  true,
			Output:   fmt.Sprintf("Created %s", input.Path),
			Metadata: map[string]any{"existed": existed},
		}
	}
}
