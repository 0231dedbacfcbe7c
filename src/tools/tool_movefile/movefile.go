package tool_movefile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "move_file"

const moveFilePrompt = `Moves or renames a file inside the workspace. Refuses to overwrite an existing destination unless overwrite is set.`

type moveFileInput struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Overwrite   bool   `json:"overwrite,omitempty"`
	CreateDirs  bool   `json:"create_dirs,omitempty"`
}

// Definition describes move_file: a mutating tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "source", Type: bailucore.ParamString, Description: "The file to move", Required: true},
		{Name: "destination", Type: bailucore.ParamString, Description: "The new path", Required: true},
		{Name: "overwrite", Type: bailucore.ParamBoolean, Description: "Replace an existing destination", Default: false},
		{Name: "create_dirs", Type: bailucore.ParamBoolean, Description: "Create missing parent directories", Default: false},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: moveFilePrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the move_file executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input moveFileInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "move_file parameters", err))
		}

		srcAbs, err := ws.Resolve(input.Source)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}
		dstAbs, err := ws.Resolve(input.Destination)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		fsys := ws.Fs()
		if exists, _ := afero.Exists(fsys, srcAbs); !exists {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeNotFound, input.Source))
		}
		if exists, _ := afero.Exists(fsys, dstAbs); exists && !input.Overwrite {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments,
				input.Destination+" already exists (pass overwrite to replace it)"))
		}

		if input.CreateDirs {
			if err := fsys.MkdirAll(filepath.Dir(dstAbs), 0755); err != nil {
				return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Destination, err))
			}
		}

		if err := fsys.Rename(srcAbs, dstAbs); err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Source, err))
		}

		toolsutil.GetLogger().Info("moved file", "source", srcAbs, "destination", dstAbs)
		return bailucore.ToolResult{
			Success: true,
			Output:  fmt.Sprintf("Moved %s to %s", input.Source, input.Destination),
		}
	}
}
