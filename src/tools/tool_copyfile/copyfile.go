package tool_copyfile

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
const Name = "copy_file"

const copyFilePrompt = `Copies a file to a new path inside the workspace. Refuses to overwrite an existing destination unless overwrite is set.`

type copyFileInput struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Overwrite   bool   `json:"overwrite,omitempty"`
	CreateDirs  bool   `json:"create_dirs,omitempty"`
}

// Definition describes copy_file: a mutating tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "source", Type: bailucore.ParamString, Description: "The file to copy", Required: true},
		{Name: "destination", Type: bailucore.ParamString, Description: "Where to copy it", Required: true},
		{Name: "overwrite", Type: bailucore.ParamBoolean, Description: "Replace an existing destination", Default: false},
		{Name: "create_dirs", Type: bailucore.ParamBoolean, Description: "Create missing parent directories", Default: false},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: copyFilePrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the copy_file executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input copyFileInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "copy_file parameters", err))
		}

		srcAbs, data, err := ws.ReadFile(input.Source)
		if err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Source, err))
		}

		dstAbs, err := ws.Resolve(input.Destination)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		fsys := ws.Fs()
		if exists, _ := afero.Exists(fsys, dstAbs); exists && !input.Overwrite {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments,
				input.Destination+" already exists (pass overwrite to replace it)"))
		}

		if input.CreateDirs {
			if err := fsys.MkdirAll(filepath.Dir(dstAbs), 0755); err != nil {
				return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Destination, err))
			}
		}

		if err := afero.WriteFile(fsys, dstAbs, data, 0644); err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Destination, err))
		}

		toolsutil.GetLogger().Info("copied file", "source", srcAbs, "destination", dstAbs, "bytes", len(data))
		return bailucore.ToolResult{
			Success:  true,
			Output:   fmt.Sprintf("Copied %s to %s (%s)", input.Source, input.Destination, toolsutil.FormatSize(int64(len(data)))),
			Metadata: map[string]any{"bytes": len(data)},
		}
	}
}
