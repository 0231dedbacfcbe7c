package tool_readfile

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "read_file"

const readFilePrompt = `Reads a file from the workspace and returns its contents.

Usage:
- The path parameter may be absolute (inside the workspace) or relative to the workspace root.
- Text files are returned verbatim; pass encoding "base64" for binary files.
- Files larger than 10 MB are rejected.`

type readFileInput struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding,omitempty"`
}

// Definition describes read_file: a safe tool, no approval required.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "The file path to read (absolute or relative to the workspace root)", Required: true},
		{Name: "encoding", Type: bailucore.ParamString, Description: `Output encoding: "utf-8" (default) or "base64" for binary files`},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: readFilePrompt,
		Parameters:  params,
		Safe:        true,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the read_file executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input readFileInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "read_file parameters", err))
		}

		abs, data, err := ws.ReadFile(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}

		if err := toolsutil.ValidateFileSize(int64(len(data))); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeFSFault, input.Path, err))
		}

		toolsutil.GetLogger().Info("read file", "path", abs, "size", len(data))

		output := string(data)
		if input.Encoding == "base64" {
			output = base64.StdEncoding.EncodeToString(data)
		} else if !toolsutil.IsTextContent(data) {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments,
				fmt.Sprintf("%s is not a text file; re-read it with encoding \"base64\"", input.Path)))
		}

		return bailucore.ToolResult{
			Success: true,
			Output:  output,
			Metadata: map[string]any{
				"size":  len(data),
				"lines": toolsutil.CountLines(data),
			},
		}
	}
}
