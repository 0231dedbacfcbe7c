package tool_getfileinfo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "get_file_info"

const getFileInfoPrompt = `Returns metadata about a workspace file or directory: size, kind, permissions, modification time, and (for text files) a line count and language guess.`

type getFileInfoInput struct {
	Path string `json:"path"`
}

// Definition describes get_file_info: a safe tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "The file or directory to describe", Required: true},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: getFileInfoPrompt,
		Parameters:  params,
		Safe:        true,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the get_file_info executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input getFileInfoInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "get_file_info parameters", err))
		}

		abs, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		info, err := ws.Fs().Stat(abs)
		if err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}

		kind := "file"
		if info.IsDir() {
			kind = "directory"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "path: %s\n", abs)
		fmt.Fprintf(&b, "kind: %s\n", kind)
		fmt.Fprintf(&b, "size: %s\n", toolsutil.FormatSize(info.Size()))
		fmt.Fprintf(&b, "mode: %s\n", info.Mode())
		fmt.Fprintf(&b, "modified: %s\n", info.ModTime().Format(time.RFC3339))

		meta := map[string]any{
			"size":     info.Size(),
			"isDir":    info.IsDir(),
			"modified": info.ModTime().Format(time.RFC3339),
		}

		if !info.IsDir() && info.Size() <= toolsutil.MaxFileSize {
			if data, rerr := afero.ReadFile(ws.Fs(), abs); rerr == nil && toolsutil.IsTextContent(data) {
				lines := toolsutil.CountLines(data)
				fmt.Fprintf(&b, "lines: %d\n", lines)
				meta["lines"] = lines
				if lang := toolsutil.DetectLanguage(abs); lang != "" {
					fmt.Fprintf(&b, "language: %s\n", lang)
					meta["language"] = lang
				}
			}
		}

		return bailucore.ToolResult{
			Success:  true,
			Output:   strings.TrimRight(b.String(), "\n"),
			Metadata: meta,
		}
	}
}
