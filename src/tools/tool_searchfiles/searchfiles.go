package tool_searchfiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "search_files"

const searchFilesPrompt = `Finds workspace files whose names match a regular expression. Searches recursively from the given directory (default: workspace root); hidden directories are skipped.`

// maxResults bounds the listing so one broad pattern cannot flood the
// conversation.
const maxResults = 500

type searchFilesInput struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path,omitempty"`
}

// Definition describes search_files: a safe tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "pattern", Type: bailucore.ParamString, Description: "Regular expression matched against file names", Required: true},
		{Name: "path", Type: bailucore.ParamString, Description: "Directory to search from; defaults to the workspace root", Default: "."},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: searchFilesPrompt,
		Parameters:  params,
		Safe:        true,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the search_files executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input searchFilesInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "search_files parameters", err))
		}
		if input.Path == "" {
			input.Path = "."
		}

		re, err := regexp.Compile(input.Pattern)
		if err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "bad pattern", err))
		}

		root, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		var matches []string
		truncated := false
		errStop := errors.New("stop walk")
		walkErr := afero.Walk(ws.Fs(), root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // unreadable subtrees are skipped, not fatal
			}
			name := info.Name()
			if info.IsDir() {
				if path != root && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if re.MatchString(name) {
				rel, rerr := filepath.Rel(ws.Root(), path)
				if rerr != nil {
					rel = path
				}
				matches = append(matches, rel)
				if len(matches) >= maxResults {
					truncated = true
					return errStop
				}
			}
			return nil
		})
		if walkErr != nil && !errors.Is(walkErr, errStop) {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, walkErr))
		}

		output := strings.Join(matches, "\n")
		if truncated {
			output += fmt.Sprintf("\n... (stopped at %d matches)", maxResults)
		}

		return bailucore.ToolResult{
			Success:  true,
			Output:   output,
			Metadata: map[string]any{"count": len(matches), "truncated": truncated},
		}
	}
}
