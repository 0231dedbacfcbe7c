package tool_grepfiles

import (
	"bufio"
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
const Name = "grep_files"

const grepFilesPrompt = `Searches text file contents under a workspace directory for a regular expression, reporting "path:line: text" matches. Binary files and hidden directories are skipped.`

const (
	maxMatches     = 200
	maxLineDisplay = 400
)

type grepFilesInput struct {
	Pattern    string `json:"pattern"`
	Path       string `json:"path,omitempty"`
	FileFilter string `json:"file_filter,omitempty"`
}

// Definition describes grep_files: a safe tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "pattern", Type: bailucore.ParamString, Description: "Regular expression matched against file contents", Required: true},
		{Name: "path", Type: bailucore.ParamString, Description: "Directory to search from; defaults to the workspace root", Default: "."},
		{Name: "file_filter", Type: bailucore.ParamString, Description: `Glob applied to file names, e.g. "*.go"`},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: grepFilesPrompt,
		Parameters:  params,
		Safe:        true,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the grep_files executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input grepFilesInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "grep_files parameters", err))
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

		var out []string
		total := 0
		errStop := errors.New("stop walk")
		walkErr := afero.Walk(ws.Fs(), root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if input.FileFilter != "" {
				if ok, _ := filepath.Match(input.FileFilter, info.Name()); !ok {
					return nil
				}
			}
			if info.Size() > toolsutil.MaxFileSize {
				return nil
			}

			data, rerr := afero.ReadFile(ws.Fs(), path)
			if rerr != nil || !toolsutil.IsTextContent(data) {
				return nil
			}

			rel, rerr := filepath.Rel(ws.Root(), path)
			if rerr != nil {
				rel = path
			}

			scanner := bufio.NewScanner(strings.NewReader(string(data)))
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			lineNo := 0
			for scanner.Scan() {
				lineNo++
				line := scanner.Text()
				if !re.MatchString(line) {
					continue
				}
				if len(line) > maxLineDisplay {
					line = line[:maxLineDisplay] + "..."
				}
				out = append(out, fmt.Sprintf("%s:%d: %s", rel, lineNo, line))
				total++
				if total >= maxMatches {
					return errStop
				}
			}
			return nil
		})
		if walkErr != nil && !errors.Is(walkErr, errStop) {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, walkErr))
		}

		output := strings.Join(out, "\n")
		if total >= maxMatches {
			output += fmt.Sprintf("\n... (stopped at %d matches)", maxMatches)
		}

		return bailucore.ToolResult{
			Success:  true,
			Output:   output,
			Metadata: map[string]any{"matches": total},
		}
	}
}
