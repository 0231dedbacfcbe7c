package tool_listdir

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "list_directory"

const listDirPrompt = `Lists the entries of a workspace directory, one per line, with directories suffixed "/".

Usage:
- Omitting path lists the workspace root.
- recursive walks subdirectories; entries are then workspace-relative paths.
- Hidden entries (dot-prefixed) are skipped unless include_hidden is set.`

type listDirInput struct {
	Path          string `json:"path,omitempty"`
	Recursive     bool   `json:"recursive,omitempty"`
	IncludeHidden bool   `json:"include_hidden,omitempty"`
}

// Definition describes list_directory: a safe tool.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "Directory to list; defaults to the workspace root", Default: "."},
		{Name: "recursive", Type: bailucore.ParamBoolean, Description: "Walk subdirectories", Default: false},
		{Name: "include_hidden", Type: bailucore.ParamBoolean, Description: "Include dot-prefixed entries", Default: false},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: listDirPrompt,
		Parameters:  params,
		Safe:        true,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the list_directory executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input listDirInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "list_directory parameters", err))
		}
		if input.Path == "" {
			input.Path = "."
		}

		abs, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		info, err := ws.Fs().Stat(abs)
		if err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}
		if !info.IsDir() {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments, input.Path+" is not a directory"))
		}

		var entries []string
		if input.Recursive {
			entries, err = walk(ws.Fs(), abs, input.IncludeHidden)
		} else {
			entries, err = list(ws.Fs(), abs, input.IncludeHidden)
		}
		if err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}

		sort.Strings(entries)
		toolsutil.GetLogger().Info("listed directory", "path", abs, "entries", len(entries))

		return bailucore.ToolResult{
			Success: true,
			Output:  strings.Join(entries, "\n"),
			Metadata: map[string]any{
				"count": len(entries),
				"path":  abs,
			},
		}
	}
}

func list(fsys afero.Fs, dir string, hidden bool) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, fi := range infos {
		name := fi.Name()
		if !hidden && strings.HasPrefix(name, ".") {
			continue
		}
		if fi.IsDir() {
			name += "/"
		}
		out = append(out, name)
	}
	return out, nil
}

func walk(fsys afero.Fs, root string, hidden bool) ([]string, error) {
	var out []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return rerr
		}
		if !hidden && hasHiddenSegment(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

func hasHiddenSegment(rel string) bool {
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
