package tool_writefile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "write_file"

const writeFilePrompt = `Writes a file inside the workspace, replacing any existing contents.

Usage:
- The write is atomic: content lands in a temporary sibling first, then renames over the target.
- Set create_dirs to create missing parent directories.
- Prefer apply_diff for edits to existing files; write_file replaces the whole file.`

type writeFileInput struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	CreateDirs bool   `json:"create_dirs,omitempty"`
}

// Definition describes write_file: a mutating tool, subject to approval.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "The file path to write", Required: true},
		{Name: "content", Type: bailucore.ParamString, Description: "The complete file content", Required: true},
		{Name: "create_dirs", Type: bailucore.ParamBoolean, Description: "Create missing parent directories", Default: false},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: writeFilePrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the write_file executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input writeFileInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "write_file parameters", err))
		}

		abs, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		if err := toolsutil.ValidateFileSize(int64(len(input.Content))); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, input.Path, err))
		}

		fsys := ws.Fs()
		existed, _ := afero.Exists(fsys, abs)

		dir := filepath.Dir(abs)
		if input.CreateDirs {
			if err := fsys.MkdirAll(dir, 0755); err != nil {
				return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(dir, err))
			}
		} else if ok, _ := afero.DirExists(fsys, dir); !ok {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeNotFound,
				fmt.Sprintf("parent directory %s does not exist (pass create_dirs to create it)", dir)))
		}

		if err := atomicWrite(fsys, abs, []byte(input.Content)); err != nil {
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, err))
		}

		toolsutil.GetLogger().Info("wrote file", "path", abs, "bytes", len(input.Content), "created", !existed)

		return bailucore.ToolResult{
			Success: true,
			Output:  fmt.Sprintf("Wrote %s (%s)", input.Path, toolsutil.FormatSize(int64(len(input.Content)))),
			Metadata: map[string]any{
				"bytes":   len(input.Content),
				"lines":   toolsutil.CountLines([]byte(input.Content)),
				"created": !existed,
			},
		}
	}
}

// atomicWrite lands content in a uniquely-named sibling, then renames it
// over the target so a crash mid-write never leaves a half-written file.
func atomicWrite(fsys afero.Fs, path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString()[:8])
	if err := afero.WriteFile(fsys, tmp, data, 0644); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, path); err != nil {
		fsys.Remove(tmp)
		return err
	}
	return nil
}
