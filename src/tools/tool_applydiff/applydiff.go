// Package tool_applydiff applies a unified diff to one workspace file.
// The hunk walk follows the diff text literally: '+' lines emit, '-'
// lines skip an original line, context lines copy and advance, and each
// "@@" header reseats the original-line cursor. New files are signaled
// by a "--- /dev/null" header.
package tool_applydiff

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "apply_diff"

const applyDiffPrompt = `Applies a unified diff to a workspace file.

Usage:
- The diff must contain at least one "@@" hunk header.
- Create a new file by using "--- /dev/null" as the old-file header.
- A pre-change backup is written to "<path>.backup" unless create_backup is false.`

type applyDiffInput struct {
	Path         string `json:"path"`
	Diff         string `json:"diff"`
	CreateBackup *bool  `json:"create_backup,omitempty"`
}

// Definition describes apply_diff: a mutating tool, subject to approval.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "path", Type: bailucore.ParamString, Description: "The file the diff applies to", Required: true},
		{Name: "diff", Type: bailucore.ParamString, Description: "Unified diff text with at least one @@ hunk", Required: true},
		{Name: "create_backup", Type: bailucore.ParamBoolean, Description: "Write <path>.backup before changing the file", Default: true},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: applyDiffPrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the apply_diff executor bound to a workspace.
func Handler(ws *fs.Workspace) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input applyDiffInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "apply_diff parameters", err))
		}
		createBackup := input.CreateBackup == nil || *input.CreateBackup

		abs, err := ws.Resolve(input.Path)
		if err != nil {
			return bailucore.ToolResultFromError(err)
		}

		fsys := ws.Fs()
		newFile := strings.Contains(input.Diff, "--- /dev/null")

		var original string
		exists, _ := afero.Exists(fsys, abs)
		if exists {
			data, rerr := afero.ReadFile(fsys, abs)
			if rerr != nil {
				return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, rerr))
			}
			original = string(data)
		} else if !newFile {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeNotFound, input.Path))
		}

		// Backup precedes any mutation; an empty diff still produces one.
		var backupPath string
		if createBackup && exists {
			backupPath = abs + ".backup"
			if werr := afero.WriteFile(fsys, backupPath, []byte(original), 0644); werr != nil {
				return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(backupPath, werr))
			}
		}

		if strings.TrimSpace(input.Diff) == "" {
			meta := map[string]any{"linesAdded": 0, "linesRemoved": 0}
			if backupPath != "" {
				meta["backup"] = backupPath
			}
			return bailucore.ToolResult{Success: true, Output: "Empty diff; " + input.Path + " unchanged.", Metadata: meta}
		}

		patched, added, removed, perr := ApplyUnified(original, input.Diff)
		if perr != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "diff does not apply", perr))
		}

		if werr := afero.WriteFile(fsys, abs, []byte(patched), 0644); werr != nil {
			if backupPath != "" {
				if rerr := afero.WriteFile(fsys, abs, []byte(original), 0644); rerr != nil {
					return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeFSFault,
						fmt.Sprintf("write failed (%v) and restore from backup also failed", werr), rerr))
				}
				return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeFSFault,
					"write failed; original restored from backup", werr))
			}
			return bailucore.ToolResultFromError(toolsutil.ClassifyFSError(input.Path, werr))
		}

		toolsutil.GetLogger().Info("applied diff", "path", abs, "added", added, "removed", removed)

		meta := map[string]any{
			"linesAdded":   added,
			"linesRemoved": removed,
			// The canonical diff of what actually changed, which may be
			// tighter than the model's input when context lines overlap.
			"appliedDiff": udiff.Unified(input.Path+" (before)", input.Path+" (after)", original, patched),
		}
		if backupPath != "" {
			meta["backup"] = backupPath
		}

		return bailucore.ToolResult{
			Success:  true,
			Output:   fmt.Sprintf("Applied diff to %s: +%d -%d", input.Path, added, removed),
			Metadata: meta,
		}
	}
}

// ApplyUnified walks original lines and diff lines in parallel. The
// returned counts are the '+' and '-' lines actually consumed.
func ApplyUnified(original, diff string) (string, int, int, error) {
	if !strings.Contains(diff, "@@") {
		return "", 0, 0, fmt.Errorf("diff contains no @@ hunk header")
	}

	origLines := splitKeepingFinalNewline(original)
	var out []string
	cursor := 0 // next original line to copy
	added, removed := 0, 0
	seenHunk := false

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			start, err := parseHunkStart(line)
			if err != nil {
				return "", 0, 0, err
			}
			// Copy untouched lines up to the hunk's 0-based start.
			target := start - 1
			if target < 0 {
				target = 0
			}
			if target > len(origLines) {
				return "", 0, 0, fmt.Errorf("hunk starts at line %d but file has %d lines", start, len(origLines))
			}
			if target < cursor {
				return "", 0, 0, fmt.Errorf("hunks out of order at line %d", start)
			}
			out = append(out, origLines[cursor:target]...)
			cursor = target
			seenHunk = true

		case !seenHunk:
			// File headers ("--- a/x", "+++ b/x") and any prose before
			// the first hunk are ignored.
			continue

		case strings.HasPrefix(line, "+"):
			out = append(out, line[1:])
			added++

		case strings.HasPrefix(line, "-"):
			if cursor >= len(origLines) {
				return "", 0, 0, fmt.Errorf("diff removes line %d past end of file", cursor+1)
			}
			cursor++
			removed++

		case strings.HasPrefix(line, " "):
			if cursor >= len(origLines) {
				return "", 0, 0, fmt.Errorf("context line %d past end of file", cursor+1)
			}
			out = append(out, origLines[cursor])
			cursor++

		case line == "" || line == "\\ No newline at end of file":
			// Blank separators between hunks and the no-newline marker
			// carry no content.
			continue

		default:
			return "", 0, 0, fmt.Errorf("unrecognized diff line %q", line)
		}
	}

	out = append(out, origLines[cursor:]...)
	return strings.Join(out, "\n"), added, removed, nil
}

// parseHunkStart pulls the 1-based old-file start line out of a header
// like "@@ -12,3 +12,4 @@".
func parseHunkStart(header string) (int, error) {
	fields := strings.Fields(header)
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			numPart := strings.TrimPrefix(f, "-")
			if i := strings.Index(numPart, ","); i >= 0 {
				numPart = numPart[:i]
			}
			n, err := strconv.Atoi(numPart)
			if err != nil {
				return 0, fmt.Errorf("bad hunk header %q", header)
			}
			return n, nil
		}
	}
	return 0, fmt.Errorf("bad hunk header %q", header)
}

// splitKeepingFinalNewline splits on '\n' such that joining with '\n'
// round-trips, including a trailing newline (which shows up as a final
// empty element).
func splitKeepingFinalNewline(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
