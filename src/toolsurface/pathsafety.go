package toolsurface

import (
	"path/filepath"
	"strings"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// ResolvePath resolves a tool-supplied path relative to workspaceRoot
// (when relative), normalizes it, and rejects it unless the normalized
// absolute path is a descendant of workspaceRoot. It also rejects any
// raw input containing a traversal sequence before normalization can
// hide it. This is the sole authority on what "the workspace" means to a
// tool handler, and every handler that takes a path calls it directly
// (defense in depth — the mediator calls it only to skip backups and
// previews of escaping paths; it does not reject the call itself).
func ResolvePath(workspaceRoot, raw string) (string, error) {
	lower := strings.ToLower(raw)
	if strings.Contains(raw, "../") || strings.Contains(raw, `..\`) || strings.Contains(lower, "%2e%2e") {
		return "", bailucore.NewError(bailucore.CodePathViolation, "path contains a traversal sequence: "+raw)
	}

	candidate := raw
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(workspaceRoot, candidate)
	}
	candidate = filepath.Clean(candidate)

	root := filepath.Clean(workspaceRoot)
	if candidate == root {
		return candidate, nil
	}
	rel, err := filepath.Rel(root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", bailucore.NewError(bailucore.CodePathViolation, "path escapes workspace root: "+raw)
	}
	return candidate, nil
}
