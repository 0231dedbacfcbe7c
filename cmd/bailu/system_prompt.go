package main

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/CheYu0410/Bailu-Cli/src/config"
)

const mainPromptTemplate = `You are Bailu, an interactive CLI coding agent.

You help users with software engineering tasks inside a single workspace directory, using the tools documented below. Use tools to inspect and change files or run commands; use plain text to talk to the user.

IMPORTANT: Assist with defensive security tasks only. Refuse to create, modify, or improve code that may be used maliciously.
IMPORTANT: Never touch paths outside the workspace; tool calls that try will be rejected.

# Tone and style
Be concise, direct, and to the point. Your output renders in a monospace terminal; GitHub-flavored markdown is fine. Minimize output tokens: answer the specific question without preamble or postamble. When you run a command that changes the user's files, say briefly what it does and why.

# Doing tasks
Read before you write: inspect the relevant files before proposing an edit. Prefer apply_diff for targeted edits and write_file for new files. After changing code, run the project's test command if one is known.`

// buildSystemPrompt assembles the base system message: the static
// prompt, the environment block, and any workspace hints. Tool
// documentation is NOT included here; the orchestrator injects and
// refreshes it per iteration.
func buildSystemPrompt(workspaceRoot string) string {
	var b strings.Builder
	b.WriteString(mainPromptTemplate)
	b.WriteString("\n\n")
	b.WriteString(environmentInfo(workspaceRoot))

	if hints := config.LoadWorkspace(workspaceRoot).Render(); hints != "" {
		b.WriteString("\n\n")
		b.WriteString(hints)
	}
	return b.String()
}

// environmentInfo renders the dynamic environment block.
func environmentInfo(workspaceRoot string) string {
	return fmt.Sprintf(`Here is useful information about the environment you are running in:
<env>
Workspace root: %s
Platform: %s
OS Version: %s
Today's date: %s
</env>`, workspaceRoot, runtime.GOOS, osVersion(), time.Now().Format("2006-01-02"))
}

// osVersion returns detailed OS version information, falling back to
// the bare GOOS name if the host probe fails.
func osVersion() string {
	info, err := host.Info()
	if err == nil {
		if info.PlatformVersion != "" {
			return fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		}
		return info.Platform
	}
	return runtime.GOOS
}
