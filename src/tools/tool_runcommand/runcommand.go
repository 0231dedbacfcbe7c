package tool_runcommand

import (
	"context"
	"strconv"
	"time"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/shell"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "run_command"

const runCommandPrompt = `Executes a shell command inside the workspace and returns its stdout.

Usage:
- Pass args as a list to run the command directly; a bare command string goes through sh -c.
- cwd is resolved under the workspace root; it defaults to the root itself.
- timeout is in seconds (default 300). On timeout the child is terminated and timedOut is reported.
- Destructive commands (recursive deletes, partition tools, privilege elevation, power control, raw network fetchers) are blocked before anything runs.`

type runCommandInput struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	Cwd     string   `json:"cwd,omitempty"`
	Timeout float64  `json:"timeout,omitempty"`
}

// Definition describes run_command: a mutating tool, subject to
// approval.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "command", Type: bailucore.ParamString, Description: "The command to run", Required: true},
		{Name: "args", Type: bailucore.ParamArray, Description: "Arguments passed to the command verbatim"},
		{Name: "cwd", Type: bailucore.ParamString, Description: "Working directory, relative to the workspace root"},
		{Name: "timeout", Type: bailucore.ParamNumber, Description: "Wall-clock limit in seconds (default 300)"},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: runCommandPrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the run_command executor bound to a workspace and a
// command runner.
func Handler(ws *fs.Workspace, runner *shell.Runner) toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input runCommandInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "run_command parameters", err))
		}
		if input.Command == "" {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments, "command must not be empty"))
		}

		dir := ws.Root()
		if input.Cwd != "" {
			abs, err := ws.Resolve(input.Cwd)
			if err != nil {
				return bailucore.ToolResultFromError(err)
			}
			dir = abs
		}

		var timeout time.Duration
		if input.Timeout > 0 {
			timeout = time.Duration(input.Timeout * float64(time.Second))
		}

		if prefix, blocked := shell.IsBlocked(commandLine(input)); blocked {
			toolsutil.GetLogger().Warn("blocked command", "command", input.Command, "prefix", prefix)
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeBlocked,
				"command matches blocked prefix "+prefix))
		}

		result, err := runner.Run(ctx, shell.Spec{
			Command: input.Command,
			Args:    input.Args,
			Dir:     dir,
			Timeout: timeout,
		})
		if err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeFSFault, input.Command, err))
		}

		meta := map[string]any{
			"exitCode": result.ExitCode,
			"stderr":   result.Stderr,
			"timedOut": result.TimedOut,
		}

		if result.TimedOut {
			return bailucore.ToolResult{
				Success:  false,
				Error:    bailucore.NewError(bailucore.CodeTimeout, input.Command).Error(),
				Metadata: meta,
			}
		}
		if result.ExitCode != 0 {
			out := result.Stderr
			if out == "" {
				out = result.Stdout
			}
			return bailucore.ToolResult{
				Success:  false,
				Error:    bailucore.NewError(bailucore.CodeFSFault, "exit code "+strconv.Itoa(result.ExitCode)+": "+toolsutil.Truncate(out, 4096)).Error(),
				Metadata: meta,
			}
		}

		return bailucore.ToolResult{
			Success:  true,
			Output:   result.Stdout,
			Metadata: meta,
		}
	}
}

func commandLine(input runCommandInput) string {
	line := input.Command
	for _, a := range input.Args {
		line += " " + a
	}
	return line
}
