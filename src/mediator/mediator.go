// Package mediator implements the safety mediator: it wraps every tool
// dispatch with policy branching (dry-run/review/auto-apply), backup
// creation before mutation, the interactive approval prompt, and
// rollback on failure.
package mediator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Prompter shows the approval prompt for a mutating call in review mode
// and returns the user's choice. A real terminal implementation detaches
// any REPL line-editor listeners for the duration of the read and
// restores them before returning, per the approval-prompt contract; a
// LineEditorSuspender models that without the mediator needing to know
// about a concrete REPL.
type Prompter interface {
	Prompt(ctx context.Context, toolName string, diff Diff) (Decision, error)
}

// LineEditorSuspender lets a REPL register hooks the mediator calls
// immediately before and after reading from the controlling TTY, so
// input bytes are never double-consumed.
type LineEditorSuspender interface {
	Suspend()
	Resume()
}

// Decision is the user's answer to the approval prompt.
type Decision string

const (
	DecisionYes  Decision = "y"
	DecisionNo   Decision = "n"
	DecisionDiff Decision = "d"
	DecisionQuit Decision = "q"
)

// quitSignal is returned from Dispatch when the user chose 'q'; the
// orchestrator must terminate the whole process cleanly on seeing it.
var quitSignal = bailucore.NewError("quit", "user requested process termination")

// IsQuit reports whether err signals a user-requested clean shutdown.
func IsQuit(err error) bool { return err == quitSignal }

// Mediator is constructed once per orchestrator run and is not safe for
// concurrent use across conversations. Dispatch within a turn is
// strictly sequential, so the mediator carries no internal locking
// beyond the backup ledger's.
type Mediator struct {
	ctx      bailucore.ExecutionContext
	surface  *toolsurface.Surface
	backups  *Ledger
	prompter Prompter
	suspend  LineEditorSuspender
	logger   *slog.Logger

	// ContinueOnError controls whether the remaining calls in a turn are
	// skipped once one fails. Defaults to false (skip).
	ContinueOnError bool
}

// New constructs a Mediator for one orchestrator run.
func New(execCtx bailucore.ExecutionContext, surface *toolsurface.Surface, prompter Prompter, suspend LineEditorSuspender, logger *slog.Logger) *Mediator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mediator{
		ctx:      execCtx,
		surface:  surface,
		backups:  NewLedger(),
		prompter: prompter,
		suspend:  suspend,
		logger:   logger,
	}
}

// mutatingTools are the tools that back up pre-existing file contents
// before running.
var mutatingTools = map[string]bool{
	"write_file": true,
	"apply_diff": true,
}

// Dispatch runs the six-step per-call algorithm against a single parsed
// ToolCall and returns the resulting ToolResult. It never panics. The
// only error it returns is the quit sentinel; every other failure
// (unknown-tool included) is folded into the ToolResult.
func (m *Mediator) Dispatch(ctx context.Context, call bailucore.ToolCall) (bailucore.ToolResult, error) {
	def, handler, ok := m.surface.Get(call.Tool)
	if !ok {
		return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeUnknownTool, call.Tool)), nil
	}

	params, err := toolsurface.ValidateParams(def, call.Params)
	if err != nil {
		return bailucore.ToolResultFromError(err), nil
	}

	switch m.ctx.SafetyMode {
	case bailucore.SafetyDryRun:
		m.logger.Info("dry-run: simulating tool call", "tool", def.Name, "params", params)
		return bailucore.ToolResult{Success: true, Output: "simulated"}, nil

	case bailucore.SafetyReview:
		if !def.Safe {
			decision, derr := m.approve(ctx, def, params)
			if derr != nil {
				return bailucore.ToolResultFromError(derr), nil
			}
			switch decision {
			case DecisionNo:
				return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeUserCancelled, "user declined "+def.Name)), nil
			case DecisionQuit:
				return bailucore.ToolResult{}, quitSignal
			case DecisionYes:
				// fall through to execution
			}
		} else {
			m.logger.Info("[auto] safe tool proceeding without prompt", "tool", def.Name)
		}

	case bailucore.SafetyAutoApply:
		// proceed immediately
	}

	return m.execute(ctx, def, handler, params), nil
}

// execute performs steps 4-6 of the algorithm: backup, invoke, and on
// failure offer/attach rollback.
func (m *Mediator) execute(ctx context.Context, def bailucore.ToolDefinition, handler toolsurface.Handler, params map[string]any) bailucore.ToolResult {
	var backup *bailucore.BackupRecord
	if mutatingTools[def.Name] {
		if path, ok := stringParam(params, "path"); ok {
			if rec, err := m.backups.Snapshot(m.ctx.WorkspaceRoot, def.Name, path); err == nil {
				backup = rec
			} else {
				m.logger.Debug("no pre-existing file to back up", "path", path, "reason", err)
			}
		}
	}

	result := safeInvoke(ctx, handler, params)

	if !result.Success && backup != nil {
		if m.ctx.SafetyMode == bailucore.SafetyReview && m.prompter != nil {
			decision, err := m.approve(ctx, rollbackPromptDef(def.Name), params)
			if err == nil && decision == DecisionYes {
				if rerr := m.backups.Restore(*backup); rerr == nil {
					result.Error = result.Error + " (rolled back)"
					return result
				}
			}
		} else {
			result.Error = result.Error + fmt.Sprintf(" (recoverable: backup available at %s)", backup.BackupPath)
		}
	}

	return result
}

// safeInvoke normalizes a handler panic into a failing ToolResult so no
// OS-level exception from a tool handler escapes the mediator boundary.
func safeInvoke(ctx context.Context, handler toolsurface.Handler, params map[string]any) bailucore.ToolResult {
	var result bailucore.ToolResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = bailucore.ToolResultFromError(fmt.Errorf("tool panicked: %v", r))
			}
		}()
		result = handler(ctx, params)
	}()
	return result
}

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func rollbackPromptDef(toolName string) bailucore.ToolDefinition {
	return bailucore.ToolDefinition{Name: toolName + "_rollback", Safe: false}
}
