// Package orchestrator drives one conversational run: it streams the
// model's reply, parses out any tool calls, dispatches them through the
// safety mediator, feeds the results back, and decides when the
// conversation has reached a terminal state.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CheYu0410/Bailu-Cli/src/actionparser"
	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/convstore"
	"github.com/CheYu0410/Bailu-Cli/src/mediator"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// SanityWarnIterations is the iteration count past which a run logs a
// warning that something may be looping without yet aborting.
const SanityWarnIterations = 1000

// MaxIterations is the sanity ceiling: a run that has not reached a
// terminal state by this many iterations is stopped with an advisory
// rather than left to run forever.
const MaxIterations = 100

// MaxConsecutiveFailures trips the circuit breaker: the same tool
// failing this many times in a row ends the run rather than letting the
// model retry it indefinitely.
const MaxConsecutiveFailures = 3

// Config is the fixed, per-run configuration the orchestrator needs
// beyond the wiring it's handed directly (transport, surface, mediator).
type Config struct {
	OnChunk func(string) // invoked with each newly-visible text chunk, display-suppressed action markup excluded
}

// Result is the orchestrator's output contract for one Run call.
type Result struct {
	Success           bool
	FinalResponse     string
	Iterations        int
	ToolCallsExecuted int
	Error             string
	// Quit is set when the user answered 'q' at an approval prompt; the
	// embedding process must terminate cleanly on seeing it.
	Quit bool
	// TouchedFiles lists workspace paths the run read or mutated, for
	// session bookkeeping.
	TouchedFiles []string
	// Messages excludes the system message (index 0 of the conversation).
	Messages []bailucore.Message
}

// Orchestrator owns one run's collaborators. It holds no state of its
// own beyond what's passed in at construction; IterationStats and Memory
// are scoped to a single Run call.
type Orchestrator struct {
	transport Transport
	surface   *toolsurface.Surface
	med       *mediator.Mediator
	logger    *slog.Logger
}

// New wires an Orchestrator from its three collaborators.
func New(transport Transport, surface *toolsurface.Surface, med *mediator.Mediator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{transport: transport, surface: surface, med: med, logger: logger}
}

// Run executes the main loop against conv until a terminal state is
// reached: natural completion (a turn with no tool calls) ends the run
// before any tools are dispatched; after a turn's tools run, the ordered
// checks are circuit breaker, dry-run-after-first-iteration, then
// iteration ceiling.
func (o *Orchestrator) Run(ctx context.Context, conv *bailucore.Conversation, execCtx bailucore.ExecutionContext, cfg Config) Result {
	mem := &Memory{}
	stats := bailucore.IterationStats{}
	tools := o.surface.List()

	for {
		stats.Iterations++
		if stats.Iterations == SanityWarnIterations {
			o.logger.Warn("orchestrator run has exceeded the sanity warning threshold", "iterations", stats.Iterations)
		}

		refreshSystemMessage(conv, tools, mem)

		if convstore.ShouldAutoCompress(conv) {
			convstore.AutoCompress(conv)
		}

		raw, err := o.streamTurn(ctx, conv, cfg.OnChunk)
		if err != nil {
			return o.finish(conv, stats, mem, false, "", fmt.Sprintf("%s: %s", bailucore.CodeTransport, err.Error()))
		}

		plaintext, calls := actionparser.Parse(raw)

		if len(calls) == 0 {
			return o.finish(conv, stats, mem, true, plaintext, "")
		}

		conv.Append(bailucore.RoleAssistant, raw)

		turnResult, quit := o.runTurn(ctx, calls, mem, &stats)
		conv.Append(bailucore.RoleUser, turnResult)

		if quit {
			r := o.finish(conv, stats, mem, true, "Terminated at the user's request.", "")
			r.Quit = true
			return r
		}
		if stats.ConsecutiveFailures >= MaxConsecutiveFailures {
			advisory := fmt.Sprintf("Stopped early: %s failed %d times in a row. Partial progress is retained above.", stats.LastFailedTool, stats.ConsecutiveFailures)
			if plaintext != "" {
				advisory = plaintext + "\n\n" + advisory
			}
			return o.finish(conv, stats, mem, true, advisory, "")
		}
		if execCtx.SafetyMode == bailucore.SafetyDryRun && stats.Iterations >= 1 {
			return o.finish(conv, stats, mem, true, plaintext, "")
		}
		if stats.Iterations >= MaxIterations {
			advisory := fmt.Sprintf("Max iterations reached (%d); stopping here.", MaxIterations)
			if plaintext != "" {
				advisory = plaintext + "\n\n" + advisory
			}
			return o.finish(conv, stats, mem, true, advisory, "")
		}
	}
}

// streamTurn drives one streamed model turn, filtering <action> markup
// out of what's forwarded to onChunk and prefixing the first visible
// chunk with "Bailu: " — suppressed entirely if the whole reply turns
// out to be action-only.
func (o *Orchestrator) streamTurn(ctx context.Context, conv *bailucore.Conversation, onChunk func(string)) (string, error) {
	reader, err := o.transport.ChatStream(ctx, conv.Messages)
	if err != nil {
		return "", err
	}

	filter := actionparser.NewStreamFilter()
	prefixed := false
	full, err := drainStream(reader, func(chunk string) {
		visible := filter.Write(chunk)
		if visible == "" || onChunk == nil {
			return
		}
		if !prefixed {
			onChunk("Bailu: ")
			prefixed = true
		}
		onChunk(visible)
	})
	if err != nil {
		return full, err
	}
	return filter.Full(), nil
}

// runTurn dispatches every parsed call in sequence, stopping early once
// one fails (unless the mediator is configured to continue on error),
// and returns the single concatenated tagged-block result message the
// conversation appends for the turn. Skipped calls are not reported to
// the model at all. The second return is true when the user chose 'q'
// at an approval prompt.
func (o *Orchestrator) runTurn(ctx context.Context, calls []bailucore.ToolCall, mem *Memory, stats *bailucore.IterationStats) (string, bool) {
	var b strings.Builder
	for _, call := range calls {
		result, err := o.med.Dispatch(ctx, call)
		if err != nil {
			if mediator.IsQuit(err) {
				b.WriteString(resultBlock(call.Tool, bailucore.ToolResult{Success: false, Error: "user requested termination"}))
				return b.String(), true
			}
			result = bailucore.ToolResultFromError(err)
		}

		stats.ToolCallsExecuted++
		if result.Success {
			stats.ConsecutiveFailures = 0
			noteMemory(mem, call, result)
		} else {
			if stats.LastFailedTool == call.Tool {
				stats.ConsecutiveFailures++
			} else {
				stats.ConsecutiveFailures = 1
				stats.LastFailedTool = call.Tool
			}
		}

		b.WriteString(resultBlock(call.Tool, result))

		if !result.Success && !o.med.ContinueOnError {
			break
		}
	}
	return b.String(), false
}

// noteMemory updates the advisory scratchpad from a successful call's
// params/result, best-effort only.
func noteMemory(mem *Memory, call bailucore.ToolCall, result bailucore.ToolResult) {
	path, _ := call.Params["path"].(string)
	switch call.Tool {
	case "read_file", "write_file", "apply_diff":
		if path != "" {
			mem.noteTouched(path)
		}
	case "list_directory":
		mem.LastListing = result.Output
		mem.LastListingPath = path
	}
}

// resultBlock renders one tool's outcome as the tagged text block the
// model sees in its next turn.
func resultBlock(tool string, result bailucore.ToolResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<tool_result tool=%q success=\"%t\">\n", tool, result.Success)
	if result.Success {
		b.WriteString(result.Output)
	} else {
		b.WriteString(result.Error)
	}
	b.WriteString("\n</tool_result>\n")
	return b.String()
}

func (o *Orchestrator) finish(conv *bailucore.Conversation, stats bailucore.IterationStats, mem *Memory, success bool, finalResponse, errMsg string) Result {
	return Result{
		Success:           success,
		FinalResponse:     finalResponse,
		Iterations:        stats.Iterations,
		ToolCallsExecuted: stats.ToolCallsExecuted,
		Error:             errMsg,
		TouchedFiles:      append([]string(nil), mem.TouchedPaths...),
		Messages:          conv.Tail(),
	}
}
