package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/convstore"
	"github.com/CheYu0410/Bailu-Cli/src/mediator"
	"github.com/CheYu0410/Bailu-Cli/src/orchestrator"
	"github.com/CheYu0410/Bailu-Cli/src/storage"
	"github.com/CheYu0410/Bailu-Cli/src/theme"
)

// sigintWindow is the double-tap interval: two interrupts inside it
// terminate the process.
const sigintWindow = 3 * time.Second

// ChatCmd is the interactive session.
type ChatCmd struct {
	Resume string `help:"Resume a saved session by ID or name"`
}

func (c *ChatCmd) Run(cli *CLI) error {
	a, err := buildApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	repl := newREPL(a.cfg.HistoryPath())
	session := a.newSession()
	conv := bailucore.NewConversation(buildSystemPrompt(a.workspace.Root()))

	if c.Resume != "" {
		loaded, lerr := a.store.Load(context.Background(), c.Resume)
		if lerr != nil {
			return lerr
		}
		session = loaded
		conv = &bailucore.Conversation{Messages: loaded.Messages}
		if len(conv.Messages) == 0 || conv.Messages[0].Role != bailucore.RoleSystem {
			conv = bailucore.NewConversation(buildSystemPrompt(a.workspace.Root()))
			conv.Messages = append(conv.Messages, loaded.Messages...)
		}
		fmt.Fprintf(repl.out, "Resumed session %s (%d messages)\n", loaded.ID, len(loaded.Messages))
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)
	var lastInterrupt time.Time
	go func() {
		for range sigCh {
			now := time.Now()
			if now.Sub(lastInterrupt) < sigintWindow {
				fmt.Fprintln(os.Stderr, "\ninterrupted twice; exiting")
				os.Exit(0)
			}
			lastInterrupt = now
			fmt.Fprintln(os.Stderr, "\n(press ctrl-c again within 3s to exit)")
		}
	}()

	fmt.Fprintf(repl.out, "Bailu ready. Workspace: %s  Safety: %s  Model: %s\n",
		a.workspace.Root(), a.safetyMode, a.client.CurrentModelName())
	fmt.Fprintln(repl.out, `Type a request, or /help for commands.`)

	for {
		fmt.Fprint(repl.out, "\n> ")
		in, rerr := repl.ReadInput()
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
		if in.Text == "" {
			continue
		}

		if strings.HasPrefix(in.Text, "/") && !in.IsPaste {
			quit, cerr := c.dispatchSlash(a, repl, conv, session, in.Text)
			if cerr != nil {
				fmt.Fprintln(os.Stderr, theme.ErrorText.Render(cerr.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		conv.Append(bailucore.RoleUser, in.Text)
		result := c.runOnce(a, repl, conv)

		if result.Quit {
			return nil
		}
		if !result.Success {
			fmt.Fprintln(os.Stderr, theme.ErrorText.Render("✗ "+result.Error))
			fmt.Fprintln(os.Stderr, theme.Muted.Render("The session is still alive; adjust and retry."))
		}

		session.Messages = conv.Messages
		session.Stats.Iterations += result.Iterations
		session.Stats.ToolCallsExecuted += result.ToolCallsExecuted
		session.ActiveFiles = mergeFiles(session.ActiveFiles, result.TouchedFiles)
	}
}

// mergeFiles unions two path lists, keeping first-seen order.
func mergeFiles(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p] = true
	}
	for _, p := range extra {
		if !seen[p] {
			existing = append(existing, p)
			seen[p] = true
		}
	}
	return existing
}

// runOnce drives one orchestrator run for the current conversation.
func (c *ChatCmd) runOnce(a *app, repl *repl, conv *bailucore.Conversation) orchestrator.Result {
	execCtx := a.execContext(false)
	med := mediator.New(execCtx, a.surface, repl, repl, a.logger)
	orch := orchestrator.New(a.client, a.surface, med, a.logger)

	streamed := false
	result := orch.Run(context.Background(), conv, execCtx, orchestrator.Config{
		OnChunk: func(chunk string) {
			if !streamed {
				fmt.Fprintln(repl.out)
				streamed = true
			}
			if chunk == "Bailu: " {
				fmt.Fprint(repl.out, theme.Prefix.Render(chunk))
				return
			}
			fmt.Fprint(repl.out, chunk)
		},
	})
	if streamed {
		fmt.Fprintln(repl.out)
	}

	// The final reply was already streamed; record it in the
	// conversation history so resume and /save see it.
	if result.Success && result.FinalResponse != "" {
		conv.Append(bailucore.RoleAssistant, result.FinalResponse)
	}
	return result
}

// dispatchSlash handles REPL commands; the bool return requests exit.
func (c *ChatCmd) dispatchSlash(a *app, repl *repl, conv *bailucore.Conversation, session *storage.Session, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		fmt.Fprint(repl.out, `Commands:
  /help              show this help
  /safety [mode]     show or set safety mode (dry-run, review, auto-apply)
  /model             show the current model
  /models            list models the endpoint offers
  /compress          compress older conversation history
  /tokens            show the estimated token cost of the conversation
  /save [name]       persist the session
  /sessions          list saved sessions
  /load <id|name>    switch to a saved session
  /delete <id|name>  delete a saved session
  /quit              exit
`)
		return false, nil

	case "/quit", "/exit":
		return true, nil

	case "/safety":
		if len(args) == 0 {
			fmt.Fprintf(repl.out, "Safety mode: %s\n", a.safetyMode)
			return false, nil
		}
		mode := bailucore.SafetyMode(args[0])
		switch mode {
		case bailucore.SafetyDryRun, bailucore.SafetyReview, bailucore.SafetyAutoApply:
			a.safetyMode = mode
			fmt.Fprintf(repl.out, "Safety mode set to %s\n", mode)
			return false, nil
		default:
			return false, fmt.Errorf("unknown safety mode %q", args[0])
		}

	case "/model":
		fmt.Fprintf(repl.out, "Model: %s\n", a.client.CurrentModelName())
		return false, nil

	case "/models":
		models, err := a.client.ListModels(context.Background())
		if err != nil {
			return false, err
		}
		for _, m := range models {
			fmt.Fprintln(repl.out, m)
		}
		return false, nil

	case "/compress":
		if convstore.ManualCompress(conv) {
			fmt.Fprintf(repl.out, "Compressed; %d messages retained.\n", len(conv.Messages))
		} else {
			fmt.Fprintln(repl.out, "Nothing to compress.")
		}
		return false, nil

	case "/tokens":
		fmt.Fprintf(repl.out, "Estimated tokens: %.0f (budget %d)\n",
			convstore.EstimateTokens(conv), convstore.DefaultTokenBudget)
		return false, nil

	case "/save":
		if len(args) > 0 {
			session.Name = args[0]
		}
		session.Messages = conv.Messages
		if err := a.store.Save(context.Background(), session); err != nil {
			return false, err
		}
		fmt.Fprintf(repl.out, "Saved session %s\n", session.ID)
		return false, nil

	case "/sessions":
		sessions, err := a.store.List(context.Background())
		if err != nil {
			return false, err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(repl.out, "No saved sessions.")
			return false, nil
		}
		for _, s := range sessions {
			name := s.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(repl.out, "%s  %s  %s\n", s.ID, name, s.LastUpdatedAt.Local().Format(time.RFC3339))
		}
		return false, nil

	case "/load":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: /load <id|name>")
		}
		loaded, err := a.store.Load(context.Background(), args[0])
		if err != nil {
			return false, err
		}
		*session = *loaded
		conv.Messages = loaded.Messages
		if len(conv.Messages) == 0 {
			conv.Messages = bailucore.NewConversation(buildSystemPrompt(a.workspace.Root())).Messages
		}
		fmt.Fprintf(repl.out, "Loaded session %s (%d messages)\n", loaded.ID, len(loaded.Messages))
		return false, nil

	case "/delete":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: /delete <id|name>")
		}
		if err := a.store.Delete(context.Background(), args[0]); err != nil {
			return false, err
		}
		fmt.Fprintln(repl.out, "Deleted.")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}
