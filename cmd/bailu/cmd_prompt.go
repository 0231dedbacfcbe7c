package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/mediator"
	"github.com/CheYu0410/Bailu-Cli/src/orchestrator"
)

// PromptCmd executes one prompt non-interactively and exits. Review
// mode still prompts on the TTY; pass --safety dry-run or auto-apply
// for fully unattended runs.
type PromptCmd struct {
	Text []string `arg:"" optional:"" help:"The prompt text to send"`
	File string   `short:"f" help:"Load the prompt from a file instead"`
}

func (p *PromptCmd) Run(cli *CLI) error {
	a, err := buildApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	text := strings.Join(p.Text, " ")
	if p.File != "" {
		data, rerr := os.ReadFile(p.File)
		if rerr != nil {
			return rerr
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty prompt")
	}

	conv := bailucore.NewConversation(buildSystemPrompt(a.workspace.Root()))
	conv.Append(bailucore.RoleUser, text)

	execCtx := a.execContext(cli.Verbose)
	med := mediator.New(execCtx, a.surface, mediator.NewTTYPrompter(), nil, a.logger)
	orch := orchestrator.New(a.client, a.surface, med, a.logger)

	result := orch.Run(context.Background(), conv, execCtx, orchestrator.Config{
		OnChunk: func(chunk string) { fmt.Print(chunk) },
	})
	fmt.Println()

	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}
	return nil
}
