package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the top-level command tree.
type CLI struct {
	Workspace string `short:"w" help:"Workspace root (defaults to the current directory)"`
	Safety    string `help:"Safety mode override: dry-run, review, or auto-apply"`
	Verbose   bool   `short:"v" help:"Verbose logging to stderr"`

	Chat    ChatCmd    `cmd:"" default:"1" help:"Interactive chat session (default)"`
	Prompt  PromptCmd  `cmd:"" help:"Execute a single prompt and exit"`
	Model   ModelCmd   `cmd:"" help:"Show or list available models"`
	Migrate MigrateCmd `cmd:"" help:"Initialize or upgrade the session database"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bailu"),
		kong.Description("Interactive coding agent for your terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
