package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/config"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/orclient"
	"github.com/CheYu0410/Bailu-Cli/src/shell"
	"github.com/CheYu0410/Bailu-Cli/src/storage"
	"github.com/CheYu0410/Bailu-Cli/src/tools"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// app is the wired-up set of collaborators one command needs.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	workspace  *fs.Workspace
	surface    *toolsurface.Surface
	client     *orclient.Client
	store      *storage.DB
	safetyMode bailucore.SafetyMode
}

// buildApp resolves config, logging, the workspace, the tool surface,
// the transport, and the session store for one command invocation.
func buildApp(cli *CLI) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg, cli.Verbose)
	slog.SetDefault(logger)
	toolsutil.SetLogger(logger)

	root := cli.Workspace
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	mode := cfg.Safety.Mode
	if cli.Safety != "" {
		mode = bailucore.SafetyMode(cli.Safety)
		switch mode {
		case bailucore.SafetyDryRun, bailucore.SafetyReview, bailucore.SafetyAutoApply:
		default:
			return nil, fmt.Errorf("unknown safety mode %q", cli.Safety)
		}
	}

	workspace := fs.New(root)
	runner := shell.NewRunner(logger)

	surface := toolsurface.New()
	if err := tools.RegisterAll(surface, workspace, runner, tools.Options{
		EnableWebFetch: cfg.Tools.EnableWebFetch,
		Disabled:       cfg.Tools.Disabled,
	}); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	client := orclient.NewClient(orclient.Config{
		APIKey:  cfg.API.Key,
		BaseURL: cfg.API.BaseURL,
		Model:   cfg.API.Model,
		Logger:  logger,
	})

	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath()), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	store, err := storage.Open(cfg.SessionDBPath())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		workspace:  workspace,
		surface:    surface,
		client:     client,
		store:      store,
		safetyMode: mode,
	}, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// execContext snapshots the immutable per-run context.
func (a *app) execContext(verbose bool) bailucore.ExecutionContext {
	return bailucore.ExecutionContext{
		WorkspaceRoot: a.workspace.Root(),
		SafetyMode:    a.safetyMode,
		Verbose:       verbose,
	}
}

// newSession starts a persisted session shell for this run.
func (a *app) newSession() *storage.Session {
	return &storage.Session{
		CreatedAt: time.Now().UTC(),
	}
}
