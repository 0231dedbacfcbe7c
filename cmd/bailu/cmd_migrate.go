package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CheYu0410/Bailu-Cli/src/config"
	"github.com/CheYu0410/Bailu-Cli/src/storage"
)

// MigrateCmd creates or upgrades the session database in place.
type MigrateCmd struct{}

func (m *MigrateCmd) Run(cli *CLI) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.SessionDBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Session database ready at %s\n", path)
	return nil
}
