package mediator

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// maxBackupsPerFile is the FIFO cap on BackupRecords kept per file.
// Eviction drops only the ledger entry; the on-disk "<path>.backup" is
// always the most recent by construction since each snapshot overwrites
// it.
const maxBackupsPerFile = 5

// Ledger owns the flat, path-keyed backup registry for one mediator. It
// is the sole owner of this state — there is no global backup map.
type Ledger struct {
	mu      sync.Mutex
	history map[string][]bailucore.BackupRecord
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{history: make(map[string][]bailucore.BackupRecord)}
}

// Snapshot writes "<path>.backup" from the current on-disk contents of
// path and records it, evicting the oldest record for that path once
// the FIFO cap is exceeded. The path goes through the same workspace
// resolution every handler applies — a path that escapes workspaceRoot
// is rejected here before any filesystem operation, not merely left
// for the handler to refuse later. Failures (escaping path, missing
// file) are non-fatal signals to skip the backup, not CoreErrors.
func (l *Ledger) Snapshot(workspaceRoot, tool, path string) (*bailucore.BackupRecord, error) {
	abs, err := toolsurface.ResolvePath(workspaceRoot, path)
	if err != nil {
		return nil, fmt.Errorf("refusing to back up outside the workspace: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("no existing file to back up: %w", err)
	}

	backupPath := abs + ".backup"
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	rec := bailucore.BackupRecord{
		ID:           uuid.New(),
		OriginalPath: abs,
		BackupPath:   backupPath,
		Tool:         tool,
		CreatedAt:    time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.history[abs] = append(l.history[abs], rec)
	if len(l.history[abs]) > maxBackupsPerFile {
		l.history[abs] = l.history[abs][len(l.history[abs])-maxBackupsPerFile:]
	}

	return &rec, nil
}

// Latest returns the most recent BackupRecord for path, if any.
func (l *Ledger) Latest(path string) (bailucore.BackupRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs := l.history[path]
	if len(recs) == 0 {
		return bailucore.BackupRecord{}, false
	}
	return recs[len(recs)-1], true
}

// Restore copies the backup's contents back over the original path,
// byte-exact.
func (l *Ledger) Restore(rec bailucore.BackupRecord) error {
	data, err := os.ReadFile(rec.BackupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := os.WriteFile(rec.OriginalPath, data, 0644); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	return nil
}
