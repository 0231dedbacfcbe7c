package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// ErrSessionNotFound is returned when neither ID nor name matches.
var ErrSessionNotFound = errors.New("session not found")

// Save upserts the session row and replaces its messages, stamping
// LastUpdatedAt.
func (d *DB) Save(ctx context.Context, s *Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.LastUpdatedAt = now

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	files, err := JSONStringArray(s.ActiveFiles).Value()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, name, created_at, updated_at, iterations, tool_calls_executed, active_files)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at,
			iterations = excluded.iterations,
			tool_calls_executed = excluded.tool_calls_executed,
			active_files = excluded.active_files`,
		s.ID.String(), s.Name, s.CreatedAt, s.LastUpdatedAt,
		s.Stats.Iterations, s.Stats.ToolCallsExecuted, files); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", s.ID.String()); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	for i, m := range s.Messages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, session_id, seq, role, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), s.ID.String(), i, string(m.Role), m.Content, now); err != nil {
			return fmt.Errorf("failed to insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Load fetches a session by ID or, failing that, by exact name. The
// most recently updated session wins a name tie.
func (d *DB) Load(ctx context.Context, idOrName string) (*Session, error) {
	var row sessionRow
	err := sqlscan.Get(ctx, d.db, &row, `
		SELECT id, name, created_at, updated_at, iterations, tool_calls_executed, active_files
		FROM sessions WHERE id = ?`, idOrName)
	if errors.Is(err, sql.ErrNoRows) {
		err = sqlscan.Get(ctx, d.db, &row, `
			SELECT id, name, created_at, updated_at, iterations, tool_calls_executed, active_files
			FROM sessions WHERE name = ? ORDER BY updated_at DESC LIMIT 1`, idOrName)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var msgRows []messageRow
	if err := sqlscan.Select(ctx, d.db, &msgRows, `
		SELECT id, session_id, seq, role, content, created_at
		FROM messages WHERE session_id = ? ORDER BY seq`, row.ID); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return rowToSession(row, msgRows)
}

// List returns every session, most recently updated first, without
// loading message bodies.
func (d *DB) List(ctx context.Context) ([]*Session, error) {
	var rows []sessionRow
	if err := sqlscan.Select(ctx, d.db, &rows, `
		SELECT id, name, created_at, updated_at, iterations, tool_calls_executed, active_files
		FROM sessions ORDER BY updated_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]*Session, 0, len(rows))
	for _, row := range rows {
		s, err := rowToSession(row, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Delete removes a session and its messages by ID or name.
func (d *DB) Delete(ctx context.Context, idOrName string) error {
	s, err := d.Load(ctx, idOrName)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", s.ID.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RecordToolExecution appends one audit-trail entry; failures here are
// for the caller to log, never to abort a run over.
func (d *DB) RecordToolExecution(ctx context.Context, exec *ToolExecution) error {
	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}
	if exec.CreatedAt.IsZero() {
		exec.CreatedAt = time.Now().UTC()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO tool_executions (id, session_id, tool_name, input, output, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exec.ID, exec.SessionID, exec.ToolName, exec.Input, exec.Output, exec.Error, exec.DurationMs, exec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record tool execution: %w", err)
	}
	return nil
}

func rowToSession(row sessionRow, msgRows []messageRow) (*Session, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt session id %q: %w", row.ID, err)
	}

	messages := make([]bailucore.Message, 0, len(msgRows))
	for _, m := range msgRows {
		messages = append(messages, bailucore.Message{Role: bailucore.Role(m.Role), Content: m.Content})
	}

	return &Session{
		ID:            id,
		Name:          row.Name,
		CreatedAt:     row.CreatedAt,
		LastUpdatedAt: row.UpdatedAt,
		Messages:      messages,
		Stats: bailucore.IterationStats{
			Iterations:        row.Iterations,
			ToolCallsExecuted: row.ToolCallsExecuted,
		},
		ActiveFiles: row.ActiveFiles,
	}, nil
}
