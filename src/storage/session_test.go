package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := &Session{
		Name: "refactor",
		Messages: []bailucore.Message{
			{Role: bailucore.RoleSystem, Content: "you are helpful"},
			{Role: bailucore.RoleUser, Content: "read main.go"},
			{Role: bailucore.RoleAssistant, Content: "done"},
		},
		Stats:       bailucore.IterationStats{Iterations: 2, ToolCallsExecuted: 1},
		ActiveFiles: []string{"main.go"},
	}
	require.NoError(t, db.Save(ctx, s))
	require.NotEqual(t, "", s.ID.String())

	loaded, err := db.Load(ctx, s.ID.String())
	require.NoError(t, err)
	assert.Equal(t, s.Name, loaded.Name)
	assert.Equal(t, s.Messages, loaded.Messages)
	assert.Equal(t, 2, loaded.Stats.Iterations)
	assert.Equal(t, 1, loaded.Stats.ToolCallsExecuted)
	assert.Equal(t, []string{"main.go"}, loaded.ActiveFiles)
}

func TestLoadByName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := &Session{Name: "bugfix", Messages: []bailucore.Message{{Role: bailucore.RoleSystem, Content: "sys"}}}
	require.NoError(t, db.Save(ctx, s))

	loaded, err := db.Load(ctx, "bugfix")
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
}

func TestLoadMissing(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveReplacesMessages(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := &Session{Messages: []bailucore.Message{{Role: bailucore.RoleSystem, Content: "sys"}}}
	require.NoError(t, db.Save(ctx, s))

	s.Messages = append(s.Messages, bailucore.Message{Role: bailucore.RoleUser, Content: "more"})
	require.NoError(t, db.Save(ctx, s))

	loaded, err := db.Load(ctx, s.ID.String())
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 2)
}

func TestListOrdersByRecency(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := &Session{Name: "first"}
	second := &Session{Name: "second"}
	require.NoError(t, db.Save(ctx, first))
	require.NoError(t, db.Save(ctx, second))
	require.NoError(t, db.Save(ctx, first)) // touch: first becomes most recent

	sessions, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "first", sessions[0].Name)
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := &Session{Name: "doomed"}
	require.NoError(t, db.Save(ctx, s))
	require.NoError(t, db.Delete(ctx, "doomed"))

	_, err := db.Load(ctx, s.ID.String())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRecordToolExecution(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.RecordToolExecution(ctx, &ToolExecution{
		SessionID:  "some-session",
		ToolName:   "read_file",
		Input:      `{"path":"a.txt"}`,
		Output:     "hello",
		DurationMs: 4,
	})
	require.NoError(t, err)
}
