package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// Session is one persisted chat session: the conversation, its run
// stats, and the files it touched.
type Session struct {
	ID            uuid.UUID
	Name          string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
	Messages      []bailucore.Message
	Stats         bailucore.IterationStats
	ActiveFiles   []string
}

// sessionRow is the flat sessions-table shape scany scans into.
type sessionRow struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
	Iterations        int             `db:"iterations"`
	ToolCallsExecuted int             `db:"tool_calls_executed"`
	ActiveFiles       JSONStringArray `db:"active_files"`
}

// messageRow is one conversation message in the messages table.
type messageRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Seq       int       `db:"seq"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// ToolExecution is one audit-trail entry for a dispatched tool call.
type ToolExecution struct {
	ID         string    `db:"id"`
	SessionID  string    `db:"session_id"`
	ToolName   string    `db:"tool_name"`
	Input      string    `db:"input"`
	Output     string    `db:"output"`
	Error      string    `db:"error"`
	DurationMs int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

// JSONStringArray stores a []string as a JSON text column.
type JSONStringArray []string

// Value implements driver.Valuer.
func (a JSONStringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (a *JSONStringArray) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into JSONStringArray", src)
	}
	if len(data) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(a))
}
