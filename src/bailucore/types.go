// Package bailucore holds the data model shared by the tool surface, the
// action parser, the safety mediator, the orchestrator, and the
// conversation store. It has no dependencies on any of those packages so
// that each of them can depend on it without cycles.
package bailucore

import (
	"time"

	"github.com/google/uuid"
	jsonschema "github.com/swaggest/jsonschema-go"
)

// Role identifies who authored a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a Conversation.
type Message struct {
	Role    Role
	Content string
}

// Conversation is an ordered, append-only sequence of Messages. Element 0
// is always system-role; it is the only message ever mutated in place
// (to refresh the injected tool-documentation appendix and memory section).
type Conversation struct {
	Messages []Message
}

// NewConversation starts a conversation with a single system message.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		Messages: []Message{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(role Role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// System returns the system message, or the zero Message if the
// conversation is empty (which should never happen post-construction).
func (c *Conversation) System() Message {
	if len(c.Messages) == 0 {
		return Message{}
	}
	return c.Messages[0]
}

// SetSystem replaces the system message in place.
func (c *Conversation) SetSystem(content string) {
	if len(c.Messages) == 0 {
		c.Messages = []Message{{Role: RoleSystem, Content: content}}
		return
	}
	c.Messages[0] = Message{Role: RoleSystem, Content: content}
}

// Tail returns a copy of everything after the system message.
func (c *Conversation) Tail() []Message {
	if len(c.Messages) <= 1 {
		return nil
	}
	out := make([]Message, len(c.Messages)-1)
	copy(out, c.Messages[1:])
	return out
}

// ParamType enumerates the scalar/composite kinds a ToolParameter may take.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
)

// ToolParameter describes one named input a tool accepts.
type ToolParameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
}

// ToolDefinition is the immutable, registered shape of a tool. Safe tools
// perform no observable side effect and are never subject to approval
// prompting in review mode.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  []ToolParameter
	Safe        bool

	// schema is built from Parameters by schema.FromParameters in each
	// tool's Definition and cached here via WithSchema; nil for
	// definitions that never had one attached.
	schema *jsonschema.Schema
}

// WithSchema attaches a pre-built JSON schema (typically from
// schema.FromParameters) to the definition and returns it.
func (d ToolDefinition) WithSchema(s *jsonschema.Schema) ToolDefinition {
	d.schema = s
	return d
}

// Schema returns the cached JSON schema, if one was attached.
func (d ToolDefinition) Schema() *jsonschema.Schema {
	return d.schema
}

// ToolCall is a single structured invocation extracted from an assistant
// message by the action parser.
type ToolCall struct {
	Tool   string
	Params map[string]any
}

// ToolResult is the single normalized outcome of executing a ToolCall.
// Exactly one handler invocation produces exactly one ToolResult; panics
// and errors escaping a handler are normalized into a failing ToolResult
// at the mediator boundary.
type ToolResult struct {
	Success  bool
	Output   string
	Error    string
	Metadata map[string]any
}

// SafetyMode is the mediator's operating policy for one orchestrator run.
type SafetyMode string

const (
	SafetyDryRun    SafetyMode = "dry-run"
	SafetyReview    SafetyMode = "review"
	SafetyAutoApply SafetyMode = "auto-apply"
)

// ExecutionContext is immutable for the duration of one orchestrator run
// and is read by the mediator on every dispatched call.
type ExecutionContext struct {
	WorkspaceRoot string
	SafetyMode    SafetyMode
	Verbose       bool
}

// BackupRecord is a pre-mutation snapshot kept alongside a file so a
// failed or regretted mutation can be rolled back.
type BackupRecord struct {
	ID           uuid.UUID
	OriginalPath string
	BackupPath   string
	Tool         string
	CreatedAt    time.Time
}

// IterationStats is per-run bookkeeping used only for termination
// decisions; it is never exposed to the model.
type IterationStats struct {
	Iterations           int
	ToolCallsExecuted    int
	ConsecutiveFailures  int
	LastFailedTool       string
}
