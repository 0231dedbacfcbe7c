package orchestrator

import (
	"context"
	"errors"
	"io"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// StreamReader yields one assistant-text chunk at a time, returning
// io.EOF once the turn is complete.
type StreamReader interface {
	Next() (string, error)
}

// Transport is the LLM interface the orchestrator consumes. A concrete
// adapter (src/orclient) implements this against a real chat-completions
// endpoint; it is responsible for converting a native function-calling
// response into the same <action> textual form the parser expects,
// before handing the assistant message back here.
type Transport interface {
	ChatStream(ctx context.Context, messages []bailucore.Message) (StreamReader, error)
	Chat(ctx context.Context, messages []bailucore.Message) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	CurrentModelName() string
}

// drainStream reads a StreamReader to completion, invoking onChunk for
// each piece of text observed, and returns the full concatenated text.
func drainStream(reader StreamReader, onChunk func(string)) (string, error) {
	var full []byte
	for {
		chunk, err := reader.Next()
		if chunk != "" {
			full = append(full, chunk...)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return string(full), nil
			}
			return string(full), err
		}
	}
}
