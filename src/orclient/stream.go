package orclient

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/CheYu0410/Bailu-Cli/src/orchestrator"
)

var _ orchestrator.StreamReader = (*sseStream)(nil)

// sseStream adapts a server-sent-events response body to the
// orchestrator's StreamReader. Text deltas pass straight through;
// native tool-call deltas accumulate by index and are emitted as one
// synthesized <action> chunk after the event stream ends, so the
// downstream parser sees a single textual form either way.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *slog.Logger

	toolCalls map[int]*wireToolCall
	done      bool
	tail      []string // chunks still owed after the SSE stream finished
}

func newSSEStream(body io.ReadCloser, logger *slog.Logger) *sseStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{
		body:      body,
		scanner:   scanner,
		logger:    logger,
		toolCalls: make(map[int]*wireToolCall),
	}
}

// Next returns the next assistant-text chunk, or io.EOF once the turn
// is complete. The final chunk before EOF may be a synthesized action
// block when the endpoint used native function calling.
func (s *sseStream) Next() (string, error) {
	if s.done {
		return s.nextTail()
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if payload == "[DONE]" {
			return s.finish(nil)
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			s.logger.Debug("skipping undecodable stream chunk", "error", err)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		for _, tc := range delta.ToolCalls {
			s.accumulate(tc)
		}
		if delta.Content != "" {
			return delta.Content, nil
		}
	}

	return s.finish(s.scanner.Err())
}

// accumulate merges one tool-call fragment: the name arrives once, the
// argument JSON arrives in pieces appended in order.
func (s *sseStream) accumulate(tc deltaToolCall) {
	existing, ok := s.toolCalls[tc.Index]
	if !ok {
		existing = &wireToolCall{ID: tc.ID}
		s.toolCalls[tc.Index] = existing
	}
	if tc.Function.Name != "" {
		existing.Function.Name = tc.Function.Name
	}
	existing.Function.Arguments += tc.Function.Arguments
}

// finish closes the body and queues any synthesized action block as the
// stream's final chunk.
func (s *sseStream) finish(err error) (string, error) {
	s.done = true
	s.body.Close()
	if err != nil {
		return "", err
	}

	if len(s.toolCalls) > 0 {
		indexes := make([]int, 0, len(s.toolCalls))
		for i := range s.toolCalls {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		calls := make([]wireToolCall, 0, len(indexes))
		for _, i := range indexes {
			calls = append(calls, *s.toolCalls[i])
		}
		// No separator before the block: a leading newline would count
		// as visible text and defeat the action-only prefix suppression
		// downstream.
		s.tail = append(s.tail, synthesizeActionBlock(calls))
		s.toolCalls = nil
	}

	return s.nextTail()
}

func (s *sseStream) nextTail() (string, error) {
	if len(s.tail) == 0 {
		return "", io.EOF
	}
	chunk := s.tail[0]
	s.tail = s.tail[1:]
	return chunk, nil
}
