package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/CheYu0410/Bailu-Cli/src/mediator"
	"github.com/CheYu0410/Bailu-Cli/src/theme"
)

// maxHistoryEntries bounds the on-disk line history.
const maxHistoryEntries = 1000

// pasteWindow is how close together lines must arrive to be treated as
// one pasted block rather than separate inputs.
const pasteWindow = 25 * time.Millisecond

// input is one unit of user input, possibly aggregated from a paste.
type input struct {
	Text    string
	IsPaste bool
}

// repl owns the terminal input side of a chat session: a background
// line reader, history persistence, paste aggregation, and the approval
// prompt. It implements mediator.Prompter and LineEditorSuspender so an
// approval read pulls from the same line channel the main loop uses —
// bytes are consumed exactly once no matter who is asking.
type repl struct {
	out         io.Writer
	lines       chan string
	readErr     chan error
	suspended   atomic.Bool
	history     []string
	historyPath string
}

func newREPL(historyPath string) *repl {
	r := &repl{
		out:         os.Stdout,
		lines:       make(chan string),
		readErr:     make(chan error, 1),
		historyPath: historyPath,
	}
	r.loadHistory()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			r.lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			r.readErr <- err
		}
		close(r.lines)
	}()

	return r
}

// ReadInput blocks for the next unit of input, aggregating quick
// adjacent lines into a single paste event. Returns io.EOF once stdin
// is closed.
func (r *repl) ReadInput() (input, error) {
	line, ok := <-r.lines
	if !ok {
		select {
		case err := <-r.readErr:
			return input{}, err
		default:
			return input{}, io.EOF
		}
	}

	collected := []string{line}
	for {
		select {
		case next, more := <-r.lines:
			if !more {
				return r.finishInput(collected), nil
			}
			collected = append(collected, next)
		case <-time.After(pasteWindow):
			return r.finishInput(collected), nil
		}
	}
}

func (r *repl) finishInput(lines []string) input {
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	in := input{Text: text, IsPaste: len(lines) > 1}
	if text != "" {
		r.appendHistory(text)
	}
	return in
}

// Suspend and Resume bracket an approval-prompt read by setting a flag
// that nothing else reads. The main loop does not compete for lines
// during a prompt because it calls ReadInput only between runs.
func (r *repl) Suspend() { r.suspended.Store(true) }
func (r *repl) Resume()  { r.suspended.Store(false) }

// Prompt implements mediator.Prompter: show the diff, ask y/n/d/q, read
// the answer from the shared line channel.
func (r *repl) Prompt(ctx context.Context, toolName string, diff mediator.Diff) (mediator.Decision, error) {
	fmt.Fprintf(os.Stderr, "\n%s\n", theme.Banner("approval required"))
	fmt.Fprintf(os.Stderr, "About to run %s:\n%s\n", toolName, diff.Render(false))

	for {
		fmt.Fprint(os.Stderr, "Apply? [y]es / [n]o / [d]iff / [q]uit: ")

		var line string
		var ok bool
		select {
		case line, ok = <-r.lines:
			if !ok {
				return mediator.DecisionNo, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return mediator.DecisionYes, nil
		case "n", "no", "":
			return mediator.DecisionNo, nil
		case "d", "diff":
			return mediator.DecisionDiff, nil
		case "q", "quit":
			return mediator.DecisionQuit, nil
		default:
			fmt.Fprintln(os.Stderr, "please answer y, n, d, or q")
		}
	}
}

func (r *repl) loadHistory() {
	data, err := os.ReadFile(r.historyPath)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			r.history = append(r.history, line)
		}
	}
	if len(r.history) > maxHistoryEntries {
		r.history = r.history[len(r.history)-maxHistoryEntries:]
	}
}

// appendHistory records one entry, folding pasted newlines so the file
// stays line-oriented, and rewrites the bounded file.
func (r *repl) appendHistory(entry string) {
	flat := strings.ReplaceAll(entry, "\n", " ")
	r.history = append(r.history, flat)
	if len(r.history) > maxHistoryEntries {
		r.history = r.history[len(r.history)-maxHistoryEntries:]
	}
	if r.historyPath == "" {
		return
	}
	_ = os.WriteFile(r.historyPath, []byte(strings.Join(r.history, "\n")+"\n"), 0600)
}
