package mediator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/theme"
	tool_applydiff "github.com/CheYu0410/Bailu-Cli/src/tools/tool_applydiff"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

var (
	addedStyle   = theme.Added
	removedStyle = theme.Removed
	summaryStyle = theme.Muted
)

// Diff is the unified-ish diff the approval prompt displays: current
// contents vs. proposed contents for a mutating call, plus the added/
// removed line counts summary the contract requires alongside it.
type Diff struct {
	Path    string
	Before  string
	After   string
	Added   int
	Removed int
}

// BuildDiff computes line-level diff counts and keeps the full before/
// after text for rendering. Uses sergi/go-diff's DiffMain for the line
// comparison — a distinct concern from the apply_diff handler's own
// unified-diff *application*, which walks the hunks directly.
func BuildDiff(path, before, after string) Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	d := Diff{Path: path, Before: before, After: after}
	for _, seg := range diffs {
		count := strings.Count(seg.Text, "\n")
		if !strings.HasSuffix(seg.Text, "\n") && seg.Text != "" {
			count++
		}
		switch seg.Type {
		case diffmatchpatch.DiffInsert:
			d.Added += count
		case diffmatchpatch.DiffDelete:
			d.Removed += count
		}
	}
	return d
}

// Render produces the colorized, human-readable diff text the approval
// prompt shows. full forces every hunk to be shown regardless of size
// (the 'd' / show-full-diff option); otherwise long diffs are truncated
// with a notice.
func (d Diff) Render(full bool) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(d.Before, d.After)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	total := 0
	for _, seg := range diffs {
		for _, line := range strings.SplitAfter(seg.Text, "\n") {
			if line != "" {
				total++
			}
		}
	}

	var b2 strings.Builder
	shown := 0
	const maxLinesWhenNotFull = 40
	for _, seg := range diffs {
		for _, line := range strings.SplitAfter(seg.Text, "\n") {
			if line == "" {
				continue
			}
			if !full && shown >= maxLinesWhenNotFull {
				b2.WriteString(summaryStyle.Render(fmt.Sprintf("... (%d more lines, press d to see all)\n", total-shown)))
				goto summary
			}
			switch seg.Type {
			case diffmatchpatch.DiffInsert:
				b2.WriteString(addedStyle.Render("+" + line))
			case diffmatchpatch.DiffDelete:
				b2.WriteString(removedStyle.Render("-" + line))
			default:
				b2.WriteString(" " + line)
			}
			shown++
		}
	}
summary:
	b2.WriteString(summaryStyle.Render(fmt.Sprintf("\n%s: +%d -%d\n", d.Path, d.Added, d.Removed)))
	return b2.String()
}

// approve shows the diff and reads the user's y/n/d/q decision for a
// given tool call. path is looked up from params if the tool takes one;
// tools without a meaningful diff (e.g. run_command) get a textual
// summary instead of a file diff.
func (m *Mediator) approve(ctx context.Context, def bailucore.ToolDefinition, params map[string]any) (Decision, error) {
	if m.prompter == nil {
		// No interactive prompter wired (e.g. headless test run): default
		// to auto-approving, matching auto-apply semantics, but log it
		// loudly since this should not happen in a real TTY session.
		m.logger.Warn("review mode requested approval but no prompter is configured; auto-approving", "tool", def.Name)
		return DecisionYes, nil
	}

	diff := diffForCall(m.ctx.WorkspaceRoot, def, params)

	if m.suspend != nil {
		m.suspend.Suspend()
		defer m.suspend.Resume()
	}

	for {
		decision, err := m.prompter.Prompt(ctx, def.Name, diff)
		if err != nil {
			return "", err
		}
		if decision == DecisionDiff {
			fmt.Fprint(os.Stderr, diff.Render(true))
			continue
		}
		return decision, nil
	}
}

func diffForCall(workspaceRoot string, def bailucore.ToolDefinition, params map[string]any) Diff {
	path, _ := stringParam(params, "path")
	if path == "" {
		// No file to diff: summarize the call's parameters instead.
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var summary strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&summary, "%s: %v\n", k, params[k])
		}
		return BuildDiff(def.Name, "", summary.String())
	}
	content, _ := stringParam(params, "content")
	before := ""
	if path != "" {
		// Same workspace resolution as the handlers and the backup
		// ledger: an escaping path previews as a new file, it is never
		// read through raw.
		if abs, err := toolsurface.ResolvePath(workspaceRoot, path); err == nil {
			if data, rerr := os.ReadFile(abs); rerr == nil {
				before = string(data)
			}
		}
	}
	after := content
	if after == "" {
		if diffText, ok := stringParam(params, "diff"); ok {
			// Show the reviewer the actual proposed file content, not
			// the raw hunk text. A diff that fails to apply previews as
			// no change; the handler will report the real error.
			if patched, _, _, err := tool_applydiff.ApplyUnified(before, diffText); err == nil {
				after = patched
			} else {
				after = before
			}
		}
	}
	return BuildDiff(path, before, after)
}

// TTYPrompter is the default interactive Prompter, reading y/n/d/q from
// a controlling terminal and rendering the diff to stderr first.
type TTYPrompter struct {
	Out io.Writer
	In  *bufio.Reader
}

// NewTTYPrompter wires stdin/stderr as the approval channel.
func NewTTYPrompter() *TTYPrompter {
	return &TTYPrompter{Out: os.Stderr, In: bufio.NewReader(os.Stdin)}
}

func (p *TTYPrompter) Prompt(ctx context.Context, toolName string, diff Diff) (Decision, error) {
	fmt.Fprintf(p.Out, "\nAbout to run %s:\n%s\n", toolName, diff.Render(false))
	fmt.Fprint(p.Out, "Apply? [y]es / [n]o / [d]iff / [q]uit: ")

	line, err := p.In.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read approval: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return DecisionYes, nil
	case "n", "no", "":
		return DecisionNo, nil
	case "d", "diff":
		return DecisionDiff, nil
	case "q", "quit":
		return DecisionQuit, nil
	default:
		fmt.Fprintln(p.Out, "please answer y, n, d, or q")
		return p.Prompt(ctx, toolName, diff)
	}
}
