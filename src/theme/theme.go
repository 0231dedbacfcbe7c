// Package theme centralizes terminal styling: the lipgloss styles the
// REPL and approval prompt share, plus syntax highlighting for code
// echoed to an interactive terminal. Styling never changes tool output
// content, only presentation.
package theme

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Styles the interactive surfaces share.
var (
	Prefix    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).Bold(true)
	Muted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	ErrorText = lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f"))
	Success   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c853"))
	Added     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c853"))
	Removed   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f"))
)

// Highlight renders source text with ANSI syntax colors for the given
// language; on any highlighting failure the input comes back verbatim.
func Highlight(source, language string) string {
	if language == "" {
		return source
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, language, "terminal256", "monokai"); err != nil {
		return source
	}
	return buf.String()
}

// VisibleWidth measures a styled string as the terminal will render it,
// ANSI escapes excluded.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}

// TruncateLine cuts a possibly-styled line to the given display width,
// keeping escapes balanced.
func TruncateLine(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Banner renders a one-line section banner; the REPL prints one ahead of
// an approval prompt.
func Banner(text string) string {
	line := strings.Repeat("─", 8)
	return Muted.Render(line + " " + text + " " + line)
}
