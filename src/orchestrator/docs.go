package orchestrator

import (
	"fmt"
	"strings"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// Sentinel comments bracket the two system-message sections the
// orchestrator refreshes in place on every iteration: the tool catalog
// (derived from the registered surface) and the advisory memory section
// (files touched, last directory listing). Re-running the injection is
// idempotent: each pass replaces the text between its own sentinels
// rather than appending a fresh copy.
const (
	toolDocsBegin = "<!-- bailu:tool-docs:begin -->"
	toolDocsEnd   = "<!-- bailu:tool-docs:end -->"
	memoryBegin   = "<!-- bailu:memory:begin -->"
	memoryEnd     = "<!-- bailu:memory:end -->"
)

// Memory is the orchestrator's advisory, best-effort scratchpad. It is
// never authoritative — a stale or missing entry never blocks a tool
// call — and exists only to reduce redundant read_file/list_directory
// round-trips by reminding the model what it has already seen.
type Memory struct {
	TouchedPaths     []string
	LastListing      string
	LastListingPath  string
}

func (m *Memory) noteTouched(path string) {
	for _, p := range m.TouchedPaths {
		if p == path {
			return
		}
	}
	m.TouchedPaths = append(m.TouchedPaths, path)
}

func (m *Memory) render() string {
	if len(m.TouchedPaths) == 0 && m.LastListing == "" {
		return "(nothing recorded yet)"
	}
	var b strings.Builder
	if len(m.TouchedPaths) > 0 {
		fmt.Fprintf(&b, "Files touched this conversation: %s\n", strings.Join(m.TouchedPaths, ", "))
	}
	if m.LastListing != "" {
		fmt.Fprintf(&b, "Last directory listing (%s):\n%s\n", m.LastListingPath, m.LastListing)
	}
	return b.String()
}

// toolCatalog lists every registered tool with its parameters, in the
// same shape the model sees the rest of the action-block contract in.
func toolCatalog(tools []bailucore.ToolDefinition) string {
	if len(tools) == 0 {
		return "No tools available."
	}
	var parts []string
	for _, def := range tools {
		var b strings.Builder
		fmt.Fprintf(&b, "Tool: %s\n", def.Name)
		fmt.Fprintf(&b, "Description: %s\n", def.Description)
		safety := "requires approval"
		if def.Safe {
			safety = "safe, no approval required"
		}
		fmt.Fprintf(&b, "Safety: %s\n", safety)
		if len(def.Parameters) == 0 {
			b.WriteString("Parameters: none\n")
		} else {
			b.WriteString("Parameters:\n")
			for _, p := range def.Parameters {
				req := "optional"
				if p.Required {
					req = "required"
				}
				fmt.Fprintf(&b, "  %s: %s (%s) # %s\n", p.Name, p.Type, req, p.Description)
			}
		}
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// refreshSystemMessage rewrites the tool-docs and memory sections of the
// conversation's system message in place, appending them with their
// sentinels on first run and replacing the bracketed text thereafter.
func refreshSystemMessage(conv *bailucore.Conversation, tools []bailucore.ToolDefinition, mem *Memory) {
	base := stripSection(stripSection(conv.System().Content, toolDocsBegin, toolDocsEnd), memoryBegin, memoryEnd)
	base = strings.TrimRight(base, "\n")

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(toolDocsBegin)
	b.WriteString("\n")
	b.WriteString(toolCatalog(tools))
	b.WriteString("\n")
	b.WriteString(toolDocsEnd)
	b.WriteString("\n\n")
	b.WriteString(memoryBegin)
	b.WriteString("\n")
	b.WriteString(mem.render())
	b.WriteString("\n")
	b.WriteString(memoryEnd)

	conv.SetSystem(b.String())
}

// stripSection removes a previously-injected begin/end bracketed region,
// if present, so it can be rebuilt fresh. Absent sentinels are a no-op.
func stripSection(content, begin, end string) string {
	start := strings.Index(content, begin)
	if start == -1 {
		return content
	}
	stop := strings.Index(content[start:], end)
	if stop == -1 {
		return content
	}
	stop += start + len(end)
	return content[:start] + content[stop:]
}
