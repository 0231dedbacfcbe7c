// Package actionparser extracts structured tool-call requests from an
// assistant message delivered as plain text with an embedded XML-like
// action block. It is the single source of truth for tool-call shape:
// any LLM transport surfacing native function-calling must synthesize
// this same textual form before the orchestrator sees the message.
package actionparser

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

var (
	actionRe = regexp.MustCompile(`(?s)<action>(.*?)</action>`)
	invokeRe = regexp.MustCompile(`(?s)<invoke\s+tool="([^"]*)"\s*>(.*?)</invoke>`)
	paramRe  = regexp.MustCompile(`(?s)<param\s+name="([^"]*)"\s*>(.*?)</param>`)
)

// Parse splits raw assistant text into the plaintext reply the user
// should see and the ordered list of tool calls to dispatch. Malformed
// XML (unclosed tags) yields zero tool calls and the entire input,
// whitespace-trimmed, as the plaintext reply; the parser never raises.
func Parse(raw string) (plaintext string, calls []bailucore.ToolCall) {
	actionMatches := actionRe.FindAllStringSubmatchIndex(raw, -1)
	if len(actionMatches) == 0 {
		return strings.TrimSpace(raw), nil
	}

	var b strings.Builder
	last := 0
	for _, m := range actionMatches {
		start, end := m[0], m[1]
		bodyStart, bodyEnd := m[2], m[3]
		b.WriteString(raw[last:start])
		last = end

		calls = append(calls, parseInvokes(raw[bodyStart:bodyEnd])...)
	}
	b.WriteString(raw[last:])

	return strings.TrimSpace(b.String()), calls
}

func parseInvokes(actionBody string) []bailucore.ToolCall {
	var calls []bailucore.ToolCall
	for _, im := range invokeRe.FindAllStringSubmatch(actionBody, -1) {
		tool := im[1]
		body := im[2]
		params := make(map[string]any)
		for _, pm := range paramRe.FindAllStringSubmatch(body, -1) {
			name := pm[1]
			params[name] = coerceValue(stripCDATA(pm[2]))
		}
		calls = append(calls, bailucore.ToolCall{Tool: tool, Params: params})
	}
	return calls
}

func stripCDATA(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "<![CDATA[") && strings.HasSuffix(trimmed, "]]>") {
		return trimmed[len("<![CDATA[") : len(trimmed)-len("]]>")]
	}
	return raw
}

// coerceValue applies the parser's value-coercion rules: a leading '['
// or '{' attempts structured-data parsing (falling back to string on
// failure); an exact "true"/"false" becomes a bool; a value that parses
// as a finite, non-empty number becomes a number; otherwise the
// trimmed string is kept as-is.
func coerceValue(raw string) any {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
		return trimmed
	}

	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	}

	if trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	}

	return trimmed
}
