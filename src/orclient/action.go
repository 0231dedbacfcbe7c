package orclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// synthesizeActionBlock renders native tool calls into the textual
// <action> form the parser understands, keeping the parser the single
// source of truth for tool-call shape regardless of which channel the
// endpoint used.
func synthesizeActionBlock(calls []wireToolCall) string {
	if len(calls) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<action>\n")
	for _, call := range calls {
		fmt.Fprintf(&b, "<invoke tool=%q>\n", call.Function.Name)

		args, err := decodeArguments(call.Function.Arguments)
		if err != nil {
			// An unparseable argument blob is passed through raw under a
			// single parameter so the handler's validation reports it
			// rather than the transport silently dropping the call.
			fmt.Fprintf(&b, "<param name=\"_raw\">%s</param>\n", call.Function.Arguments)
			b.WriteString("</invoke>\n")
			continue
		}

		names := make([]string, 0, len(args))
		for name := range args {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(&b, "<param name=%q>%s</param>\n", name, renderParamValue(args[name]))
		}
		b.WriteString("</invoke>\n")
	}
	b.WriteString("</action>")
	return b.String()
}

// renderParamValue prints strings verbatim (CDATA-wrapped when they
// contain "</param>") and everything else as JSON, so the parser's
// coercion rules reconstruct numbers, booleans, arrays and objects. A
// string that itself reads as a number, boolean or JSON comes back
// coerced to that type.
func renderParamValue(v any) string {
	switch x := v.(type) {
	case string:
		if strings.Contains(x, "</param>") {
			return "<![CDATA[" + x + "]]>"
		}
		return x
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(data)
	}
}
