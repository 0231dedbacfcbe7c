package tool_webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/schema"
	"github.com/CheYu0410/Bailu-Cli/src/tools/toolsutil"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constant
const Name = "web_fetch"

const webFetchPrompt = `Fetches a URL and returns its content as text, markdown, or raw html.

Usage:
- Only http and https URLs are accepted; responses over 5 MB are truncated.
- markdown converts the whole HTML page (no boilerplate removal); text drops all markup, scripts and styles.
- The fetch follows up to 10 redirects and times out after 30 seconds by default.`

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 5 << 20

type webFetchInput struct {
	URL     string  `json:"url"`
	Format  string  `json:"format,omitempty"`
	Timeout float64 `json:"timeout,omitempty"`
}

// Definition describes web_fetch: an outward-facing tool, subject to
// approval like any other side-effecting call.
func Definition() bailucore.ToolDefinition {
	params := []bailucore.ToolParameter{
		{Name: "url", Type: bailucore.ParamString, Description: "The http(s) URL to fetch", Required: true},
		{Name: "format", Type: bailucore.ParamString, Description: `Output format: "markdown" (default), "text", or "html"`, Default: "markdown"},
		{Name: "timeout", Type: bailucore.ParamNumber, Description: "Request timeout in seconds (default 30, max 120)"},
	}
	def := bailucore.ToolDefinition{
		Name:        Name,
		Description: webFetchPrompt,
		Parameters:  params,
		Safe:        false,
	}
	return def.WithSchema(schema.FromParameters(params))
}

// Handler returns the web_fetch executor.
func Handler() toolsurface.Handler {
	return func(ctx context.Context, params map[string]any) bailucore.ToolResult {
		var input webFetchInput
		if err := toolsutil.DecodeParams(params, &input); err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, "web_fetch parameters", err))
		}

		format := strings.ToLower(input.Format)
		if format == "" {
			format = "markdown"
		}
		if format != "text" && format != "markdown" && format != "html" {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments,
				"format must be one of: text, markdown, html"))
		}
		if !strings.HasPrefix(input.URL, "http://") && !strings.HasPrefix(input.URL, "https://") {
			return bailucore.ToolResultFromError(bailucore.NewError(bailucore.CodeInvalidArguments,
				"url must start with http:// or https://"))
		}

		timeout := 30 * time.Second
		if input.Timeout > 0 {
			if input.Timeout > 120 {
				input.Timeout = 120
			}
			timeout = time.Duration(input.Timeout * float64(time.Second))
		}

		client := &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
		if err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeInvalidArguments, input.URL, err))
		}
		req.Header.Set("User-Agent", "bailu/1.0")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil || strings.Contains(err.Error(), "deadline exceeded") {
				return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeTimeout, input.URL, err))
			}
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeTransport, input.URL, err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return bailucore.ToolResultFromError(bailucore.WrapError(bailucore.CodeTransport, input.URL, err))
		}

		toolsutil.GetLogger().Info("fetched url", "url", input.URL, "status", resp.StatusCode, "bytes", len(body))

		content := string(body)
		contentType := resp.Header.Get("Content-Type")
		isHTML := strings.Contains(contentType, "text/html")

		switch format {
		case "markdown":
			if isHTML {
				if converted, cerr := htmlToMarkdown(content); cerr == nil {
					content = converted
				}
			}
		case "text":
			if isHTML {
				if extracted, terr := htmlToText(content); terr == nil {
					content = extracted
				}
			}
		}

		return bailucore.ToolResult{
			Success: true,
			Output:  content,
			Metadata: map[string]any{
				"statusCode":  resp.StatusCode,
				"contentType": contentType,
				"finalURL":    resp.Request.URL.String(),
			},
		}
	}
}

// htmlToText parses the page and drops markup, scripts, and styles.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	var cleaned []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}

// htmlToMarkdown converts the page body to markdown.
func htmlToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}
	markdown = strings.TrimSpace(markdown)
	for strings.Contains(markdown, "\n\n\n") {
		markdown = strings.ReplaceAll(markdown, "\n\n\n", "\n\n")
	}
	return markdown, nil
}
