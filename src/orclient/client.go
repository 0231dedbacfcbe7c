// Package orclient is the LLM transport adapter: an OpenRouter/OpenAI-
// compatible chat-completions client exposing the streaming and
// non-streaming calls the orchestrator consumes. Native function-call
// responses are synthesized into <action> text before the orchestrator
// sees them.
package orclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/orchestrator"
)

var _ orchestrator.Transport = (*Client)(nil)

// Client talks to one chat-completions endpoint with one model.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a Client from config, filling defaults.
func NewClient(config Config) *Client {
	config = config.withDefaults()
	return &Client{
		config: config,
		// No client-level timeout: streamed responses legitimately stay
		// open past any fixed deadline, and non-streaming calls carry
		// their own context deadlines.
		httpClient: &http.Client{},
		logger:     config.Logger.With("component", "orclient"),
	}
}

// CurrentModelName returns the configured model identifier.
func (c *Client) CurrentModelName() string { return c.config.Model }

// ChatStream opens a streamed completion for the conversation and
// returns a reader yielding assistant-text chunks. Tool calls arriving
// on the native function-calling channel are buffered and delivered as
// one final <action> chunk before EOF.
func (c *Client) ChatStream(ctx context.Context, messages []bailucore.Message) (orchestrator.StreamReader, error) {
	req := chatRequest{
		Model:    c.config.Model,
		Messages: toWire(messages),
		Stream:   true,
	}

	resp, err := c.do(ctx, "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	return newSSEStream(resp.Body, c.logger), nil
}

// Chat is the non-streaming variant used for auxiliary calls.
func (c *Client) Chat(ctx context.Context, messages []bailucore.Message) (string, error) {
	req := chatRequest{
		Model:    c.config.Model,
		Messages: toWire(messages),
	}

	resp, err := c.do(ctx, "/chat/completions", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", bailucore.WrapError(bailucore.CodeTransport, "failed to decode response", err)
	}
	if len(decoded.Choices) == 0 {
		return "", bailucore.NewError(bailucore.CodeTransport, "response contained no choices")
	}

	msg := decoded.Choices[0].Message
	text := msg.Content
	if block := synthesizeActionBlock(msg.ToolCalls); block != "" {
		if text != "" {
			text += "\n"
		}
		text += block
	}
	return text, nil
}

// ListModels queries the endpoint's model catalog.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/models", nil)
	if err != nil {
		return nil, bailucore.WrapError(bailucore.CodeTransport, "failed to build request", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.doWithRetry(httpReq, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, bailucore.WrapError(bailucore.CodeTransport, "failed to decode model list", err)
	}

	models := make([]string, 0, len(decoded.Data))
	for _, m := range decoded.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// do posts a JSON body and returns a successful response, retrying
// transient failures with exponential backoff.
func (c *Client) do(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, bailucore.WrapError(bailucore.CodeTransport, "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, bailucore.WrapError(bailucore.CodeTransport, "failed to build request", err)
	}
	c.setHeaders(httpReq)

	return c.doWithRetry(httpReq, body)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

// doWithRetry performs the request, retrying only transient errors:
// network failures, 429, and 5xx. Every retry doubles the delay from
// RetryBaseDelay with ±25% jitter. Other 4xx responses are decoded into
// an APIError and returned immediately.
func (c *Client) doWithRetry(req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(c.config.RetryBaseDelay, attempt)
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-req.Context().Done():
				return nil, bailucore.WrapError(bailucore.CodeTransport, "request cancelled", req.Context().Err())
			case <-time.After(delay):
			}
		}

		attemptReq := req.Clone(req.Context())
		if body != nil {
			attemptReq.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := c.httpClient.Do(attemptReq)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 400 {
			return resp, nil
		}

		apiErr := c.decodeError(resp)
		resp.Body.Close()
		if !apiErr.Retryable() {
			return nil, bailucore.WrapError(bailucore.CodeTransport, "request rejected", apiErr)
		}
		lastErr = apiErr
	}

	return nil, bailucore.WrapError(bailucore.CodeTransport,
		fmt.Sprintf("request failed after %d retries", c.config.RetryCount), lastErr)
}

// backoffDelay is base doubled per attempt with ±25% jitter.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	jitter := 0.75 + rand.Float64()*0.5
	return time.Duration(float64(d) * jitter)
}

func (c *Client) decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var decoded errorResponse
	if jerr := json.Unmarshal(data, &decoded); jerr != nil || decoded.Error.Message == "" {
		apiErr.Message = string(data)
		return apiErr
	}
	apiErr.Type = decoded.Error.Type
	apiErr.Message = decoded.Error.Message
	apiErr.Code = decoded.Error.Code
	return apiErr
}

// toWire maps conversation messages onto the wire shape. The tool role
// is folded into user, matching how tool feedback is already phrased.
func toWire(messages []bailucore.Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		role := string(m.Role)
		if m.Role == bailucore.RoleTool {
			role = "user"
		}
		out = append(out, wireMessage{Role: role, Content: m.Content})
	}
	return out
}

// IsTransportError reports whether err came out of this client (after
// retries were exhausted or a permanent rejection).
func IsTransportError(err error) bool {
	return bailucore.HasCode(err, bailucore.CodeTransport) || func() bool {
		var apiErr *APIError
		return errors.As(err, &apiErr)
	}()
}
