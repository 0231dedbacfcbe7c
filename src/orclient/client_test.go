package orclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheYu0410/Bailu-Cli/src/actionparser"
	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "test/model",
		RetryBaseDelay: time.Millisecond,
	})
}

func TestChatReturnsContent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`)
	})

	text, err := client.Chat(context.Background(), []bailucore.Message{
		{Role: bailucore.RoleSystem, Content: "sys"},
		{Role: bailucore.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestChatSynthesizesActionBlock(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[
			{"id":"1","type":"function","function":{"name":"read_file","arguments":"{\"path\":\"README.md\"}"}}
		]}}]}`)
	})

	text, err := client.Chat(context.Background(), []bailucore.Message{{Role: bailucore.RoleUser, Content: "read it"}})
	require.NoError(t, err)

	_, calls := actionparser.Parse(text)
	require.Len(t, calls, 1)
	assert.Equal(t, "read_file", calls[0].Tool)
	assert.Equal(t, "README.md", calls[0].Params["path"])
}

func TestChatStreamYieldsChunks(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	reader, err := client.ChatStream(context.Background(), []bailucore.Message{{Role: bailucore.RoleUser, Content: "hi"}})
	require.NoError(t, err)

	var full string
	for {
		chunk, rerr := reader.Next()
		full += chunk
		if rerr == io.EOF {
			break
		}
		require.NoError(t, rerr)
	}
	assert.Equal(t, "Hello", full)
}

func TestChatStreamSynthesizesToolCalls(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"tool_calls\":[{\"index\":0,\"function\":{\"name\":\"read_file\",\"arguments\":\"{\\\"pa\"}}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"tool_calls\":[{\"index\":0,\"function\":{\"arguments\":\"th\\\":\\\"a.txt\\\"}\"}}]}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	reader, err := client.ChatStream(context.Background(), []bailucore.Message{{Role: bailucore.RoleUser, Content: "go"}})
	require.NoError(t, err)

	var full string
	for {
		chunk, rerr := reader.Next()
		full += chunk
		if rerr == io.EOF {
			break
		}
		require.NoError(t, rerr)
	}

	_, calls := actionparser.Parse(full)
	require.Len(t, calls, 1)
	assert.Equal(t, "read_file", calls[0].Tool)
	assert.Equal(t, "a.txt", calls[0].Params["path"])
}

func TestRetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	})

	text, err := client.Chat(context.Background(), []bailucore.Message{{Role: bailucore.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	var attempts atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	})

	_, err := client.Chat(context.Background(), []bailucore.Message{{Role: bailucore.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.True(t, bailucore.HasCode(err, bailucore.CodeTransport))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestListModels(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":"alpha"},{"id":"beta"}]}`)
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, models)
}

func TestCurrentModelName(t *testing.T) {
	client := NewClient(Config{APIKey: "k", Model: "test/model"})
	assert.Equal(t, "test/model", client.CurrentModelName())
}
