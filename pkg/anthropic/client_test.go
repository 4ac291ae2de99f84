package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) Client {
	return NewClient("test-key", option.WithBaseURL(baseURL), option.WithMaxRetries(0))
}

func writeMessage(w http.ResponseWriter, content []map[string]any, stop string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     content,
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage": map[string]any{
			"input_tokens":                12,
			"output_tokens":               7,
			"cache_creation_input_tokens": 3,
			"cache_read_input_tokens":     0,
		},
	})
}

func TestCreateMessage_Text(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		writeMessage(w, []map[string]any{{"type": "text", "text": "# Report"}}, "end_turn")
	}))
	defer ts.Close()

	temp := 0.2
	resp, err := newTestClient(ts.URL).CreateMessage(context.Background(), MessageRequest{
		Model:       "claude-haiku-4-5-20251001",
		MaxTokens:   1024,
		System:      BuildCachedSystemBlocks("You are an SEO advisor."),
		Messages:    []Message{{Role: "user", Content: "Input Data: {}"}},
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "# Report", resp.Text())
	assert.Empty(t, resp.ToolUses())
	assert.Equal(t, int64(12), resp.Usage.InputTokens)
	assert.Equal(t, int64(3), resp.Usage.CacheCreationInputTokens)

	system := body["system"].([]any)[0].(map[string]any)
	assert.Equal(t, "You are an SEO advisor.", system["text"])
	assert.NotNil(t, system["cache_control"])
	assert.Nil(t, body["tools"])
}

func TestCreateMessage_ToolRoundTrip(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		writeMessage(w, []map[string]any{
			{"type": "text", "text": "Scraping first."},
			{"type": "tool_use", "id": "toolu_1", "name": "scrape_page", "input": map[string]any{"url": "https://example.com"}},
		}, "tool_use")
	}))
	defer ts.Close()

	resp, err := newTestClient(ts.URL).CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 1024,
		Messages: []Message{
			{Role: "user", Content: "audit"},
			{Role: "assistant", ToolUses: []ToolUse{{ID: "toolu_0", Name: "scrape_page", Input: json.RawMessage(`{"url":"x"}`)}}},
			{Role: "user", ToolResults: []ToolResult{{ToolUseID: "toolu_0", Content: `{"error":"timeout"}`, IsError: true}}},
		},
		Tools: []Tool{{
			Name:        "scrape_page",
			Description: "Fetch a page",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"url": map[string]any{"type": "string"}},
				"required":   []string{"url"},
			},
		}},
	})
	require.NoError(t, err)

	uses := resp.ToolUses()
	require.Len(t, uses, 1)
	assert.Equal(t, "toolu_1", uses[0].ID)
	assert.Equal(t, "scrape_page", uses[0].Name)
	assert.JSONEq(t, `{"url":"https://example.com"}`, string(uses[0].Input))
	assert.Equal(t, "Scraping first.", resp.Text())
	assert.Equal(t, "tool_use", resp.StopReason)

	tools := body["tools"].([]any)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "scrape_page", tool["name"])
	schema := tool["input_schema"].(map[string]any)
	assert.Contains(t, schema["properties"], "url")

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 3)
	assistant := msgs[1].(map[string]any)
	assert.Equal(t, "assistant", assistant["role"])
	assert.Equal(t, "tool_use", assistant["content"].([]any)[0].(map[string]any)["type"])
	result := msgs[2].(map[string]any)["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_result", result["type"])
	assert.Equal(t, "toolu_0", result["tool_use_id"])
	assert.Equal(t, true, result["is_error"])
}

func TestCreateMessage_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 10,
		Messages:  []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: create message")
}

func TestToSDKMessages_SkipsEmptyTurns(t *testing.T) {
	out := toSDKMessages([]Message{{Role: "user"}, {Role: "user", Content: "x"}})
	assert.Len(t, out, 1)
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	assert.Nil(t, BuildCachedSystemBlocks(""))
	blocks := BuildCachedSystemBlocks("instr")
	require.Len(t, blocks, 1)
	assert.Equal(t, "5m", blocks[0].CacheControl.TTL)
}

func TestCreateMessage_DisableToolUse(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		writeMessage(w, []map[string]any{{"type": "text", "text": "done"}}, "end_turn")
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).CreateMessage(context.Background(), MessageRequest{
		Model:          "claude-haiku-4-5-20251001",
		MaxTokens:      64,
		Messages:       []Message{{Role: "user", Content: "finish"}},
		Tools:          []Tool{{Name: "search_web", InputSchema: map[string]any{"type": "object"}}},
		DisableToolUse: true,
	})
	require.NoError(t, err)
	choice := body["tool_choice"].(map[string]any)
	assert.Equal(t, "none", choice["type"])
}
