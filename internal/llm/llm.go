// Package llm is the inference adapter: it sends a stage instruction and a
// data payload to a model backend and resolves tool calls in a bounded loop.
package llm

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

var (
	// ErrNoBackend means no inference backend has a credential configured.
	ErrNoBackend = eris.New("llm: no inference backend configured")

	// ErrToolLoopExceeded means the model kept requesting tools after the
	// round limit was reached.
	ErrToolLoopExceeded = eris.New("llm: tool loop exceeded round limit")
)

// Role is the author of a conversation message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversational turn. Assistant turns may carry ToolCalls;
// user turns may carry ToolResults answering them.
type Message struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult answers one ToolCall.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// ToolSpec describes a tool to the model. Parameters is a JSON Schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is a single backend call.
type Request struct {
	Stage       string
	System      string
	Messages    []Message
	Tools       []ToolSpec
	MaxTokens   int
	Temperature float64

	// ToolsDisabled keeps Tools declared but forbids new calls. Set on the
	// final turn of the tool loop.
	ToolsDisabled bool
}

// Reply is a backend's answer to a Request.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
	Usage     model.TokenUsage
}

// Backend is one inference provider.
type Backend interface {
	// Name identifies the provider ("groq", "gemini", "anthropic", "bedrock").
	Name() string
	// Model is the model identifier sent with each request.
	Model() string
	Complete(ctx context.Context, req Request) (*Reply, error)
}
