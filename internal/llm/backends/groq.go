package backends

import (
	"context"
	"encoding/json"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/groq"
)

// Groq serves models on the Groq OpenAI-compatible API.
type Groq struct {
	model  string
	client groq.Client
}

// NewGroq returns a Groq backend.
func NewGroq(client groq.Client, modelName string) *Groq {
	return &Groq{model: modelName, client: client}
}

// Name implements llm.Backend.
func (g *Groq) Name() string { return "groq" }

// Model implements llm.Backend.
func (g *Groq) Model() string { return g.model }

// Complete sends one chat completion. Tool results become tool-role messages.
func (g *Groq) Complete(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	cr := groq.ChatRequest{
		Model:          g.model,
		MaxTokens:      req.MaxTokens,
		Temperature:    float32(req.Temperature),
		DisableToolUse: req.ToolsDisabled,
	}
	if req.System != "" {
		cr.Messages = append(cr.Messages, groq.ChatMessage{Role: groq.RoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		// Tool results travel as one tool-role message per call.
		for _, tr := range m.ToolResults {
			cr.Messages = append(cr.Messages, groq.ChatMessage{Role: groq.RoleTool, ToolCallID: tr.CallID, Content: tr.Content})
		}
		if m.Text == "" && len(m.ToolCalls) == 0 {
			continue
		}
		msg := groq.ChatMessage{Role: groq.RoleUser, Content: m.Text}
		if m.Role == llm.RoleAssistant {
			msg.Role = groq.RoleAssistant
		}
		for _, tc := range m.ToolCalls {
			args := string(tc.Arguments)
			if args == "" {
				args = "{}"
			}
			msg.ToolCalls = append(msg.ToolCalls, groq.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: args})
		}
		cr.Messages = append(cr.Messages, msg)
	}
	for _, t := range req.Tools {
		cr.Tools = append(cr.Tools, groq.Tool{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}

	resp, err := g.client.ChatCompletion(ctx, cr)
	if err != nil {
		return nil, err
	}

	reply := &llm.Reply{
		Text: resp.Content,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	for _, tc := range resp.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, llm.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: json.RawMessage(tc.Arguments)})
	}
	return reply, nil
}
