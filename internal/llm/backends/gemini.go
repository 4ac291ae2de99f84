package backends

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/gemini"
)

// Gemini serves Google Gemini models.
type Gemini struct {
	model  string
	client gemini.Client
}

// NewGemini returns a Gemini backend.
func NewGemini(client gemini.Client, modelName string) *Gemini {
	return &Gemini{model: modelName, client: client}
}

// Name implements llm.Backend.
func (g *Gemini) Name() string { return "gemini" }

// Model implements llm.Backend.
func (g *Gemini) Model() string { return g.model }

// Complete implements llm.Backend.
func (g *Gemini) Complete(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	temp := float32(req.Temperature)
	gr := gemini.Request{
		Model:          g.model,
		System:         req.System,
		MaxTokens:      int32(req.MaxTokens),
		Temperature:    &temp,
		DisableToolUse: req.ToolsDisabled,
	}
	for _, m := range req.Messages {
		c := gemini.Content{Role: gemini.RoleUser, Text: m.Text}
		if m.Role == llm.RoleAssistant {
			c.Role = gemini.RoleModel
		}
		for _, tc := range m.ToolCalls {
			c.Calls = append(c.Calls, gemini.FunctionCall{Name: tc.Name, Args: argsMap(tc.Arguments)})
		}
		for _, tr := range m.ToolResults {
			c.Responses = append(c.Responses, gemini.FunctionResponse{Name: tr.Name, Response: responseMap(tr.Content)})
		}
		gr.Contents = append(gr.Contents, c)
	}
	for _, t := range req.Tools {
		gr.Tools = append(gr.Tools, gemini.FunctionDecl{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}

	resp, err := g.client.GenerateContent(ctx, gr)
	if err != nil {
		return nil, err
	}

	reply := &llm.Reply{
		Text: resp.Text,
		Usage: model.TokenUsage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CandidatesTokens),
		},
	}
	// Gemini calls carry no IDs; results are matched back by name.
	for i, fc := range resp.Calls {
		args, err := json.Marshal(fc.Args)
		if err != nil {
			args = []byte(`{}`)
		}
		reply.ToolCalls = append(reply.ToolCalls, llm.ToolCall{
			ID:        fmt.Sprintf("%s-%d", fc.Name, i),
			Name:      fc.Name,
			Arguments: args,
		})
	}
	return reply, nil
}

func argsMap(raw json.RawMessage) map[string]any {
	out := map[string]any{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		zap.L().Debug("gemini: tool arguments are not an object", zap.Error(err))
	}
	return out
}

// responseMap wraps tool output as the object Gemini expects. JSON objects
// pass through; anything else is placed under "result".
func responseMap(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj
	}
	var anyVal any
	if err := json.Unmarshal([]byte(content), &anyVal); err == nil {
		return map[string]any{"result": anyVal}
	}
	return map[string]any{"result": content}
}
