// Package backends adapts provider clients to the llm.Backend interface.
package backends

import (
	"context"
	"encoding/json"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/anthropic"
)

// Anthropic serves Claude models, directly or through Bedrock.
type Anthropic struct {
	name   string
	model  string
	client anthropic.Client
}

// NewAnthropic returns a backend using the direct Anthropic API.
func NewAnthropic(client anthropic.Client, modelName string) *Anthropic {
	return &Anthropic{name: "anthropic", model: modelName, client: client}
}

// NewBedrock returns a backend using a Bedrock-transport client.
func NewBedrock(client anthropic.Client, modelName string) *Anthropic {
	return &Anthropic{name: "bedrock", model: modelName, client: client}
}

// Name implements llm.Backend.
func (a *Anthropic) Name() string { return a.name }

// Model implements llm.Backend.
func (a *Anthropic) Model() string { return a.model }

// Complete sends one Messages request, directly or through Bedrock.
func (a *Anthropic) Complete(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	temp := req.Temperature
	mr := anthropic.MessageRequest{
		Model:          a.model,
		MaxTokens:      int64(req.MaxTokens),
		System:         anthropic.BuildCachedSystemBlocks(req.System),
		Messages:       make([]anthropic.Message, 0, len(req.Messages)),
		Temperature:    &temp,
		DisableToolUse: req.ToolsDisabled,
	}
	for _, m := range req.Messages {
		msg := anthropic.Message{Role: string(m.Role), Content: m.Text}
		for _, tc := range m.ToolCalls {
			msg.ToolUses = append(msg.ToolUses, anthropic.ToolUse{ID: tc.ID, Name: tc.Name, Input: tc.Arguments})
		}
		for _, tr := range m.ToolResults {
			msg.ToolResults = append(msg.ToolResults, anthropic.ToolResult{ToolUseID: tr.CallID, Content: tr.Content, IsError: tr.IsError})
		}
		mr.Messages = append(mr.Messages, msg)
	}
	for _, t := range req.Tools {
		mr.Tools = append(mr.Tools, anthropic.Tool{Name: t.Name, Description: t.Description, InputSchema: t.Parameters})
	}

	resp, err := a.client.CreateMessage(ctx, mr)
	if err != nil {
		return nil, err
	}

	reply := &llm.Reply{
		Text: resp.Text(),
		Usage: model.TokenUsage{
			InputTokens:         int(resp.Usage.InputTokens),
			OutputTokens:        int(resp.Usage.OutputTokens),
			CacheCreationTokens: int(resp.Usage.CacheCreationInputTokens),
			CacheReadTokens:     int(resp.Usage.CacheReadInputTokens),
		},
	}
	for _, tu := range resp.ToolUses() {
		args := tu.Input
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}
		reply.ToolCalls = append(reply.ToolCalls, llm.ToolCall{ID: tu.ID, Name: tu.Name, Arguments: args})
	}
	return reply, nil
}
