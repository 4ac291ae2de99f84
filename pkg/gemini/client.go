// Package gemini wraps the Google Gemini generative API with function
// calling support.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
)

// Client defines the Gemini operations used by the auditor.
type Client interface {
	GenerateContent(ctx context.Context, req Request) (*Response, error)
	Close() error
}

// Request is one generation call over a multi-turn conversation. The last
// entry of Contents is sent as the new message; the rest become history.
type Request struct {
	Model       string
	System      string
	Contents    []Content
	Tools       []FunctionDecl
	MaxTokens   int32
	Temperature *float32

	// DisableToolUse keeps Tools declared but forbids new function calls.
	DisableToolUse bool
}

// Content is one turn. Role is "user" or "model".
type Content struct {
	Role      string
	Text      string
	Calls     []FunctionCall
	Responses []FunctionResponse
}

// FunctionCall is a call requested by the model.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// FunctionResponse answers a FunctionCall by name.
type FunctionResponse struct {
	Name     string
	Response map[string]any
}

// FunctionDecl declares a callable function. Parameters is a JSON Schema
// object.
type FunctionDecl struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Response is the first candidate of a generation.
type Response struct {
	Text         string
	Calls        []FunctionCall
	FinishReason string
	Usage        Usage
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int32
	CandidatesTokens int32
}

// Roles accepted in Content.Role.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

type sdkClient struct {
	client *genai.Client
}

// NewClient creates a Gemini client. Extra options (endpoint, HTTP client)
// are passed to the SDK.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	c, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: c}, nil
}

func (c *sdkClient) Close() error {
	return c.client.Close()
}

func (c *sdkClient) GenerateContent(ctx context.Context, req Request) (*Response, error) {
	if len(req.Contents) == 0 {
		return nil, eris.New("gemini: request has no contents")
	}

	model := c.client.GenerativeModel(req.Model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if len(req.Tools) > 0 {
		model.Tools = toSDKTools(req.Tools)
		if req.DisableToolUse {
			model.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingNone},
			}
		}
	}

	contents := toSDKContents(req.Contents)
	last := contents[len(contents)-1]

	cs := model.StartChat()
	cs.History = contents[:len(contents)-1]
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}
	return fromSDKResponse(resp), nil
}

func toSDKContents(in []Content) []*genai.Content {
	out := make([]*genai.Content, 0, len(in))
	for _, c := range in {
		var parts []genai.Part
		for _, r := range c.Responses {
			parts = append(parts, genai.FunctionResponse{Name: r.Name, Response: r.Response})
		}
		if c.Text != "" {
			parts = append(parts, genai.Text(c.Text))
		}
		for _, fc := range c.Calls {
			parts = append(parts, genai.FunctionCall{Name: fc.Name, Args: fc.Args})
		}
		if len(parts) == 0 {
			continue
		}
		role := c.Role
		if role == "" {
			role = RoleUser
		}
		out = append(out, &genai.Content{Role: role, Parts: parts})
	}
	return out
}

func toSDKTools(decls []FunctionDecl) []*genai.Tool {
	fns := make([]*genai.FunctionDeclaration, len(decls))
	for i, d := range decls {
		fns[i] = &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  ToSchema(d.Parameters),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: fns}}
}

// ToSchema converts a JSON Schema map into the SDK schema type. Unknown or
// missing types default to string; nil input yields nil.
func ToSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	typ, _ := m["type"].(string)
	switch strings.ToLower(typ) {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = ToSchema(pm)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = ToSchema(items)
	}
	switch req := m["required"].(type) {
	case []string:
		s.Required = req
	case []any:
		for _, r := range req {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	switch enum := m["enum"].(type) {
	case []string:
		s.Enum = enum
	case []any:
		for _, e := range enum {
			if v, ok := e.(string); ok {
				s.Enum = append(s.Enum, v)
			}
		}
	}
	return s
}

func fromSDKResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CandidatesTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}
	if len(resp.Candidates) == 0 {
		return out
	}
	cand := resp.Candidates[0]
	out.FinishReason = cand.FinishReason.String()
	if cand.Content == nil {
		return out
	}

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		switch v := p.(type) {
		case genai.Text:
			text.WriteString(string(v))
		case genai.FunctionCall:
			out.Calls = append(out.Calls, FunctionCall{Name: v.Name, Args: v.Args})
		case *genai.FunctionCall:
			out.Calls = append(out.Calls, FunctionCall{Name: v.Name, Args: v.Args})
		}
	}
	out.Text = text.String()
	return out
}
