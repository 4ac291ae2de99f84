package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolFunc executes a tool with raw JSON arguments and returns a value that
// is serialized back to the model.
type ToolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Tool binds a spec to its local implementation.
type Tool struct {
	Spec ToolSpec
	Fn   ToolFunc
}

// Toolset is an ordered, name-indexed set of tools.
type Toolset struct {
	tools []Tool
	index map[string]int
}

// NewToolset builds a Toolset. Later tools replace earlier ones with the
// same name.
func NewToolset(tools ...Tool) *Toolset {
	ts := &Toolset{index: make(map[string]int, len(tools))}
	for _, t := range tools {
		if i, ok := ts.index[t.Spec.Name]; ok {
			ts.tools[i] = t
			continue
		}
		ts.index[t.Spec.Name] = len(ts.tools)
		ts.tools = append(ts.tools, t)
	}
	return ts
}

// Len returns the number of tools. A nil Toolset is empty.
func (ts *Toolset) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.tools)
}

// Specs returns the tool specs in registration order.
func (ts *Toolset) Specs() []ToolSpec {
	if ts.Len() == 0 {
		return nil
	}
	out := make([]ToolSpec, len(ts.tools))
	for i, t := range ts.tools {
		out[i] = t.Spec
	}
	return out
}

// Execute runs the named tool. Unknown tools and tool failures are returned
// as error results for the model rather than as Go errors.
func (ts *Toolset) Execute(ctx context.Context, call ToolCall) ToolResult {
	res := ToolResult{CallID: call.ID, Name: call.Name}

	i, ok := -1, false
	if ts != nil {
		i, ok = ts.index[call.Name]
	}
	if !ok {
		res.Content = errorJSON(fmt.Sprintf("unknown tool: %s", call.Name))
		res.IsError = true
		return res
	}

	out, err := ts.tools[i].Fn(ctx, call.Arguments)
	if err != nil {
		res.Content = errorJSON(err.Error())
		res.IsError = true
		return res
	}

	if s, isString := out.(string); isString {
		res.Content = s
		return res
	}
	raw, err := json.Marshal(out)
	if err != nil {
		res.Content = errorJSON("marshal tool result: " + err.Error())
		res.IsError = true
		return res
	}
	res.Content = string(raw)
	return res
}

func errorJSON(msg string) string {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	return string(raw)
}
