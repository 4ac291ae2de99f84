package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

// ReasonEmptyReport is the data error recorded when the advisor answers
// with blank text.
const ReasonEmptyReport = "Empty report"

// Unit is one LLM-backed analysis step. It binds an instruction, the tools
// the model may call and a validator for the model's text.
type Unit[T any] struct {
	Name        string
	Instruction string
	OutputKey   string
	Tools       *llm.Toolset
	Validate    func(text string) model.Record[T]

	inferer *llm.Inferer
}

// Outcome is what one Run produced: a Validated or Failed record plus the
// inference accounting.
type Outcome[T any] struct {
	Record    model.Record[T]
	Usage     model.TokenUsage
	ToolCalls int
	Backend   string
	Model     string
}

// Run serializes input into a payload, infers and validates the answer.
// Transport and backend faults are returned as errors so the caller can
// retry them; contract failures come back as a Failed record.
func (u *Unit[T]) Run(ctx context.Context, input map[string]any) (Outcome[T], error) {
	payload, err := BuildPayload(input)
	if err != nil {
		return Outcome[T]{}, err
	}

	res, err := u.inferer.Infer(ctx, u.Name, u.Instruction, payload, u.Tools)
	if err != nil {
		return Outcome[T]{}, err
	}

	return Outcome[T]{
		Record:    u.Validate(res.Text),
		Usage:     res.Usage,
		ToolCalls: res.ToolCalls,
		Backend:   res.Backend,
		Model:     res.Model,
	}, nil
}

// BuildPayload renders the user message sent with every stage instruction.
func BuildPayload(input map[string]any) (string, error) {
	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "pipeline: marshal input")
	}
	return "Input Data: " + string(data) + "\n\nPlease process this input according to your instructions.", nil
}

// textValidator accepts any non-blank text as the report.
func textValidator(text string) model.Record[string] {
	if strings.TrimSpace(text) == "" {
		return model.Failed[string](ReasonEmptyReport, text)
	}
	return model.Validated(text)
}
