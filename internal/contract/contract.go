// Package contract validates model output against the structured output
// contracts of the audit stages.
package contract

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

// Failure reasons recorded on Failed records.
const (
	ReasonParse      = "Failed to parse JSON"
	ReasonValidation = "Schema validation failed"
)

// Contract is a strict schema for one stage output type.
type Contract[T any] struct {
	name      string
	schema    *gojsonschema.Schema
	normalize func(*T)
}

// New compiles schema and returns a contract. normalize, if non-nil, fills
// documented defaults for omitted optional fields after decoding.
func New[T any](name string, schema map[string]any, normalize func(*T)) (*Contract[T], error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, eris.Wrapf(err, "contract: compile %s schema", name)
	}
	return &Contract[T]{name: name, schema: compiled, normalize: normalize}, nil
}

// MustNew is New for package-level contracts with static schemas.
func MustNew[T any](name string, schema map[string]any, normalize func(*T)) *Contract[T] {
	c, err := New(name, schema, normalize)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the contract name.
func (c *Contract[T]) Name() string { return c.name }

// Validate strips code fences from text, parses it and checks it against the
// schema. Any failure yields a Failed record that keeps text as raw output.
func (c *Contract[T]) Validate(text string) model.Record[T] {
	cleaned := StripFences(text)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		zap.L().Warn("contract: parse failed",
			zap.String("contract", c.name),
			zap.Error(err),
		)
		return model.Failed[T](ReasonParse, text)
	}

	result, err := c.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return model.Failed[T](ReasonParse, text)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		reason := ReasonValidation + ": " + strings.Join(msgs, "; ")
		zap.L().Warn("contract: validation failed",
			zap.String("contract", c.name),
			zap.Strings("errors", msgs),
		)
		return model.Failed[T](reason, text)
	}

	// Re-encode the generic document so integral floats decode into ints.
	canonical, err := json.Marshal(doc)
	if err != nil {
		return model.Failed[T](ReasonParse, text)
	}
	var v T
	if err := json.Unmarshal(canonical, &v); err != nil {
		return model.Failed[T](ReasonValidation+": "+err.Error(), text)
	}
	if c.normalize != nil {
		c.normalize(&v)
	}
	return model.Validated(v)
}

// StripFences removes markdown code-fence markers surrounding a JSON payload.
// A fence counts only when it opens the text or starts a line after prose
// (for example "Here is the JSON:\n```json"); the prose is dropped. Bare
// JSON is returned as is, even when its strings contain backticks.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	start := fenceStart(s)
	if start < 0 {
		return s
	}
	body := s[start+3:]
	// Drop the info string on the opening fence line (```json).
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		info := strings.TrimSpace(body[:nl])
		if info == "" || !strings.ContainsAny(info, "{[") {
			body = body[nl+1:]
		}
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// fenceStart returns the index of the opening fence, or -1.
func fenceStart(s string) int {
	if strings.HasPrefix(s, "```") {
		return 0
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return -1
	}
	if i := strings.Index(s, "\n```"); i >= 0 {
		return i + 1
	}
	return -1
}
