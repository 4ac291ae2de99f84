package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

// DefaultMaxToolRounds is the number of tool-resolution rounds per call.
const DefaultMaxToolRounds = 1

// Pricer converts token usage to USD.
type Pricer interface {
	Tokens(modelName string, u model.TokenUsage) float64
}

// Options tune an Inferer.
type Options struct {
	MaxTokens     int
	Temperature   float64
	MaxToolRounds int
	Pricer        Pricer
}

// Inferer runs instructions against one backend.
type Inferer struct {
	backend Backend
	opts    Options
}

// NewInferer creates an Inferer for backend. MaxToolRounds below 1 is
// raised to DefaultMaxToolRounds.
func NewInferer(backend Backend, opts Options) *Inferer {
	if opts.MaxToolRounds < 1 {
		opts.MaxToolRounds = DefaultMaxToolRounds
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &Inferer{backend: backend, opts: opts}
}

// Backend returns the bound backend.
func (in *Inferer) Backend() Backend { return in.backend }

// Result is the final answer of an Infer call.
type Result struct {
	Text      string
	Usage     model.TokenUsage
	ToolCalls int
	Backend   string
	Model     string
}

type loopState int

const (
	awaitingModel loopState = iota
	toolRequested
	final
)

// Infer sends instruction and payload to the backend. When tools is
// non-empty the model may request tool calls; each round executes the calls
// in order and feeds the results back. After MaxToolRounds rounds the final
// turn is sent with tools disabled, and a model that still asks for a tool
// yields ErrToolLoopExceeded.
func (in *Inferer) Infer(ctx context.Context, stage, instruction, payload string, tools *Toolset) (*Result, error) {
	log := zap.L().With(
		zap.String("stage", stage),
		zap.String("backend", in.backend.Name()),
		zap.String("model", in.backend.Model()),
	)

	res := &Result{Backend: in.backend.Name(), Model: in.backend.Model()}
	msgs := []Message{{Role: RoleUser, Text: payload}}
	specs := tools.Specs()

	var pending []ToolCall
	rounds := 0
	state := awaitingModel
	for state != final {
		switch state {
		case awaitingModel:
			req := Request{
				Stage:         stage,
				System:        instruction,
				Messages:      msgs,
				Tools:         specs,
				MaxTokens:     in.opts.MaxTokens,
				Temperature:   in.opts.Temperature,
				ToolsDisabled: len(specs) > 0 && rounds >= in.opts.MaxToolRounds,
			}

			start := time.Now()
			reply, err := in.backend.Complete(ctx, req)
			if err != nil {
				return nil, eris.Wrapf(err, "llm: %s complete", in.backend.Name())
			}
			in.account(log, res, reply.Usage, time.Since(start))

			if len(reply.ToolCalls) == 0 {
				res.Text = reply.Text
				state = final
				continue
			}
			if len(specs) == 0 || req.ToolsDisabled {
				return nil, eris.Wrapf(ErrToolLoopExceeded, "llm: %s requested %d tool call(s) after %d round(s)",
					stage, len(reply.ToolCalls), rounds)
			}
			msgs = append(msgs, Message{Role: RoleAssistant, Text: reply.Text, ToolCalls: reply.ToolCalls})
			pending = reply.ToolCalls
			state = toolRequested

		case toolRequested:
			results := make([]ToolResult, 0, len(pending))
			for _, call := range pending {
				r := tools.Execute(ctx, call)
				if r.IsError {
					log.Warn("llm: tool call failed", zap.String("tool", call.Name), zap.String("result", r.Content))
				} else {
					log.Debug("llm: tool call", zap.String("tool", call.Name), zap.Int("result_bytes", len(r.Content)))
				}
				results = append(results, r)
			}
			res.ToolCalls += len(pending)
			msgs = append(msgs, Message{Role: RoleUser, ToolResults: results})
			pending = nil
			rounds++
			state = awaitingModel
		}
	}
	return res, nil
}

func (in *Inferer) account(log *zap.Logger, res *Result, u model.TokenUsage, took time.Duration) {
	if in.opts.Pricer != nil {
		u.Cost = in.opts.Pricer.Tokens(in.backend.Model(), u)
	}
	res.Usage.Add(u)
	log.Info("cost attribution",
		zap.Int("input_tokens", u.InputTokens),
		zap.Int("output_tokens", u.OutputTokens),
		zap.Int("cache_write_tokens", u.CacheCreationTokens),
		zap.Int("cache_read_tokens", u.CacheReadTokens),
		zap.Float64("estimated_cost_usd", u.Cost),
		zap.Duration("latency", took),
	)
}
