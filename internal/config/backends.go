package config

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm/backends"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/anthropic"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/gemini"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/groq"
)

// Backends is the inference selection resolved at startup plus whatever
// must be released on shutdown.
type Backends struct {
	Selection llm.Selection
	closers   []func() error
}

// Close releases backend clients.
func (b *Backends) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ResolveBackends builds a client for every credentialed provider, in the
// order groq, gemini, anthropic, bedrock, and selects among them per
// llm.provider. It returns llm.ErrNoBackend when nothing is configured, so
// callers can abort before any audit starts.
func ResolveBackends(ctx context.Context, cfg *Config) (*Backends, error) {
	out := &Backends{}
	var candidates []llm.Candidate

	if cfg.Groq.Key != "" {
		client := groq.NewClient(cfg.Groq.Key, groq.WithBaseURL(cfg.Groq.BaseURL))
		candidates = append(candidates, llm.Candidate{Backend: backends.NewGroq(client, cfg.Groq.Model), Configured: true})
	}

	if cfg.Gemini.Key != "" {
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key)
		if err != nil {
			return nil, eris.Wrap(err, "config: gemini backend")
		}
		out.closers = append(out.closers, client.Close)
		candidates = append(candidates, llm.Candidate{Backend: backends.NewGemini(client, cfg.Gemini.Model), Configured: true})
	}

	if cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key)
		candidates = append(candidates, llm.Candidate{Backend: backends.NewAnthropic(client, cfg.Anthropic.Model), Configured: true})
	}

	if cfg.Bedrock.Region != "" {
		client, err := anthropic.NewBedrockClient(ctx, cfg.Bedrock.Region)
		if err != nil {
			_ = out.Close()
			return nil, eris.Wrap(err, "config: bedrock backend")
		}
		candidates = append(candidates, llm.Candidate{Backend: backends.NewBedrock(client, cfg.Bedrock.Model), Configured: true})
	}

	sel, err := llm.Select(cfg.LLM.Provider, candidates)
	if err != nil {
		_ = out.Close()
		return nil, eris.Wrapf(err, "config: provider %q", cfg.LLM.Provider)
	}
	out.Selection = sel

	zap.L().Info("inference backends resolved",
		zap.String("default", sel.Default.Name()),
		zap.String("default_model", sel.Default.Model()),
		zap.String("tools", sel.For(true).Name()),
	)
	return out, nil
}

// InferOptions returns the llm options for the configured limits.
func (c *Config) InferOptions(pricer llm.Pricer) llm.Options {
	return llm.Options{
		MaxTokens:     c.LLM.MaxTokens,
		Temperature:   c.LLM.Temperature,
		MaxToolRounds: c.LLM.MaxToolRounds,
		Pricer:        pricer,
	}
}

// StageRetry returns the stage retry policy from retry.*.
func (c *Config) StageRetry() resilience.RetryConfig {
	return resilience.FromStageConfig(c.Retry.MaxAttempts, c.Retry.MinBackoffMs, c.Retry.MaxBackoffMs, c.Retry.Multiplier)
}

// Breakers returns a circuit breaker registry from circuit.*.
func (c *Config) Breakers() *resilience.Breakers {
	return resilience.NewBreakers(resilience.FromBreakerConfig(c.Circuit.FailureThreshold, c.Circuit.ResetTimeoutSecs))
}
