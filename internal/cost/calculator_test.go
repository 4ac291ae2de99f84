package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

func TestTokens(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(Rates{})

	tests := []struct {
		name  string
		model string
		usage model.TokenUsage
		want  float64
	}{
		{
			name:  "haiku simple",
			model: "claude-haiku-4-5-20251001",
			usage: model.TokenUsage{InputTokens: 1_000_000, OutputTokens: 100_000},
			want:  1.00 + 0.50,
		},
		{
			name:  "haiku with cache",
			model: "claude-haiku-4-5-20251001",
			usage: model.TokenUsage{CacheCreationTokens: 1_000_000, CacheReadTokens: 1_000_000},
			want:  1.25 + 0.10,
		},
		{
			name:  "groq llama",
			model: "llama3-70b-8192",
			usage: model.TokenUsage{InputTokens: 2_000_000, OutputTokens: 1_000_000},
			want:  1.18 + 0.79,
		},
		{
			name:  "gemini flash",
			model: "gemini-1.5-flash",
			usage: model.TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
			want:  0.375,
		},
		{
			name:  "unknown model",
			model: "mystery",
			usage: model.TokenUsage{InputTokens: 1_000_000},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calc.Tokens(tt.model, tt.usage), 1e-9)
		})
	}
}

func TestNewCalculator_OverridesMerge(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(Rates{
		Models: map[string]ModelRate{"custom": {Input: 2, Output: 4}},
		Jina:   JinaRate{PerMTok: 0.05},
	})

	assert.InDelta(t, 6.0, calc.Tokens("custom", model.TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}), 1e-9)
	assert.InDelta(t, 0.375, calc.Tokens("gemini-1.5-flash", model.TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}), 1e-9)
	assert.InDelta(t, 0.05, calc.Jina(1_000_000), 1e-9)
}

func TestFirecrawlScrape(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(Rates{})
	assert.InDelta(t, 19.0/3000, calc.FirecrawlScrape(), 1e-12)

	zero := &Calculator{}
	assert.Zero(t, zero.FirecrawlScrape())
}
