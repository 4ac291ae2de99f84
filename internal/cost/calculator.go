// Package cost converts provider usage into estimated USD.
package cost

import "github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"

// Rates holds per-provider pricing configuration.
type Rates struct {
	Models    map[string]ModelRate `yaml:"models" mapstructure:"models"`
	Jina      JinaRate             `yaml:"jina" mapstructure:"jina"`
	Firecrawl FirecrawlRate        `yaml:"firecrawl" mapstructure:"firecrawl"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// JinaRate holds Jina Reader pricing.
type JinaRate struct {
	PerMTok float64 `yaml:"per_mtok" mapstructure:"per_mtok"`
}

// FirecrawlRate holds Firecrawl pricing.
type FirecrawlRate struct {
	PlanMonthly     float64 `yaml:"plan_monthly" mapstructure:"plan_monthly"`
	CreditsIncluded float64 `yaml:"credits_included" mapstructure:"credits_included"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates. Models missing
// from rates fall back to DefaultRates.
func NewCalculator(rates Rates) *Calculator {
	merged := DefaultRates()
	for name, r := range rates.Models {
		merged.Models[name] = r
	}
	if rates.Jina.PerMTok > 0 {
		merged.Jina = rates.Jina
	}
	if rates.Firecrawl.CreditsIncluded > 0 {
		merged.Firecrawl = rates.Firecrawl
	}
	return &Calculator{rates: merged}
}

// Tokens computes the cost of one inference call. Unknown models cost 0.
func (c *Calculator) Tokens(modelName string, u model.TokenUsage) float64 {
	rate, ok := c.rates.Models[modelName]
	if !ok {
		return 0
	}
	inCost := (float64(u.InputTokens) / 1e6) * rate.Input
	outCost := (float64(u.OutputTokens) / 1e6) * rate.Output
	cwCost := (float64(u.CacheCreationTokens) / 1e6) * rate.Input * rate.CacheWriteMul
	crCost := (float64(u.CacheReadTokens) / 1e6) * rate.Input * rate.CacheReadMul
	return inCost + outCost + cwCost + crCost
}

// Jina computes the cost for Jina Reader token usage.
func (c *Calculator) Jina(tokens int) float64 {
	return (float64(tokens) / 1e6) * c.rates.Jina.PerMTok
}

// FirecrawlScrape returns the amortized cost of one scrape credit.
func (c *Calculator) FirecrawlScrape() float64 {
	if c.rates.Firecrawl.CreditsIncluded == 0 {
		return 0
	}
	return c.rates.Firecrawl.PlanMonthly / c.rates.Firecrawl.CreditsIncluded
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	claude := func(in, out float64) ModelRate {
		return ModelRate{Input: in, Output: out, CacheWriteMul: 1.25, CacheReadMul: 0.1}
	}
	return Rates{
		Models: map[string]ModelRate{
			"claude-haiku-4-5-20251001":                 claude(1.00, 5.00),
			"claude-sonnet-4-5-20250929":                claude(3.00, 15.00),
			"anthropic.claude-haiku-4-5-20251001-v1:0":  claude(1.00, 5.00),
			"anthropic.claude-sonnet-4-5-20250929-v1:0": claude(3.00, 15.00),
			"llama3-70b-8192":                           {Input: 0.59, Output: 0.79},
			"llama-3.3-70b-versatile":                   {Input: 0.59, Output: 0.79},
			"gemini-1.5-flash":                          {Input: 0.075, Output: 0.30},
			"gemini-2.0-flash":                          {Input: 0.10, Output: 0.40},
		},
		Jina:      JinaRate{PerMTok: 0.02},
		Firecrawl: FirecrawlRate{PlanMonthly: 19.00, CreditsIncluded: 3000},
	}
}
