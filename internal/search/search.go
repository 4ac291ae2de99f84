// Package search looks up competing pages for a keyword through a chain of
// search providers. Failures degrade to an empty result list.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
)

// MaxResults caps the results returned for one query.
const MaxResults = 10

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider runs a query against one search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Chain tries providers in order and returns the first non-empty answer.
type Chain struct {
	breakers  *resilience.Breakers
	providers []Provider
}

// NewChain creates a Chain. A nil breakers registry uses the default
// breaker config.
func NewChain(breakers *resilience.Breakers, providers ...Provider) *Chain {
	if breakers == nil {
		breakers = resilience.NewBreakers(resilience.DefaultBreakerConfig())
	}
	return &Chain{breakers: breakers, providers: providers}
}

// Names returns the provider names in priority order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.providers))
	for i, p := range c.providers {
		out[i] = p.Name()
	}
	return out
}

// Search returns at most MaxResults results for query. It never fails:
// provider errors are logged and an empty list is returned when no provider
// answers.
func (c *Chain) Search(ctx context.Context, query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}
	}

	for _, p := range c.providers {
		b := c.breakers.Get("search." + p.Name())
		if !b.Allow() {
			zap.L().Debug("search: provider circuit open", zap.String("provider", p.Name()))
			continue
		}

		results, err := p.Search(ctx, query, MaxResults)
		b.Record(err)
		if err == nil {
			if out := clean(results); len(out) > 0 {
				return out
			}
			// No hits is not a provider failure.
			zap.L().Debug("search: provider returned no results",
				zap.String("provider", p.Name()),
				zap.String("query", query),
			)
			continue
		}

		zap.L().Warn("search: provider failed",
			zap.String("provider", p.Name()),
			zap.String("query", query),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}
	return []Result{}
}

// clean drops results without a URL and truncates to MaxResults.
func clean(in []Result) []Result {
	out := make([]Result, 0, min(len(in), MaxResults))
	for _, r := range in {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(r.Title),
			URL:     strings.TrimSpace(r.URL),
			Snippet: strings.TrimSpace(r.Snippet),
		})
		if len(out) == MaxResults {
			break
		}
	}
	return out
}
