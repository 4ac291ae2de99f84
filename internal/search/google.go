package search

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/google"
)

// GoogleProvider searches through Google Programmable Search.
type GoogleProvider struct {
	client  google.Client
	limiter *rate.Limiter
}

// NewGoogleProvider wraps client with a qps rate limit. A non-positive qps
// disables limiting.
func NewGoogleProvider(client google.Client, qps float64) *GoogleProvider {
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	return &GoogleProvider{client: client, limiter: rate.NewLimiter(limit, 1)}
}

func (g *GoogleProvider) Name() string { return "google" }

func (g *GoogleProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	hits, err := g.client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		out = append(out, Result{Title: h.Title, URL: h.Link, Snippet: h.Snippet})
	}
	return out, nil
}
