// Package scrape fetches page content for audits through a chain of
// scraping providers.
package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
)

// Chain tries scrapers in priority order, returning the first success.
// Each scraper sits behind its own circuit breaker.
type Chain struct {
	matcher  *PathMatcher
	breakers *resilience.Breakers
	scrapers []Scraper
}

// NewChain creates a Chain. A nil matcher uses the default exclusions and a
// nil breakers registry uses the default breaker config.
func NewChain(matcher *PathMatcher, breakers *resilience.Breakers, scrapers ...Scraper) *Chain {
	if matcher == nil {
		matcher = NewPathMatcher(nil)
	}
	if breakers == nil {
		breakers = resilience.NewBreakers(resilience.DefaultBreakerConfig())
	}
	return &Chain{matcher: matcher, breakers: breakers, scrapers: scrapers}
}

// Names returns the scraper names in priority order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.scrapers))
	for i, s := range c.scrapers {
		out[i] = s.Name()
	}
	return out
}

// Scrape tries each scraper in order for a single URL. A page with no
// content counts as a failure so the next scraper gets a chance.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Page, error) {
	if c.matcher.IsExcluded(targetURL) {
		return nil, eris.Errorf("scrape: url excluded by path matcher: %s", targetURL)
	}

	var lastErr error
	for _, s := range c.scrapers {
		if !s.Supports(targetURL) {
			continue
		}
		b := c.breakers.Get("scrape." + s.Name())
		if !b.Allow() {
			lastErr = eris.Wrapf(resilience.ErrCircuitOpen, "scrape: %s", s.Name())
			continue
		}

		page, err := s.Scrape(ctx, targetURL)
		if err == nil && (page == nil || page.Markdown == "") {
			err = eris.Errorf("scrape: %s returned no content", s.Name())
		}
		b.Record(err)
		if err == nil {
			return page, nil
		}

		zap.L().Debug("scrape: scraper failed, trying next",
			zap.String("scraper", s.Name()),
			zap.String("url", targetURL),
			zap.Error(err),
		)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}
