package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
)

type stubScraper struct {
	name     string
	supports bool
	page     *Page
	err      error
	calls    int
}

func (s *stubScraper) Name() string           { return s.name }
func (s *stubScraper) Supports(_ string) bool { return s.supports }
func (s *stubScraper) Scrape(_ context.Context, _ string) (*Page, error) {
	s.calls++
	return s.page, s.err
}

func TestChain_FirstSuccess(t *testing.T) {
	s1 := &stubScraper{name: "primary", supports: true, page: &Page{URL: "https://acme.com", Markdown: "content", Source: "primary"}}
	s2 := &stubScraper{name: "fallback", supports: true}

	page, err := NewChain(nil, nil, s1, s2).Scrape(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "primary", page.Source)
	assert.Zero(t, s2.calls)
}

func TestChain_FallbackOnErrorAndEmpty(t *testing.T) {
	s1 := &stubScraper{name: "primary", supports: true, err: errors.New("failed")}
	s2 := &stubScraper{name: "empty", supports: true, page: &Page{URL: "https://acme.com"}}
	s3 := &stubScraper{name: "local", supports: true, page: &Page{Markdown: "# Home", Source: "local"}}

	page, err := NewChain(nil, nil, s1, s2, s3).Scrape(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "local", page.Source)
}

func TestChain_AllFail(t *testing.T) {
	s1 := &stubScraper{name: "a", supports: true, err: errors.New("a down")}
	s2 := &stubScraper{name: "b", supports: true, err: errors.New("b down")}

	_, err := NewChain(nil, nil, s1, s2).Scrape(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
	assert.Contains(t, err.Error(), "b down")
}

func TestChain_NoSupportingScraper(t *testing.T) {
	s := &stubScraper{name: "a", supports: false}
	_, err := NewChain(nil, nil, s).Scrape(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable scraper")
}

func TestChain_ExcludedURL(t *testing.T) {
	s := &stubScraper{name: "a", supports: true, page: &Page{Markdown: "x"}}
	_, err := NewChain(nil, nil, s).Scrape(context.Background(), "https://acme.com/files/report.PDF")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excluded")
	assert.Zero(t, s.calls)
}

func TestChain_BreakerSkipsFailingScraper(t *testing.T) {
	breakers := resilience.NewBreakers(resilience.BreakerConfig{FailureThreshold: 2, ResetTimeout: time.Hour})
	flaky := &stubScraper{name: "flaky", supports: true, err: errors.New("timeout")}
	local := &stubScraper{name: "local", supports: true, page: &Page{Markdown: "ok"}}
	chain := NewChain(nil, breakers, flaky, local)

	for range 4 {
		_, err := chain.Scrape(context.Background(), "https://acme.com")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, flaky.calls)
	assert.Equal(t, "open", breakers.States()["scrape.flaky"])
	assert.Equal(t, []string{"flaky", "local"}, chain.Names())
}
