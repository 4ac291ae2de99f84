package scrape

import (
	"context"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/firecrawl"
)

// ScrapeOptions are the per-request Firecrawl parameters.
type ScrapeOptions struct {
	Formats         []string
	OnlyMainContent bool
	TimeoutMs       int
}

// DefaultScrapeOptions requests markdown and html of the main content.
func DefaultScrapeOptions() ScrapeOptions {
	req := firecrawl.NewScrapeRequest("")
	return ScrapeOptions{Formats: req.Formats, OnlyMainContent: req.OnlyMainContent, TimeoutMs: req.Timeout}
}

// FirecrawlAdapter wraps a Firecrawl client as a Scraper.
type FirecrawlAdapter struct {
	client firecrawl.Client
	opts   ScrapeOptions
}

// NewFirecrawlAdapter creates a FirecrawlAdapter. A zero TimeoutMs uses the
// Firecrawl default.
func NewFirecrawlAdapter(client firecrawl.Client, opts ScrapeOptions) *FirecrawlAdapter {
	def := DefaultScrapeOptions()
	if len(opts.Formats) == 0 {
		opts.Formats = def.Formats
		opts.OnlyMainContent = def.OnlyMainContent
	}
	if opts.TimeoutMs <= 0 {
		opts.TimeoutMs = def.TimeoutMs
	}
	return &FirecrawlAdapter{client: client, opts: opts}
}

// Name implements Scraper.
func (f *FirecrawlAdapter) Name() string { return "firecrawl" }

// Supports implements Scraper.
func (f *FirecrawlAdapter) Supports(_ string) bool { return true }

// Scrape fetches a URL with the adapter's options.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*Page, error) {
	return f.ScrapeWith(ctx, targetURL, f.opts)
}

// ScrapeWith fetches a URL with explicit options.
func (f *FirecrawlAdapter) ScrapeWith(ctx context.Context, targetURL string, opts ScrapeOptions) (*Page, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             targetURL,
		Formats:         opts.Formats,
		OnlyMainContent: opts.OnlyMainContent,
		Timeout:         opts.TimeoutMs,
	})
	if err != nil {
		return nil, err
	}

	url := resp.Data.Metadata.SourceURL
	if url == "" {
		url = targetURL
	}
	return &Page{
		URL:             url,
		Title:           resp.Data.Metadata.Title,
		MetaDescription: resp.Data.Metadata.Description,
		Language:        resp.Data.Metadata.Language,
		StatusCode:      resp.Data.Metadata.StatusCode,
		Markdown:        resp.Data.Markdown,
		HTML:            resp.Data.HTML,
		Source:          "firecrawl",
	}, nil
}
