// Package adapter exposes the scrape and search collaborators as calls that
// report failure as values, and binds them as model tools.
package adapter

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/scrape"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/search"
)

// PageScraper fetches one URL.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scrape.Page, error)
}

// OptionScraper fetches one URL with explicit scrape options.
type OptionScraper interface {
	ScrapeWith(ctx context.Context, url string, opts scrape.ScrapeOptions) (*scrape.Page, error)
}

// Searcher answers a query with at most search.MaxResults results and never
// fails.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
}

// ScrapeResult is either the full page content or an error, never a cut
// prefix.
type ScrapeResult struct {
	URL             string `json:"url,omitempty"`
	Title           string `json:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Content         string `json:"content,omitempty"`
	HTML            string `json:"html,omitempty"`
	Source          string `json:"source,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Failed reports whether r carries an error.
func (r ScrapeResult) Failed() bool { return r.Error != "" }

// Adapters is the set of collaborators the audit stages may call.
type Adapters struct {
	scraper  PageScraper
	direct   OptionScraper
	searcher Searcher
}

// Option configures Adapters.
type Option func(*Adapters)

// WithOptionScraper routes scrapes that carry explicit options to s.
func WithOptionScraper(s OptionScraper) Option {
	return func(a *Adapters) { a.direct = s }
}

// New creates Adapters. Either collaborator may be nil, in which case its
// calls fail as values.
func New(scraper PageScraper, searcher Searcher, opts ...Option) *Adapters {
	a := &Adapters{scraper: scraper, searcher: searcher}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scrape fetches url through the scrape chain.
func (a *Adapters) Scrape(ctx context.Context, url string) ScrapeResult {
	return a.scrape(ctx, url, nil)
}

// ScrapeWith fetches url with explicit options. Without an option-aware
// scraper it falls back to the chain and keeps only the requested formats.
func (a *Adapters) ScrapeWith(ctx context.Context, url string, opts scrape.ScrapeOptions) ScrapeResult {
	return a.scrape(ctx, url, &opts)
}

func (a *Adapters) scrape(ctx context.Context, url string, opts *scrape.ScrapeOptions) ScrapeResult {
	url = strings.TrimSpace(url)
	if err := checkURL(url); err != nil {
		return ScrapeResult{URL: url, Error: err.Error()}
	}

	var (
		page *scrape.Page
		err  error
	)
	switch {
	case opts != nil && a.direct != nil:
		page, err = a.direct.ScrapeWith(ctx, url, *opts)
		if err != nil && a.scraper != nil {
			zap.L().Debug("adapter: option scrape failed, using chain", zap.String("url", url), zap.Error(err))
			page, err = a.scraper.Scrape(ctx, url)
		}
	case a.scraper != nil:
		page, err = a.scraper.Scrape(ctx, url)
	default:
		err = eris.New("adapter: no scraper configured")
	}
	if err == nil && page == nil {
		err = eris.New("adapter: scraper returned no page")
	}
	if err != nil {
		zap.L().Warn("adapter: scrape failed", zap.String("url", url), zap.Error(err))
		return ScrapeResult{URL: url, Error: err.Error()}
	}
	return toResult(page, opts)
}

// Search runs query through the search chain. The result is never nil.
func (a *Adapters) Search(ctx context.Context, query string) []search.Result {
	if a.searcher == nil {
		zap.L().Warn("adapter: no searcher configured", zap.String("query", query))
		return []search.Result{}
	}
	out := a.searcher.Search(ctx, query)
	if out == nil {
		return []search.Result{}
	}
	if len(out) > search.MaxResults {
		out = out[:search.MaxResults]
	}
	return out
}

func checkURL(url string) error {
	if url == "" {
		return eris.New("url is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return eris.Errorf("url must start with http:// or https://: %s", url)
	}
	return nil
}

func toResult(page *scrape.Page, opts *scrape.ScrapeOptions) ScrapeResult {
	r := ScrapeResult{
		URL:             page.URL,
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Source:          page.Source,
	}
	wantMarkdown, wantHTML := true, true
	if opts != nil && len(opts.Formats) > 0 {
		wantMarkdown, wantHTML = false, false
		for _, f := range opts.Formats {
			switch f {
			case "markdown":
				wantMarkdown = true
			case "html", "rawHtml":
				wantHTML = true
			}
		}
	}
	if wantMarkdown {
		r.Content = page.Markdown
	}
	if wantHTML {
		r.HTML = page.HTML
	}
	return r
}
