package scrape

import "context"

// Page is the content of one scraped URL.
type Page struct {
	URL             string `json:"url"`
	Title           string `json:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Language        string `json:"language,omitempty"`
	StatusCode      int    `json:"status_code,omitempty"`
	Markdown        string `json:"markdown"`
	HTML            string `json:"html,omitempty"`
	Source          string `json:"source"`
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
	Name() string
	Supports(url string) bool
}
