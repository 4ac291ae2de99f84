// Package google queries the Google Programmable Search (Custom Search JSON)
// API.
package google

import (
	"context"

	"github.com/rotisserie/eris"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// MaxResults is the largest page the API returns per query.
const MaxResults = 10

// Client performs web searches.
type Client interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
}

// Result is one organic search hit.
type Result struct {
	Title       string
	Link        string
	Snippet     string
	DisplayLink string
}

type cseClient struct {
	svc *customsearch.Service
	cx  string
}

// NewClient creates a Custom Search client for the search engine cx. Extra
// options (endpoint) are passed to the API library.
func NewClient(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (Client, error) {
	if cx == "" {
		return nil, eris.New("google: search engine id (cx) is required")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "google: create customsearch service")
	}
	return &cseClient{svc: svc, cx: cx}, nil
}

// Search returns up to num results (clamped to 1..MaxResults).
func (c *cseClient) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if num <= 0 || num > MaxResults {
		num = MaxResults
	}
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(int64(num)).Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrapf(err, "google: search %q", query)
	}

	out := make([]Result, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it == nil {
			continue
		}
		out = append(out, Result{
			Title:       it.Title,
			Link:        it.Link,
			Snippet:     it.Snippet,
			DisplayLink: it.DisplayLink,
		})
	}
	return out, nil
}
