package search

import (
	"context"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/jina"
)

// JinaProvider searches through Jina Search. Snippets prefer the result
// description and fall back to the start of its content.
type JinaProvider struct {
	client jina.Client
}

// NewJinaProvider creates a JinaProvider.
func NewJinaProvider(client jina.Client) *JinaProvider {
	return &JinaProvider{client: client}
}

func (j *JinaProvider) Name() string { return "jina" }

func (j *JinaProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	resp, err := j.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, min(len(resp.Data), limit))
	for _, r := range resp.Data {
		if len(out) == limit {
			break
		}
		snippet := r.Description
		if snippet == "" {
			snippet = truncate(r.Content, 300)
		}
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: snippet})
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
