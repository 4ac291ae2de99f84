package adapter

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/scrape"
)

// Tool names exposed to the model.
const (
	ScrapeToolName = "scrape_page"
	SearchToolName = "search_web"
)

type scrapeArgs struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent *bool    `json:"only_main_content"`
	Timeout         int      `json:"timeout"`
}

type searchArgs struct {
	Query string `json:"query"`
}

// ScrapeTool binds Scrape as the scrape_page tool. Omitted arguments take
// the Firecrawl defaults: markdown and html of the main content with a 90s
// timeout.
func (a *Adapters) ScrapeTool() llm.Tool {
	return llm.Tool{
		Spec: llm.ToolSpec{
			Name:        ScrapeToolName,
			Description: "Fetch a web page and return its main content as markdown, plus its HTML, title and meta description.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Absolute http(s) URL of the page to fetch.",
					},
					"formats": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string", "enum": []string{"markdown", "html"}},
						"description": "Content formats to return. Defaults to markdown and html.",
					},
					"only_main_content": map[string]any{
						"type":        "boolean",
						"description": "Strip navigation, headers and footers. Defaults to true.",
					},
					"timeout": map[string]any{
						"type":        "integer",
						"description": "Timeout in milliseconds. Defaults to 90000.",
					},
				},
				"required": []string{"url"},
			},
		},
		Fn: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args scrapeArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			opts := scrape.DefaultScrapeOptions()
			if len(args.Formats) > 0 {
				opts.Formats = args.Formats
			}
			if args.OnlyMainContent != nil {
				opts.OnlyMainContent = *args.OnlyMainContent
			}
			if args.Timeout > 0 {
				opts.TimeoutMs = args.Timeout
			}
			return a.ScrapeWith(ctx, args.URL, opts), nil
		},
	}
}

// SearchTool binds Search as the search_web tool.
func (a *Adapters) SearchTool() llm.Tool {
	return llm.Tool{
		Spec: llm.ToolSpec{
			Name:        SearchToolName,
			Description: "Search the web and return up to 10 organic results with title, url and snippet.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query, usually the primary keyword.",
					},
				},
				"required": []string{"query"},
			},
		},
		Fn: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args searchArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.Query == "" {
				return nil, eris.New("query is required")
			}
			return a.Search(ctx, args.Query), nil
		},
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return eris.Wrap(err, "invalid tool arguments")
	}
	return nil
}
