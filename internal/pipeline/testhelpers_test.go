package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm/mocks"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/prompts"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
)

const validAudit = "```json\n" + `{
  "audit_results": {
    "title_tag": "Trail Running Shoes | Acme",
    "meta_description": "Shop trail running shoes.",
    "primary_heading": "Trail Running Shoes",
    "content_summary": "Category page listing trail shoes.",
    "link_counts": {"internal": 12}
  },
  "target_keywords": {
    "primary_keyword": "trail running shoes",
    "search_intent": "transactional"
  }
}` + "\n```"

const auditWithoutKeyword = `{
  "audit_results": {
    "title_tag": "Home",
    "meta_description": "",
    "primary_heading": "Welcome",
    "content_summary": "A landing page with little copy.",
    "link_counts": {}
  },
  "target_keywords": {
    "primary_keyword": "  ",
    "search_intent": "navigational"
  }
}`

const validSerp = `{
  "primary_keyword": "trail running shoes",
  "top_10_results": [
    {"rank": 1, "title": "Best Trail Running Shoes 2026", "url": "https://r1.example", "snippet": "Tested.", "content_type": "listicle"}
  ],
  "key_themes": ["grip", "drop"]
}`

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2,
		ShouldRetry:    resilience.RetryAll,
	}
}

func newBackend(t *testing.T) *mocks.MockBackend {
	b := mocks.NewMockBackend(t)
	b.On("Name").Return("fake").Maybe()
	b.On("Model").Return("fake-1").Maybe()
	return b
}

func newTestEngine(b llm.Backend, opts ...Option) *Engine {
	inf := NewInferers(llm.Selection{Default: b}, llm.Options{})
	return New(inf, prompts.Defaults(), nil, append([]Option{WithRetry(fastRetry())}, opts...)...)
}

func onStage(stage string) any {
	return mock.MatchedBy(func(r llm.Request) bool { return r.Stage == stage })
}

func onStagePayload(stage, fragment string) any {
	return mock.MatchedBy(func(r llm.Request) bool {
		return r.Stage == stage && len(r.Messages) > 0 && strings.Contains(r.Messages[0].Text, fragment)
	})
}

func reply(text string) *llm.Reply {
	return &llm.Reply{Text: text, Usage: model.TokenUsage{InputTokens: 100, OutputTokens: 50}}
}

func errCtx(ctx context.Context, _ llm.Request) (*llm.Reply, error) {
	return nil, ctx.Err()
}
