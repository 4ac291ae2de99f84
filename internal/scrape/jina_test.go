package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/jina"
)

type stubJina struct {
	resp *jina.ReadResponse
	err  error
}

func (s *stubJina) Read(context.Context, string) (*jina.ReadResponse, error) { return s.resp, s.err }
func (s *stubJina) Search(context.Context, string) (*jina.SearchResponse, error) {
	return nil, errors.New("not used")
}

func TestJinaAdapter_Scrape(t *testing.T) {
	content := "# Trail Shoes\n\n" + strings.Repeat("Lightweight and grippy. ", 10)
	a := NewJinaAdapter(&stubJina{resp: &jina.ReadResponse{
		Code: 200,
		Data: jina.ReadData{Title: "Trail Shoes", Description: "desc", Content: content},
	}})

	page, err := a.Scrape(context.Background(), "https://shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", page.URL)
	assert.Equal(t, "Trail Shoes", page.Title)
	assert.Equal(t, "desc", page.MetaDescription)
	assert.Equal(t, "jina", page.Source)
}

func TestJinaAdapter_Fallbacks(t *testing.T) {
	_, err := NewJinaAdapter(&stubJina{err: errors.New("down")}).Scrape(context.Background(), "https://x")
	require.Error(t, err)

	_, err = NewJinaAdapter(&stubJina{resp: &jina.ReadResponse{Code: 200, Data: jina.ReadData{Content: "short"}}}).
		Scrape(context.Background(), "https://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs fallback")
}

func TestNeedsFallback(t *testing.T) {
	long := strings.Repeat("real content ", 100)
	tests := []struct {
		name string
		resp *jina.ReadResponse
		want bool
	}{
		{name: "nil", resp: nil, want: true},
		{name: "error code", resp: &jina.ReadResponse{Code: 451, Data: jina.ReadData{Content: long}}, want: true},
		{name: "too short", resp: &jina.ReadResponse{Code: 200, Data: jina.ReadData{Content: "hi"}}, want: true},
		{name: "challenge", resp: &jina.ReadResponse{Code: 200, Data: jina.ReadData{Content: "Just a moment... " + strings.Repeat("x", 120)}}, want: true},
		{name: "long page mentioning cloudflare", resp: &jina.ReadResponse{Code: 200, Data: jina.ReadData{Content: long + " cloudflare"}}, want: false},
		{name: "good", resp: &jina.ReadResponse{Data: jina.ReadData{Content: long}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsFallback(tt.resp))
		})
	}
}
