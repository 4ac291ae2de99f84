package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedBackend string

func (n namedBackend) Name() string  { return string(n) }
func (n namedBackend) Model() string { return string(n) + "-model" }
func (n namedBackend) Complete(context.Context, Request) (*Reply, error) {
	return &Reply{}, nil
}

func candidates(configured ...string) []Candidate {
	set := map[string]bool{}
	for _, c := range configured {
		set[c] = true
	}
	var out []Candidate
	for _, name := range []string{"groq", "gemini", "anthropic", "bedrock"} {
		out = append(out, Candidate{Backend: namedBackend(name), Configured: set[name]})
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		configured  []string
		wantDefault string
		wantTools   string
		wantErr     bool
	}{
		{name: "auto groq only", provider: "auto", configured: []string{"groq"}, wantDefault: "groq", wantTools: "groq"},
		{name: "auto groq and gemini", provider: "auto", configured: []string{"groq", "gemini"}, wantDefault: "groq", wantTools: "gemini"},
		{name: "auto anthropic preferred over groq for tools", provider: "", configured: []string{"groq", "anthropic"}, wantDefault: "groq", wantTools: "anthropic"},
		{name: "auto bedrock only", provider: "auto", configured: []string{"bedrock"}, wantDefault: "bedrock", wantTools: "bedrock"},
		{name: "explicit provider", provider: "anthropic", configured: []string{"groq", "anthropic"}, wantDefault: "anthropic", wantTools: "anthropic"},
		{name: "explicit provider missing credential", provider: "gemini", configured: []string{"groq"}, wantErr: true},
		{name: "nothing configured", provider: "auto", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.provider, candidates(tt.configured...))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoBackend))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDefault, sel.For(false).Name())
			assert.Equal(t, tt.wantTools, sel.For(true).Name())
		})
	}
}

func TestSelection_ForWithoutTools(t *testing.T) {
	sel := Selection{Default: namedBackend("groq")}
	assert.Equal(t, "groq", sel.For(true).Name())
}
