package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	for _, name := range Names {
		assert.NotEmpty(t, s.Get(name), name)
	}
	assert.Contains(t, s.PageAuditor, "scrape_page")
	assert.Contains(t, s.SerpAnalyst, "search_web")
	assert.Empty(t, s.Get("unknown"))
}

func TestLoad_DirOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_auditor.txt"), []byte("  custom audit \n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "serp_analyst.txt"), []byte("\n"), 0o644))

	s, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "custom audit", s.PageAuditor)
	assert.Equal(t, Defaults().SerpAnalyst, s.SerpAnalyst)
	assert.Equal(t, Defaults().OptimizationAdvisor, s.OptimizationAdvisor)
}

func TestLoad_MissingDir(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoad_BundleWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "optimization_advisor.txt"), []byte("from file"), 0o644))
	bundle := filepath.Join(dir, "bundle.yaml")
	require.NoError(t, os.WriteFile(bundle, []byte("optimization_advisor: |\n  from bundle\nserp_analyst: \"\"\n"), 0o644))

	s, err := Load(dir, bundle)
	require.NoError(t, err)
	assert.Equal(t, "from bundle", s.OptimizationAdvisor)
	assert.Equal(t, Defaults().SerpAnalyst, s.SerpAnalyst)
}

func TestLoad_BundleErrors(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("page_auditor: [unclosed"), 0o644))
	_, err = Load("", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse bundle")
}
