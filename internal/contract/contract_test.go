package contract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

const minimalAudit = `{
  "audit_results": {
    "title_tag": "Trail Running Shoes | Acme",
    "meta_description": "Shop trail running shoes.",
    "primary_heading": "Trail Running Shoes",
    "content_summary": "Category page listing trail shoes.",
    "link_counts": {}
  },
  "target_keywords": {
    "primary_keyword": "trail running shoes",
    "search_intent": "transactional"
  }
}`

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", ` {"a":1} `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose before fence", "Here you go:\n```json\n{\"a\":1}\n```\n", `{"a":1}`},
		{"single line", "```json {\"a\":1}```", `{"a":1}`},
		{"fence opens on payload line", "```{\"a\":1}\n```", `{"a":1}`},
		{"bare json with backticks", "{\"a\":\"use ```code``` blocks\"}", "{\"a\":\"use ```code``` blocks\"}"},
		{"fenced json with backticks", "```json\n{\"a\":\"use ```code``` blocks\"}\n```", "{\"a\":\"use ```code``` blocks\"}"},
		{"inline backticks in prose", "Use ```json``` please", "Use ```json``` please"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestPageAudit_UnfencedWithBackticksInStrings(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalAudit, "Shop trail running shoes.", "How to write ```code``` blocks", 1)

	rec := PageAudit.Validate(doc)
	require.Equal(t, model.RecordValidated, rec.Kind(), rec.Reason())

	v, _ := rec.Value()
	assert.Equal(t, "How to write ```code``` blocks", v.AuditResults.MetaDescription)
	assert.Equal(t, "Trail Running Shoes", v.AuditResults.PrimaryHeading)
}

func TestPageAudit_MinimalDocumentDefaultsOptionalFields(t *testing.T) {
	t.Parallel()

	rec := PageAudit.Validate(minimalAudit)
	require.Equal(t, model.RecordValidated, rec.Kind(), rec.Reason())

	v, _ := rec.Value()
	a := v.AuditResults
	assert.Equal(t, "Trail Running Shoes | Acme", a.TitleTag)
	assert.Equal(t, "Shop trail running shoes.", a.MetaDescription)
	assert.Equal(t, "Trail Running Shoes", a.PrimaryHeading)
	assert.Equal(t, "Category page listing trail shoes.", a.ContentSummary)
	assert.Equal(t, []model.HeadingItem{}, a.SecondaryHeadings)
	assert.Equal(t, []string{}, a.TechnicalFindings)
	assert.Equal(t, []string{}, a.ContentOpportunities)
	assert.Nil(t, a.WordCount)
	assert.Nil(t, a.LinkCounts.Internal)
	assert.Nil(t, a.LinkCounts.Notes)

	k := v.TargetKeywords
	assert.Equal(t, "trail running shoes", k.PrimaryKeyword)
	assert.Equal(t, "transactional", k.SearchIntent)
	assert.Equal(t, []string{}, k.SecondaryKeywords)
	assert.Equal(t, []string{}, k.SupportingTopics)
}

func TestPageAudit_FullDocument(t *testing.T) {
	t.Parallel()

	doc := "```json\n" + `{
	  "audit_results": {
	    "title_tag": "t", "meta_description": "m", "primary_heading": "h",
	    "secondary_headings": [{"tag": "h2", "text": "Why trail"}, {"tag": "h3", "text": "Fit"}],
	    "word_count": 1200.0,
	    "content_summary": "s",
	    "link_counts": {"internal": 40, "external": 3, "broken": null, "notes": "footer heavy"},
	    "technical_findings": ["missing alt text"],
	    "content_opportunities": ["add sizing guide"]
	  },
	  "target_keywords": {
	    "primary_keyword": "trail shoes", "secondary_keywords": ["waterproof trail shoes"],
	    "search_intent": "commercial", "supporting_topics": ["grip"]
	  }
	}` + "\n```"

	rec := PageAudit.Validate(doc)
	require.Equal(t, model.RecordValidated, rec.Kind(), rec.Reason())
	v, _ := rec.Value()
	require.NotNil(t, v.AuditResults.WordCount)
	assert.Equal(t, 1200, *v.AuditResults.WordCount)
	assert.Equal(t, "h3", v.AuditResults.SecondaryHeadings[1].Tag)
	assert.Equal(t, 40, *v.AuditResults.LinkCounts.Internal)
	assert.Nil(t, v.AuditResults.LinkCounts.Broken)
	assert.Equal(t, "footer heavy", *v.AuditResults.LinkCounts.Notes)
}

func TestPageAudit_NonJSONKeepsRawOutput(t *testing.T) {
	t.Parallel()

	raw := "I could not access the page, sorry."
	rec := PageAudit.Validate(raw)
	assert.Equal(t, model.RecordFailed, rec.Kind())
	assert.Equal(t, ReasonParse, rec.Reason())
	assert.Equal(t, raw, rec.RawOutput())
}

func TestPageAudit_MissingRequiredField(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalAudit, `"search_intent": "transactional"`, `"x": 1`, 1)
	rec := PageAudit.Validate(doc)
	require.Equal(t, model.RecordFailed, rec.Kind())
	assert.True(t, strings.HasPrefix(rec.Reason(), ReasonValidation), rec.Reason())
	assert.Contains(t, rec.Reason(), "search_intent")
	assert.Equal(t, doc, rec.RawOutput())
}

func TestPageAudit_WrongType(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalAudit, `"link_counts": {}`, `"link_counts": {}, "word_count": "many"`, 1)
	rec := PageAudit.Validate(doc)
	assert.Equal(t, model.RecordFailed, rec.Kind())
}

func TestSerpAnalysis_TruncatesToTopTen(t *testing.T) {
	t.Parallel()

	var items []string
	for i := 1; i <= 12; i++ {
		items = append(items, fmt.Sprintf(
			`{"rank": %d, "title": "T%d", "url": "https://r%d.example", "snippet": "s", "content_type": "blog post"}`, i, i, i))
	}
	doc := `{"primary_keyword": "trail shoes", "top_10_results": [` + strings.Join(items, ",") + `]}`

	rec := SerpAnalysis.Validate(doc)
	require.Equal(t, model.RecordValidated, rec.Kind(), rec.Reason())
	v, _ := rec.Value()
	assert.Len(t, v.TopResults, model.MaxSerpResults)
	assert.Equal(t, 1, v.TopResults[0].Rank)
	assert.Equal(t, []string{}, v.PeopleAlsoAsk)
	assert.Equal(t, []string{}, v.DifferentiationOpportunities)
}

func TestSerpAnalysis_MissingResults(t *testing.T) {
	t.Parallel()

	rec := SerpAnalysis.Validate(`{"primary_keyword": "x"}`)
	assert.Equal(t, model.RecordFailed, rec.Kind())
	assert.Contains(t, rec.Reason(), "top_10_results")
}

func TestNew_InvalidSchema(t *testing.T) {
	t.Parallel()

	_, err := New[model.PageAudit]("bad", map[string]any{"type": 12}, nil)
	assert.Error(t, err)
}
