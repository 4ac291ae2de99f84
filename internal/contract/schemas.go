package contract

import "github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"

func str() map[string]any { return map[string]any{"type": "string"} }

func strList() map[string]any {
	return map[string]any{"type": "array", "items": str()}
}

func nullable(t string) map[string]any {
	return map[string]any{"type": []any{t, "null"}}
}

func object(required []string, props map[string]any) map[string]any {
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, r := range required {
			req[i] = r
		}
		out["required"] = req
	}
	return out
}

// PageAuditSchema is the JSON schema for the page-audit stage output.
var PageAuditSchema = object(
	[]string{"audit_results", "target_keywords"},
	map[string]any{
		"audit_results": object(
			[]string{"title_tag", "meta_description", "primary_heading", "content_summary", "link_counts"},
			map[string]any{
				"title_tag":        str(),
				"meta_description": str(),
				"primary_heading":  str(),
				"secondary_headings": map[string]any{
					"type":  "array",
					"items": object([]string{"tag", "text"}, map[string]any{"tag": str(), "text": str()}),
				},
				"word_count":      nullable("integer"),
				"content_summary": str(),
				"link_counts": object(nil, map[string]any{
					"internal": nullable("integer"),
					"external": nullable("integer"),
					"broken":   nullable("integer"),
					"notes":    nullable("string"),
				}),
				"technical_findings":    strList(),
				"content_opportunities": strList(),
			},
		),
		"target_keywords": object(
			[]string{"primary_keyword", "search_intent"},
			map[string]any{
				"primary_keyword":    str(),
				"secondary_keywords": strList(),
				"search_intent":      str(),
				"supporting_topics":  strList(),
			},
		),
	},
)

// SerpAnalysisSchema is the JSON schema for the competitor-analysis stage output.
var SerpAnalysisSchema = object(
	[]string{"primary_keyword", "top_10_results"},
	map[string]any{
		"primary_keyword": str(),
		"top_10_results": map[string]any{
			"type": "array",
			"items": object(
				[]string{"rank", "title", "url", "snippet", "content_type"},
				map[string]any{
					"rank":         map[string]any{"type": "integer"},
					"title":        str(),
					"url":          str(),
					"snippet":      str(),
					"content_type": str(),
				},
			),
		},
		"title_patterns":                strList(),
		"content_formats":               strList(),
		"people_also_ask":               strList(),
		"key_themes":                    strList(),
		"differentiation_opportunities": strList(),
	},
)

// PageAudit validates page-audit output.
var PageAudit = MustNew("page_audit", PageAuditSchema, normalizePageAudit)

// SerpAnalysis validates competitor-analysis output.
var SerpAnalysis = MustNew("serp_analysis", SerpAnalysisSchema, normalizeSerpAnalysis)

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func normalizePageAudit(p *model.PageAudit) {
	a := &p.AuditResults
	a.SecondaryHeadings = orEmpty(a.SecondaryHeadings)
	a.TechnicalFindings = orEmpty(a.TechnicalFindings)
	a.ContentOpportunities = orEmpty(a.ContentOpportunities)

	k := &p.TargetKeywords
	k.SecondaryKeywords = orEmpty(k.SecondaryKeywords)
	k.SupportingTopics = orEmpty(k.SupportingTopics)
}

func normalizeSerpAnalysis(s *model.SerpAnalysis) {
	s.TopResults = orEmpty(s.TopResults)
	if len(s.TopResults) > model.MaxSerpResults {
		s.TopResults = s.TopResults[:model.MaxSerpResults]
	}
	s.TitlePatterns = orEmpty(s.TitlePatterns)
	s.ContentFormats = orEmpty(s.ContentFormats)
	s.PeopleAlsoAsk = orEmpty(s.PeopleAlsoAsk)
	s.KeyThemes = orEmpty(s.KeyThemes)
	s.DifferentiationOpportunities = orEmpty(s.DifferentiationOpportunities)
}
