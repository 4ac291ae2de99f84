package model

// PageAudit is the page-audit stage output.
type PageAudit struct {
	AuditResults   AuditResults   `json:"audit_results"`
	TargetKeywords TargetKeywords `json:"target_keywords"`
}

// AuditResults holds on-page findings for the audited URL.
type AuditResults struct {
	TitleTag             string        `json:"title_tag"`
	MetaDescription      string        `json:"meta_description"`
	PrimaryHeading       string        `json:"primary_heading"`
	SecondaryHeadings    []HeadingItem `json:"secondary_headings"`
	WordCount            *int          `json:"word_count"`
	ContentSummary       string        `json:"content_summary"`
	LinkCounts           LinkCounts    `json:"link_counts"`
	TechnicalFindings    []string      `json:"technical_findings"`
	ContentOpportunities []string      `json:"content_opportunities"`
}

// HeadingItem is a secondary heading (h2-h4) in reading order.
type HeadingItem struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// LinkCounts is a snapshot of the page's links. Counts the model could not
// determine are nil.
type LinkCounts struct {
	Internal *int    `json:"internal"`
	External *int    `json:"external"`
	Broken   *int    `json:"broken"`
	Notes    *string `json:"notes"`
}

// TargetKeywords is the keyword focus derived from page content.
type TargetKeywords struct {
	PrimaryKeyword    string   `json:"primary_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
	SearchIntent      string   `json:"search_intent"`
	SupportingTopics  []string `json:"supporting_topics"`
}

// SerpAnalysis is the competitor-analysis stage output.
type SerpAnalysis struct {
	PrimaryKeyword               string       `json:"primary_keyword"`
	TopResults                   []SerpResult `json:"top_10_results"`
	TitlePatterns                []string     `json:"title_patterns"`
	ContentFormats               []string     `json:"content_formats"`
	PeopleAlsoAsk                []string     `json:"people_also_ask"`
	KeyThemes                    []string     `json:"key_themes"`
	DifferentiationOpportunities []string     `json:"differentiation_opportunities"`
}

// MaxSerpResults caps the organic results kept per analysis.
const MaxSerpResults = 10

// SerpResult is one organic competitor.
type SerpResult struct {
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	ContentType string `json:"content_type"`
}
