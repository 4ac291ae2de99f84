package model

import "strings"

// WorkflowState is the record threaded through the audit pipeline. It is
// owned by a single run and mutated only through Apply.
type WorkflowState struct {
	URL          string               `json:"url"`
	PageAudit    Record[PageAudit]    `json:"page_audit"`
	SerpAnalysis Record[SerpAnalysis] `json:"serp_analysis"`
	Report       string               `json:"report"`
	Errors       []string             `json:"errors"`
}

// NewWorkflowState returns a fresh state for url with every other field empty.
func NewWorkflowState(url string) *WorkflowState {
	return &WorkflowState{
		URL:    url,
		Errors: []string{},
	}
}

// Update is a partial state produced by one node. Nil fields are left
// untouched; Errors are appended.
type Update struct {
	PageAudit    *Record[PageAudit]
	SerpAnalysis *Record[SerpAnalysis]
	Report       *string
	Errors       []string
}

// Apply merges u into s additively. A field that already holds a value is
// never reset to empty.
func (s *WorkflowState) Apply(u Update) {
	if u.PageAudit != nil && !(u.PageAudit.IsEmpty() && !s.PageAudit.IsEmpty()) {
		s.PageAudit = *u.PageAudit
	}
	if u.SerpAnalysis != nil && !(u.SerpAnalysis.IsEmpty() && !s.SerpAnalysis.IsEmpty()) {
		s.SerpAnalysis = *u.SerpAnalysis
	}
	if u.Report != nil && (*u.Report != "" || s.Report == "") {
		s.Report = *u.Report
	}
	s.Errors = append(s.Errors, u.Errors...)
}

// Snapshot returns a copy whose error list does not alias s.
func (s *WorkflowState) Snapshot() WorkflowState {
	out := *s
	out.Errors = append([]string{}, s.Errors...)
	return out
}

// PrimaryKeyword returns the trimmed primary keyword from a validated page
// audit, or "" when the audit is empty, failed, or lacks one.
func (s *WorkflowState) PrimaryKeyword() string {
	audit, ok := s.PageAudit.Value()
	if !ok {
		return ""
	}
	return strings.TrimSpace(audit.TargetKeywords.PrimaryKeyword)
}
