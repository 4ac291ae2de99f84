// Package report renders a finished WorkflowState for people: a markdown
// document and an xlsx workbook.
package report

import (
	"fmt"
	"strings"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

// NoReport is printed in place of the advisor's report when none was produced.
const NoReport = "No report was generated."

// Markdown renders state as a single markdown document: the advisor report
// followed by the page audit, SERP findings and any errors.
func Markdown(state model.WorkflowState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# SEO Audit: %s\n\n", state.URL)

	b.WriteString("## Recommendations\n\n")
	if strings.TrimSpace(state.Report) == "" {
		b.WriteString("_" + NoReport + "_\n\n")
	} else {
		b.WriteString(strings.TrimSpace(state.Report))
		b.WriteString("\n\n")
	}

	writeAudit(&b, state.PageAudit)
	writeSerp(&b, state.SerpAnalysis)

	if len(state.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range state.Errors {
			fmt.Fprintf(&b, "- %s\n", firstLine(e))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeAudit(b *strings.Builder, rec model.Record[model.PageAudit]) {
	b.WriteString("## Page Audit\n\n")
	audit, ok := rec.Value()
	if !ok {
		b.WriteString(unavailable(rec.Reason()))
		return
	}

	r := audit.AuditResults
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Title | %s |\n", cell(r.TitleTag))
	fmt.Fprintf(b, "| Meta description | %s |\n", cell(r.MetaDescription))
	fmt.Fprintf(b, "| H1 | %s |\n", cell(r.PrimaryHeading))
	fmt.Fprintf(b, "| Word count | %s |\n", intOrDash(r.WordCount))
	fmt.Fprintf(b, "| Primary keyword | %s |\n", cell(audit.TargetKeywords.PrimaryKeyword))
	fmt.Fprintf(b, "| Search intent | %s |\n", cell(audit.TargetKeywords.SearchIntent))
	b.WriteString("\n")

	if len(r.TechnicalFindings) > 0 {
		b.WriteString("### Technical findings\n\n")
		for _, f := range r.TechnicalFindings {
			fmt.Fprintf(b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	if len(r.ContentOpportunities) > 0 {
		b.WriteString("### Content opportunities\n\n")
		for _, o := range r.ContentOpportunities {
			fmt.Fprintf(b, "- %s\n", o)
		}
		b.WriteString("\n")
	}
}

func writeSerp(b *strings.Builder, rec model.Record[model.SerpAnalysis]) {
	b.WriteString("## Competitor Analysis\n\n")
	serp, ok := rec.Value()
	if !ok {
		b.WriteString(unavailable(rec.Reason()))
		return
	}

	fmt.Fprintf(b, "Keyword: **%s**\n\n", serp.PrimaryKeyword)
	if len(serp.TopResults) > 0 {
		b.WriteString("| # | Title | URL | Type |\n|---|---|---|---|\n")
		for _, r := range serp.TopResults {
			fmt.Fprintf(b, "| %d | %s | %s | %s |\n", r.Rank, cell(r.Title), cell(r.URL), cell(r.ContentType))
		}
		b.WriteString("\n")
	}
	if len(serp.DifferentiationOpportunities) > 0 {
		b.WriteString("### Differentiation opportunities\n\n")
		for _, d := range serp.DifferentiationOpportunities {
			fmt.Fprintf(b, "- %s\n", d)
		}
		b.WriteString("\n")
	}
}

func unavailable(reason string) string {
	if reason == "" {
		return "_Not available._\n\n"
	}
	return fmt.Sprintf("_Not available: %s._\n\n", reason)
}

// cell escapes pipes and newlines so a value stays in one table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

// firstLine keeps error list items on one line; raw model output can span many.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
