package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

// Sheet names in the exported workbook.
const (
	SheetAudit    = "Audit"
	SheetHeadings = "Headings"
	SheetSERP     = "SERP"
	SheetErrors   = "Errors"
)

// WriteXLSX saves state as a workbook at path.
func WriteXLSX(path string, state model.WorkflowState) error {
	f, err := Workbook(state)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

// EncodeXLSX writes the workbook for state to w.
func EncodeXLSX(w io.Writer, state model.WorkflowState) error {
	f, err := Workbook(state)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write")
}

// Workbook builds the Audit, Headings, SERP and Errors sheets. Sheets for
// stages that produced nothing carry only their header row.
func Workbook(state model.WorkflowState) (*xlsx.File, error) {
	f := xlsx.NewFile()

	audit, err := f.AddSheet(SheetAudit)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add audit sheet")
	}
	addRow(audit, "Field", "Value")
	addRow(audit, "URL", state.URL)
	if a, ok := state.PageAudit.Value(); ok {
		r := a.AuditResults
		addRow(audit, "Title", r.TitleTag)
		addRow(audit, "Meta description", r.MetaDescription)
		addRow(audit, "H1", r.PrimaryHeading)
		if r.WordCount != nil {
			addRow(audit, "Word count", strconv.Itoa(*r.WordCount))
		}
		addRow(audit, "Content summary", r.ContentSummary)
		addRow(audit, "Primary keyword", a.TargetKeywords.PrimaryKeyword)
		addRow(audit, "Secondary keywords", strings.Join(a.TargetKeywords.SecondaryKeywords, ", "))
		addRow(audit, "Search intent", a.TargetKeywords.SearchIntent)
		addRow(audit, "Technical findings", strings.Join(r.TechnicalFindings, "\n"))
		addRow(audit, "Content opportunities", strings.Join(r.ContentOpportunities, "\n"))
	} else if reason := state.PageAudit.Reason(); reason != "" {
		addRow(audit, "Page audit", reason)
	}

	headings, err := f.AddSheet(SheetHeadings)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add headings sheet")
	}
	addRow(headings, "Tag", "Text")
	if a, ok := state.PageAudit.Value(); ok {
		if a.AuditResults.PrimaryHeading != "" {
			addRow(headings, "h1", a.AuditResults.PrimaryHeading)
		}
		for _, h := range a.AuditResults.SecondaryHeadings {
			addRow(headings, h.Tag, h.Text)
		}
	}

	serp, err := f.AddSheet(SheetSERP)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add serp sheet")
	}
	addRow(serp, "Rank", "Title", "URL", "Snippet", "Content Type")
	if s, ok := state.SerpAnalysis.Value(); ok {
		for _, r := range s.TopResults {
			row := serp.AddRow()
			row.AddCell().SetInt(r.Rank)
			for _, v := range []string{r.Title, r.URL, r.Snippet, r.ContentType} {
				row.AddCell().SetString(v)
			}
		}
	}

	errs, err := f.AddSheet(SheetErrors)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add errors sheet")
	}
	addRow(errs, "#", "Error")
	for i, e := range state.Errors {
		row := errs.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(e)
	}

	return f, nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
