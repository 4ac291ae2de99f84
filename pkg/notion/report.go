package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Database property names used for audit report pages.
const (
	PropName    = "Name"
	PropURL     = "URL"
	PropKeyword = "Keyword"
	PropStatus  = "Status"
	PropRunID   = "Run ID"
)

const (
	// maxRichText is Notion's limit on one rich text item.
	maxRichText = 2000
	// maxChildren is Notion's limit on blocks in one create request.
	maxChildren = 100
)

// ReportPage is one audit report to publish.
type ReportPage struct {
	URL      string
	Keyword  string
	Status   string
	RunID    string
	Markdown string
}

// PublishReport archives any existing pages for the same URL and creates a
// fresh page holding the report. It returns the new page ID.
func PublishReport(ctx context.Context, c Client, dbID string, p ReportPage) (string, error) {
	existing, err := FindByURL(ctx, c, dbID, p.URL)
	if err != nil {
		return "", err
	}
	for _, page := range existing {
		_, err := c.UpdatePage(ctx, string(page.ID), &notionapi.PageUpdateRequest{
			Properties: notionapi.Properties{},
			Archived:   true,
		})
		if err != nil {
			return "", eris.Wrapf(err, "notion: archive previous report %s", page.ID)
		}
	}

	page, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: ReportProperties(p),
		Children:   ReportBlocks(p.Markdown),
	})
	if err != nil {
		return "", eris.Wrapf(err, "notion: publish report for %s", p.URL)
	}

	zap.L().Info("notion: report published",
		zap.String("url", p.URL),
		zap.String("page_id", string(page.ID)),
		zap.Int("archived", len(existing)),
	)
	return string(page.ID), nil
}

// ReportProperties builds the database row for a report.
func ReportProperties(p ReportPage) notionapi.Properties {
	props := notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText("SEO Audit: " + p.URL),
		},
		PropURL: notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  p.URL,
		},
	}
	if p.Keyword != "" {
		props[PropKeyword] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(p.Keyword),
		}
	}
	if p.RunID != "" {
		props[PropRunID] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(p.RunID),
		}
	}
	if p.Status != "" {
		props[PropStatus] = notionapi.StatusProperty{
			Status: notionapi.Status{Name: p.Status},
		}
	}
	return props
}

// ReportBlocks converts markdown into heading and paragraph blocks. Lines
// starting with one to three '#' become headings; consecutive other lines
// are joined into paragraphs. Output stops at the per-request block limit.
func ReportBlocks(md string) []notionapi.Block {
	var blocks []notionapi.Block
	var para []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(para, "\n"))
		para = para[:0]
		for _, chunk := range splitText(text, maxRichText) {
			blocks = append(blocks, notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeParagraph},
				Paragraph:  notionapi.Paragraph{RichText: richText(chunk)},
			})
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		level, title := headingLevel(trimmed)
		switch {
		case level > 0:
			flush()
			blocks = append(blocks, heading(level, title))
		case trimmed == "":
			flush()
		default:
			para = append(para, line)
		}
	}
	flush()

	if len(blocks) > maxChildren {
		blocks = blocks[:maxChildren]
	}
	return blocks
}

func headingLevel(line string) (int, string) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 3 || n >= len(line) || line[n] != ' ' {
		return 0, ""
	}
	return n, strings.TrimSpace(line[n:])
}

func heading(level int, text string) notionapi.Block {
	h := notionapi.Heading{RichText: richText(truncate(text, maxRichText))}
	switch level {
	case 1:
		return notionapi.Heading1Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading1},
			Heading1:   h,
		}
	case 2:
		return notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading2},
			Heading2:   h,
		}
	default:
		return notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading3},
			Heading3:   h,
		}
	}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}}
}

// splitText cuts s into pieces of at most n runes, preferring newline
// boundaries.
func splitText(s string, n int) []string {
	if s == "" {
		return nil
	}
	var out []string
	r := []rune(s)
	for len(r) > n {
		cut := n
		for i := n - 1; i > n/2; i-- {
			if r[i] == '\n' {
				cut = i + 1
				break
			}
		}
		out = append(out, strings.TrimRight(string(r[:cut]), "\n"))
		r = r[cut:]
	}
	return append(out, string(r))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
