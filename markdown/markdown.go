// Package markdown writes reports as GitHub-flavored markdown documents.
package markdown

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
	"github.com/nao1215/markdown"
)

// Title is the document heading.
const Title = "Site Audit Report"

var _ siteaudit.ReportWriter = (*Writer)(nil)

// Writer writes a report to a markdown file, replacing any previous file.
type Writer struct {
	path string

	// Now returns the report timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a Writer for the file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path, Now: time.Now}
}

// Path returns the destination file.
func (w *Writer) Path() string {
	return w.path
}

// WriteReport implements siteaudit.ReportWriter.
func (w *Writer) WriteReport(ctx context.Context, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	if err := fs.WriteAtomic(w.path, func(out io.Writer) error {
		return Render(out, schema, rows, now)
	}); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

// Render writes the report document to out.
func Render(out io.Writer, schema siteaudit.Schema, rows []*siteaudit.ReportRow, generated time.Time) error {
	md := markdown.NewMarkdown(out)
	domains := domainOrder(rows)

	md.H1(Title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Report", schema.String()},
			{"Generated", generated.Format("2006-01-02 15:04:05 MST")},
			{"Domains with broken links", strconv.Itoa(len(domains))},
			{"Broken links", strconv.Itoa(len(rows))},
		},
	})
	md.PlainText("")

	if schema == siteaudit.SchemaCombined && len(rows) > 0 {
		writePerformance(md, rows, domains)
	}

	md.H2("Broken Links")
	md.PlainText("")
	if len(rows) == 0 {
		md.Tip("No broken links found.")
		md.PlainText("")
		return md.Build()
	}

	table := markdown.TableSet{Header: schema.Header()}
	for _, row := range rows {
		values := schema.Values(row)
		for i, v := range values {
			values[i] = escapeCell(v)
		}
		table.Rows = append(table.Rows, values)
	}
	md.Table(table)
	md.PlainText("")

	return md.Build()
}

func writePerformance(md *markdown.Markdown, rows []*siteaudit.ReportRow, domains []string) {
	first := make(map[string]*siteaudit.ReportRow, len(domains))
	for _, row := range rows {
		if _, ok := first[row.SourceDomain]; !ok {
			first[row.SourceDomain] = row
		}
	}

	md.H2("Performance")
	md.PlainText("")
	table := markdown.TableSet{Header: []string{"Domain", "Desktop", "Mobile"}}
	for _, d := range domains {
		row := first[d]
		table.Rows = append(table.Rows, []string{
			escapeCell(d),
			row.Desktop.ScoreString(),
			row.Mobile.ScoreString(),
		})
	}
	md.Table(table)
	md.PlainText("")
}

// domainOrder returns the distinct source domains in first-seen order.
func domainOrder(rows []*siteaudit.ReportRow) []string {
	seen := make(map[string]bool)
	var domains []string
	for _, row := range rows {
		if !seen[row.SourceDomain] {
			seen[row.SourceDomain] = true
			domains = append(domains, row.SourceDomain)
		}
	}
	return domains
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
