package siteaudit

import (
	"context"
	"strconv"
)

// ReportRow is one line of the final report: a broken link joined with the
// performance results of its domain.
type ReportRow struct {
	SourceDomain string
	PageURL      string
	Status       int
	AssetType    string

	// Desktop and Mobile are nil when performance was not measured.
	Desktop *PerformanceResult
	Mobile  *PerformanceResult
}

// NewReportRow merges a link record with its domain's performance results.
func NewReportRow(domain string, link *LinkResult, desktop, mobile *PerformanceResult) *ReportRow {
	return &ReportRow{
		SourceDomain: domain,
		PageURL:      link.URL,
		Status:       link.Status,
		AssetType:    link.AssetType(),
		Desktop:      desktop,
		Mobile:       mobile,
	}
}

// Schema is the fixed column layout of a report.
type Schema int

// Report schemas.
const (
	// SchemaSimple lists broken links only.
	SchemaSimple Schema = iota
	// SchemaCombined adds desktop and mobile performance columns.
	SchemaCombined
)

// Column describes one report column.
type Column struct {
	ID    string
	Title string
}

var simpleColumns = []Column{
	{ID: "source", Title: "Source Domain"},
	{ID: "page", Title: "Page URL"},
	{ID: "error", Title: "Error Code"},
	{ID: "assetType", Title: "Asset Type"},
}

var performanceColumns = []Column{
	{ID: "desktopPerformanceScore", Title: "Desktop Performance Score"},
	{ID: "desktopIssues", Title: "Desktop Issues"},
	{ID: "mobilePerformanceScore", Title: "Mobile Performance Score"},
	{ID: "mobileIssues", Title: "Mobile Issues"},
}

// String returns the schema name.
func (s Schema) String() string {
	if s == SchemaCombined {
		return "combined"
	}
	return "simple"
}

// Columns returns the schema's columns in output order.
func (s Schema) Columns() []Column {
	cols := append([]Column(nil), simpleColumns...)
	if s == SchemaCombined {
		cols = append(cols, performanceColumns...)
	}
	return cols
}

// Header returns the column titles in output order.
func (s Schema) Header() []string {
	cols := s.Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	return header
}

// Values renders a row in header order.
func (s Schema) Values(row *ReportRow) []string {
	values := []string{
		row.SourceDomain,
		row.PageURL,
		strconv.Itoa(row.Status),
		row.AssetType,
	}
	if s == SchemaCombined {
		values = append(values,
			row.Desktop.ScoreString(), issues(row.Desktop),
			row.Mobile.ScoreString(), issues(row.Mobile),
		)
	}
	return values
}

func issues(r *PerformanceResult) string {
	if r == nil {
		return ""
	}
	return r.Issues
}

// ReportWriter persists a complete report.
type ReportWriter interface {
	// WriteReport writes the header and all rows, replacing any existing
	// report at the writer's destination.
	WriteReport(ctx context.Context, schema Schema, rows []*ReportRow) error
}
