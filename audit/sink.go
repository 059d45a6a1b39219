package audit

import (
	"context"
	"log/slog"

	"github.com/fwojciec/siteaudit"
)

// Messages logged when a run produced no rows.
const (
	NoBrokenLinks = "No broken links found."
	NoResults     = "No results to report."
)

// Sink accumulates report rows across domains and writes them once.
// It is not safe for concurrent use.
type Sink struct {
	writer siteaudit.ReportWriter
	schema siteaudit.Schema
	logger *slog.Logger

	// EmptyMessage is logged instead of writing when there are no rows.
	EmptyMessage string

	rows    []*siteaudit.ReportRow
	flushed bool
}

// NewSink creates a Sink writing rows with the given schema.
func NewSink(writer siteaudit.ReportWriter, schema siteaudit.Schema, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = discardLogger()
	}
	return &Sink{
		writer:       writer,
		schema:       schema,
		logger:       logger,
		EmptyMessage: NoResults,
	}
}

// Schema returns the report schema.
func (s *Sink) Schema() siteaudit.Schema {
	return s.schema
}

// Append adds rows to the report.
func (s *Sink) Append(rows ...*siteaudit.ReportRow) {
	s.rows = append(s.rows, rows...)
}

// Len returns the number of accumulated rows.
func (s *Sink) Len() int {
	return len(s.rows)
}

// Rows returns a copy of the accumulated rows.
func (s *Sink) Rows() []*siteaudit.ReportRow {
	return append([]*siteaudit.ReportRow(nil), s.rows...)
}

// Flush writes all rows. Without rows nothing is written. Only the first
// call has an effect.
func (s *Sink) Flush(ctx context.Context) error {
	if s.flushed {
		return nil
	}
	s.flushed = true

	if len(s.rows) == 0 {
		s.logger.Info(s.EmptyMessage)
		return nil
	}

	return s.writer.WriteReport(ctx, s.schema, s.rows)
}
