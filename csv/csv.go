// Package csv writes reports as comma-separated values.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
)

var _ siteaudit.ReportWriter = (*Writer)(nil)

// Writer writes a report to a CSV file, replacing any previous file.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
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
	if err := fs.WriteAtomic(w.path, func(out io.Writer) error {
		return Encode(out, schema, rows)
	}); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

// Encode writes the schema header followed by one record per row.
func Encode(w io.Writer, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Header()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(schema.Values(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
