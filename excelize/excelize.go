// Package excelize writes reports as Excel workbooks.
package excelize

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet holding the report.
const SheetName = "Report"

const defaultSheet = "Sheet1"

var _ siteaudit.ReportWriter = (*Writer)(nil)

// Writer writes a report to an .xlsx file, replacing any previous file.
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

	f, err := Build(schema, rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := fs.WriteAtomic(w.path, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	}); err != nil {
		return fmt.Errorf("write xlsx report: %w", err)
	}
	return nil
}

// Build creates a workbook with a bold header row followed by one row per
// report row. The caller must close the returned file.
func Build(schema siteaudit.Schema, rows []*siteaudit.ReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := build(f, schema, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func build(f *excelize.File, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error {
	header := schema.Header()
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		if err := setRow(f, i+2, schema.Values(row)); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 30); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}
