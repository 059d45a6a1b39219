package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
	"github.com/google/uuid"
)

// ReportTable is the table holding report rows.
const ReportTable = "report"

var _ siteaudit.ReportWriter = (*Writer)(nil)

// Writer writes a report to a SQLite file. Each write recreates the file with
// a single run and its rows.
type Writer struct {
	path string

	// Now returns the run timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a Writer for the database file at path.
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
	if err := fs.ReplaceFile(w.path, func(tmpPath string) error {
		db := NewDB(tmpPath)
		if err := db.Open(); err != nil {
			return err
		}
		if err := w.write(ctx, db, schema, rows); err != nil {
			db.Close()
			return err
		}
		return db.Close()
	}); err != nil {
		return fmt.Errorf("write sqlite report: %w", err)
	}
	return nil
}

func (w *Writer) write(ctx context.Context, db *DB, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cols := schema.Columns()
	if _, err := tx.ExecContext(ctx, createReportTable(cols)); err != nil {
		return fmt.Errorf("failed to create report table: %w", err)
	}

	runID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, schema, row_count, created_at)
		VALUES (?, ?, ?, ?)
	`, runID, schema.String(), len(rows), w.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertReportRow(cols))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		args := []any{runID, i}
		for j, v := range schema.Values(row) {
			if cols[j].ID == "error" {
				args = append(args, row.Status)
				continue
			}
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func createReportTable(cols []siteaudit.Column) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(ReportTable))
	b.WriteString(" (\n\trun_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,\n\tposition INTEGER NOT NULL")
	for _, c := range cols {
		typ := "TEXT"
		if c.ID == "error" {
			typ = "INTEGER"
		}
		fmt.Fprintf(&b, ",\n\t%s %s NOT NULL", quoteIdent(c.ID), typ)
	}
	b.WriteString("\n)")
	return b.String()
}

func insertReportRow(cols []siteaudit.Column) string {
	names := []string{"run_id", "position"}
	for _, c := range cols {
		names = append(names, quoteIdent(c.ID))
	}
	return "INSERT INTO " + quoteIdent(ReportTable) +
		" (" + strings.Join(names, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ") + ")"
}

// Run describes one report run stored in a database.
type Run struct {
	ID        string
	Schema    string
	RowCount  int
	CreatedAt time.Time
}

// FindRun returns the run recorded in db.
func FindRun(ctx context.Context, db *DB) (*Run, error) {
	var run Run
	var createdAt string
	err := db.QueryRowContext(ctx, `
		SELECT id, schema, row_count, created_at FROM runs LIMIT 1
	`).Scan(&run.ID, &run.Schema, &run.RowCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, siteaudit.Errorf(siteaudit.ENOTFOUND, "no report run recorded")
	} else if err != nil {
		return nil, err
	}
	if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRows returns report rows as strings in column order, ordered by
// position. Zero limit means no limit.
func FindRows(ctx context.Context, db *DB, limit, offset int) ([][]string, error) {
	var query strings.Builder
	query.WriteString("SELECT * FROM " + quoteIdent(ReportTable) + " ORDER BY position")
	var args []any
	appendPagination(&query, &args, limit, offset)

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		// Skip run_id and position.
		values := make([]string, 0, len(cols)-2)
		for _, v := range raw[2:] {
			values = append(values, v.String)
		}
		out = append(out, values)
	}
	return out, rows.Err()
}
