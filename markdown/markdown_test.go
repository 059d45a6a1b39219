package markdown_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generated = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func combinedRows() []*siteaudit.ReportRow {
	desktop := &siteaudit.PerformanceResult{Profile: siteaudit.Desktop, Score: 85, Available: true, Issues: siteaudit.NoIssues}
	mobile := siteaudit.FailedPerformance(siteaudit.Mobile, "Lighthouse")
	return []*siteaudit.ReportRow{
		{SourceDomain: "https://a.com", PageURL: "https://a.com/x", Status: 404, AssetType: "text/html", Desktop: desktop, Mobile: mobile},
		{SourceDomain: "https://a.com", PageURL: "https://a.com/a|b", Status: 0, AssetType: "unknown", Desktop: desktop, Mobile: mobile},
		{SourceDomain: "https://b.com", PageURL: "https://b.com/y", Status: 500, AssetType: "image/png", Desktop: desktop, Mobile: mobile},
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("combined report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := markdown.Render(&buf, siteaudit.SchemaCombined, combinedRows(), generated)

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "# Site Audit Report")
		assert.Contains(t, out, "2024-03-01 12:00:00 UTC")
		assert.Contains(t, out, "## Performance")
		assert.Contains(t, out, "## Broken Links")
		assert.Contains(t, strings.ToLower(out), "desktop performance score")
		assert.Contains(t, out, "N/A")
		assert.Contains(t, out, "https://b.com/y")
	})

	t.Run("simple report has no performance section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := markdown.Render(&buf, siteaudit.SchemaSimple, combinedRows(), generated)

		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "## Performance")
		assert.NotContains(t, strings.ToLower(buf.String()), "desktop performance score")
	})

	t.Run("empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := markdown.Render(&buf, siteaudit.SchemaCombined, nil, generated)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No broken links found.")
		assert.NotContains(t, buf.String(), "## Performance")
	})

	t.Run("deterministic output", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		require.NoError(t, markdown.Render(&a, siteaudit.SchemaCombined, combinedRows(), generated))
		require.NoError(t, markdown.Render(&b, siteaudit.SchemaCombined, combinedRows(), generated))

		assert.Equal(t, a.String(), b.String())
	})
}

func TestWriter_WriteReport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.md")
	w := markdown.NewWriter(path)
	w.Now = func() time.Time { return generated }

	err := w.WriteReport(context.Background(), siteaudit.SchemaCombined, combinedRows())

	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "# Site Audit Report")
	assert.Equal(t, path, w.Path())
}
