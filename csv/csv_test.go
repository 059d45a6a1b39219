package csv_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []*siteaudit.ReportRow {
	return []*siteaudit.ReportRow{
		{
			SourceDomain: "https://a.com",
			PageURL:      "https://a.com/x",
			Status:       404,
			AssetType:    "text/html",
			Desktop:      &siteaudit.PerformanceResult{Profile: siteaudit.Desktop, Score: 85, Available: true, Issues: siteaudit.NoIssues},
			Mobile:       siteaudit.FailedPerformance(siteaudit.Mobile, "Lighthouse"),
		},
		{
			SourceDomain: "https://a.com",
			PageURL:      "https://a.com/y,z",
			Status:       0,
			AssetType:    "unknown",
			Desktop:      &siteaudit.PerformanceResult{Profile: siteaudit.Desktop, Score: 85, Available: true, Issues: siteaudit.NoIssues},
			Mobile:       siteaudit.FailedPerformance(siteaudit.Mobile, "Lighthouse"),
		},
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("simple schema", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csv.Encode(&buf, siteaudit.SchemaSimple, sampleRows())

		require.NoError(t, err)
		assert.Equal(t,
			"Source Domain,Page URL,Error Code,Asset Type\n"+
				"https://a.com,https://a.com/x,404,text/html\n"+
				"https://a.com,\"https://a.com/y,z\",0,unknown\n",
			buf.String())
	})

	t.Run("combined schema", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csv.Encode(&buf, siteaudit.SchemaCombined, sampleRows()[:1])

		require.NoError(t, err)
		assert.Equal(t,
			"Source Domain,Page URL,Error Code,Asset Type,Desktop Performance Score,Desktop Issues,Mobile Performance Score,Mobile Issues\n"+
				"https://a.com,https://a.com/x,404,text/html,85,No significant issues detected.,N/A,Failed to run Lighthouse (Mobile)\n",
			buf.String())
	})

	t.Run("header only without rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csv.Encode(&buf, siteaudit.SchemaSimple, nil)

		require.NoError(t, err)
		assert.Equal(t, "Source Domain,Page URL,Error Code,Asset Type\n", buf.String())
	})
}

func TestWriter_WriteReport(t *testing.T) {
	t.Parallel()

	t.Run("writes file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "combined-report.csv")
		w := csv.NewWriter(path)

		err := w.WriteReport(context.Background(), siteaudit.SchemaCombined, sampleRows())

		require.NoError(t, err)
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(got), "Failed to run Lighthouse (Mobile)")
		assert.Equal(t, path, w.Path())
	})

	t.Run("same rows produce identical files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first := filepath.Join(dir, "first.csv")
		second := filepath.Join(dir, "second.csv")

		require.NoError(t, csv.NewWriter(first).WriteReport(context.Background(), siteaudit.SchemaCombined, sampleRows()))
		require.NoError(t, csv.NewWriter(second).WriteReport(context.Background(), siteaudit.SchemaCombined, sampleRows()))

		a, err := os.ReadFile(first)
		require.NoError(t, err)
		b, err := os.ReadFile(second)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("overwrites previous report", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken-links-report.csv")
		w := csv.NewWriter(path)
		require.NoError(t, w.WriteReport(context.Background(), siteaudit.SchemaSimple, sampleRows()))

		err := w.WriteReport(context.Background(), siteaudit.SchemaSimple, sampleRows()[:1])

		require.NoError(t, err)
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(got), "y,z")
	})

	t.Run("canceled context writes nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "report.csv")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := csv.NewWriter(path).WriteReport(ctx, siteaudit.SchemaSimple, sampleRows())

		require.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, path)
	})
}
