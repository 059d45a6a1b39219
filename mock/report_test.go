package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriter_WriteReport(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteReportFn", func(t *testing.T) {
		t.Parallel()

		var gotSchema siteaudit.Schema
		var gotRows []*siteaudit.ReportRow
		w := &mock.ReportWriter{
			WriteReportFn: func(_ context.Context, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error {
				gotSchema = schema
				gotRows = rows
				return nil
			},
		}

		rows := []*siteaudit.ReportRow{{SourceDomain: "http://a.com", PageURL: "http://a.com/x", Status: 404}}
		err := w.WriteReport(context.Background(), siteaudit.SchemaCombined, rows)

		require.NoError(t, err)
		assert.Equal(t, siteaudit.SchemaCombined, gotSchema)
		assert.Equal(t, rows, gotRows)
	})
}
