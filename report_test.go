package siteaudit_test

import (
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/assert"
)

func TestSchema_Header(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"Source Domain", "Page URL", "Error Code", "Asset Type"},
		siteaudit.SchemaSimple.Header())
	assert.Equal(t,
		[]string{
			"Source Domain", "Page URL", "Error Code", "Asset Type",
			"Desktop Performance Score", "Desktop Issues",
			"Mobile Performance Score", "Mobile Issues",
		},
		siteaudit.SchemaCombined.Header())
	assert.Equal(t, "simple", siteaudit.SchemaSimple.String())
	assert.Equal(t, "combined", siteaudit.SchemaCombined.String())
}

func TestSchema_Columns(t *testing.T) {
	t.Parallel()

	cols := siteaudit.SchemaCombined.Columns()

	assert.Equal(t, siteaudit.Column{ID: "source", Title: "Source Domain"}, cols[0])
	assert.Equal(t, siteaudit.Column{ID: "mobileIssues", Title: "Mobile Issues"}, cols[7])

	// Columns returns a copy.
	cols[0].Title = "changed"
	assert.Equal(t, "Source Domain", siteaudit.SchemaSimple.Columns()[0].Title)
}

func TestSchema_Values(t *testing.T) {
	t.Parallel()

	link := &siteaudit.LinkResult{URL: "https://a.com/x", State: siteaudit.LinkBroken, Status: 404}
	desktop := &siteaudit.PerformanceResult{Profile: siteaudit.Desktop, Score: 85.5, Available: true, Issues: siteaudit.NoIssues}
	mobile := siteaudit.FailedPerformance(siteaudit.Mobile, "Lighthouse")
	row := siteaudit.NewReportRow("https://a.com", link, desktop, mobile)

	t.Run("simple", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t,
			[]string{"https://a.com", "https://a.com/x", "404", "unknown"},
			siteaudit.SchemaSimple.Values(row))
	})

	t.Run("combined", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t,
			[]string{
				"https://a.com", "https://a.com/x", "404", "unknown",
				"85.5", "No significant issues detected.",
				"N/A", "Failed to run Lighthouse (Mobile)",
			},
			siteaudit.SchemaCombined.Values(row))
	})

	t.Run("combined without performance", func(t *testing.T) {
		t.Parallel()

		bare := siteaudit.NewReportRow("https://a.com", link, nil, nil)

		assert.Equal(t,
			[]string{"https://a.com", "https://a.com/x", "404", "unknown", "N/A", "", "N/A", ""},
			siteaudit.SchemaCombined.Values(bare))
	})
}
