package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/audit"
	"github.com/fwojciec/siteaudit/crawl"
	"github.com/rodaine/table"
)

// maxDomainWidth caps the Domain column.
const maxDomainWidth = 48

// printSummary writes one line per audited domain.
func printSummary(w io.Writer, summary *audit.Summary, stages audit.Stages) {
	headers := []any{"Domain", "Broken", "Rows"}
	if stages.Retry {
		headers = append(headers, "Status 0", "Recovered")
	}
	if stages.Performance {
		headers = append(headers, "Desktop", "Mobile")
	}
	headers = append(headers, "Duration", "Error")

	tbl := table.New(headers...).WithWriter(w)
	for _, d := range summary.Domains {
		row := []any{crawl.TruncateURL(d.Domain, maxDomainWidth), d.Broken, d.Rows}
		if stages.Retry {
			row = append(row, d.Ambiguous, d.Recovered)
		}
		if stages.Performance {
			row = append(row, d.Desktop.ScoreString(), d.Mobile.ScoreString())
		}
		row = append(row, d.Duration.Round(time.Second), errorText(d.Err))
		tbl.AddRow(row...)
	}
	tbl.Print()

	fmt.Fprintf(w, "\n%d domains, %d failed, %d rows in %s\n",
		len(summary.Domains), summary.Failed(), summary.Rows(), summary.Duration.Round(time.Second))
}

// errorText shows application errors by message and others in full.
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case siteaudit.ErrorCode(err) != siteaudit.EINTERNAL:
		return siteaudit.ErrorMessage(err)
	default:
		return err.Error()
	}
}
