package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.PerformanceProbe = (*PerformanceProbe)(nil)

// PerformanceProbe is a mock implementation of siteaudit.PerformanceProbe.
type PerformanceProbe struct {
	MeasureFn func(ctx context.Context, url string, profile siteaudit.Profile) *siteaudit.PerformanceResult
}

func (p *PerformanceProbe) Measure(ctx context.Context, url string, profile siteaudit.Profile) *siteaudit.PerformanceResult {
	return p.MeasureFn(ctx, url, profile)
}

var _ siteaudit.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of siteaudit.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, schema siteaudit.Schema, rows []*siteaudit.ReportRow) error {
	return w.WriteReportFn(ctx, schema, rows)
}
