package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/mock"
	sslog "github.com/fwojciec/siteaudit/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingPerformanceProbe_Measure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *siteaudit.PerformanceResult
		want   string
	}{
		{
			name:   "available score",
			result: &siteaudit.PerformanceResult{Profile: siteaudit.Desktop, Score: 92.5, Available: true},
			want:   "score=92.5",
		},
		{
			name:   "failed probe",
			result: siteaudit.FailedPerformance(siteaudit.Desktop, "Lighthouse"),
			want:   "score=N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			inner := &mock.PerformanceProbe{
				MeasureFn: func(ctx context.Context, url string, profile siteaudit.Profile) *siteaudit.PerformanceResult {
					return tt.result
				},
			}

			probe := sslog.NewLoggingPerformanceProbe(inner, newLogger(&buf))
			got := probe.Measure(context.Background(), "https://example.com", siteaudit.Desktop)

			assert.Same(t, tt.result, got)
			output := buf.String()
			assert.Contains(t, output, "performance probe")
			assert.Contains(t, output, "profile=desktop")
			assert.Contains(t, output, tt.want)
		})
	}
}
