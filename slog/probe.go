package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.PerformanceProbe = (*LoggingPerformanceProbe)(nil)

// LoggingPerformanceProbe wraps a PerformanceProbe with logging.
type LoggingPerformanceProbe struct {
	next   siteaudit.PerformanceProbe
	logger *slog.Logger
}

// NewLoggingPerformanceProbe creates a new LoggingPerformanceProbe.
func NewLoggingPerformanceProbe(next siteaudit.PerformanceProbe, logger *slog.Logger) *LoggingPerformanceProbe {
	return &LoggingPerformanceProbe{next: next, logger: logger}
}

// Measure delegates to the wrapped probe and logs the score.
func (p *LoggingPerformanceProbe) Measure(ctx context.Context, url string, profile siteaudit.Profile) (result *siteaudit.PerformanceResult) {
	defer func(begin time.Time) {
		p.logger.Info("performance probe",
			"url", url,
			"profile", string(profile),
			"score", result.ScoreString(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.Measure(ctx, url, profile)
}
