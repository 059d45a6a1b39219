package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.LinkChecker = (*LoggingLinkChecker)(nil)

// LoggingLinkChecker wraps a LinkChecker with logging of every site check.
type LoggingLinkChecker struct {
	next   siteaudit.LinkChecker
	logger *slog.Logger
}

// NewLoggingLinkChecker creates a new LoggingLinkChecker.
func NewLoggingLinkChecker(next siteaudit.LinkChecker, logger *slog.Logger) *LoggingLinkChecker {
	return &LoggingLinkChecker{next: next, logger: logger}
}

// Check delegates to the wrapped checker and logs the number of broken links.
func (c *LoggingLinkChecker) Check(ctx context.Context, target string, opts siteaudit.CheckOptions) (links []*siteaudit.LinkResult, err error) {
	defer func(begin time.Time) {
		var ambiguous int
		for _, l := range links {
			if l.IsAmbiguous() {
				ambiguous++
			}
		}
		c.logger.Info("link check",
			"url", target,
			"broken", len(links),
			"ambiguous", ambiguous,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Check(ctx, target, opts)
}

var _ siteaudit.LinkProber = (*LoggingLinkProber)(nil)

// LoggingLinkProber wraps a LinkProber with debug logging of every probe.
type LoggingLinkProber struct {
	next   siteaudit.LinkProber
	logger *slog.Logger
}

// NewLoggingLinkProber creates a new LoggingLinkProber.
func NewLoggingLinkProber(next siteaudit.LinkProber, logger *slog.Logger) *LoggingLinkProber {
	return &LoggingLinkProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober and logs the status.
func (p *LoggingLinkProber) Probe(ctx context.Context, url string, opts siteaudit.CheckOptions) (result *siteaudit.LinkResult, err error) {
	defer func(begin time.Time) {
		status := siteaudit.StatusUnknown
		if result != nil {
			status = result.Status
		}
		p.logger.Debug("probe",
			"url", url,
			"status", status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Probe(ctx, url, opts)
}
