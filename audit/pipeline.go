// Package audit runs the per-domain audit pipeline: crawl for broken links,
// re-check ambiguous failures, measure performance and merge everything into
// report rows.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/google/uuid"
)

// Stages selects the optional pipeline stages.
type Stages struct {
	// Retry re-probes links that failed with status 0.
	Retry bool
	// Performance measures desktop and mobile performance of each domain.
	Performance bool
}

// LinksOnly reports broken links as found by the crawl.
func LinksOnly() Stages {
	return Stages{}
}

// Combined retries ambiguous links and adds performance results.
func Combined() Stages {
	return Stages{Retry: true, Performance: true}
}

// Schema returns the report schema produced by these stages.
func (s Stages) Schema() siteaudit.Schema {
	if s.Performance {
		return siteaudit.SchemaCombined
	}
	return siteaudit.SchemaSimple
}

// Pipeline audits domains one at a time and collects report rows in Sink.
type Pipeline struct {
	Checker siteaudit.LinkChecker
	Retrier siteaudit.LinkRetrier
	Probe   siteaudit.PerformanceProbe
	Sink    *Sink

	Stages  Stages
	Options siteaudit.CheckOptions

	Logger *slog.Logger
}

// DomainResult summarizes the audit of one domain.
type DomainResult struct {
	Domain string
	// Broken is the number of broken links found by the crawl.
	Broken int
	// Ambiguous is the number of broken links with status 0.
	Ambiguous int
	// Recovered is the number of ambiguous links that got a status on retry.
	Recovered int
	Rows      int
	Desktop   *siteaudit.PerformanceResult
	Mobile    *siteaudit.PerformanceResult
	Duration  time.Duration
	// Err is set when the domain was aborted.
	Err error
}

// Failed reports whether the domain was aborted.
func (r *DomainResult) Failed() bool {
	return r.Err != nil
}

// Summary describes a pipeline run.
type Summary struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Domains  []*DomainResult
}

// Rows returns the number of report rows across all domains.
func (s *Summary) Rows() int {
	var n int
	for _, d := range s.Domains {
		n += d.Rows
	}
	return n
}

// Failed returns the number of aborted domains.
func (s *Summary) Failed() int {
	var n int
	for _, d := range s.Domains {
		if d.Failed() {
			n++
		}
	}
	return n
}

// Run audits domains in order and writes the report. A failing domain is
// logged and recorded in the summary; the run continues with the next one.
//
// Run returns an error only if the context is canceled, in which case no
// report is written, or if writing the report fails.
func (p *Pipeline) Run(ctx context.Context, domains []string) (*Summary, error) {
	if p.Sink == nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "pipeline has no report sink")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
	logger := p.logger().With("run", summary.RunID)
	defer func() { summary.Duration = time.Since(summary.Started) }()

	for _, domain := range domains {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Domains = append(summary.Domains, p.auditDomain(ctx, logger, domain))
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if err := p.Sink.Flush(ctx); err != nil {
		return summary, fmt.Errorf("write report: %w", err)
	}
	return summary, nil
}

func (p *Pipeline) validate() error {
	if p.Checker == nil {
		return siteaudit.Errorf(siteaudit.EINVALID, "pipeline has no link checker")
	}
	if p.Stages.Retry && p.Retrier == nil {
		return siteaudit.Errorf(siteaudit.EINVALID, "retry stage requires a retrier")
	}
	if p.Stages.Performance && p.Probe == nil {
		return siteaudit.Errorf(siteaudit.EINVALID, "performance stage requires a probe")
	}
	return nil
}

// auditDomain runs CRAWL, RETRY, AUDIT_DESKTOP, AUDIT_MOBILE and MERGE for
// one domain. Rows reach the sink only if every stage completed.
func (p *Pipeline) auditDomain(ctx context.Context, logger *slog.Logger, domain string) (res *DomainResult) {
	res = &DomainResult{Domain: domain}
	logger = logger.With("domain", domain)
	begin := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res.Err = siteaudit.Errorf(siteaudit.EINTERNAL, "panic auditing %s: %v", domain, r)
			res.Rows = 0
		}
		res.Duration = time.Since(begin)
		if res.Err != nil {
			logger.Error("error processing domain", "err", res.Err, "duration", res.Duration)
			return
		}
		logger.Info("completed processing for domain", "rows", res.Rows, "duration", res.Duration)
	}()

	logger.Info("starting scan for domain")

	// CRAWL
	broken, err := p.Checker.Check(ctx, domain, p.Options)
	if err != nil {
		res.Err = fmt.Errorf("crawl: %w", err)
		return res
	}
	res.Broken = len(broken)
	for _, link := range broken {
		if link.IsAmbiguous() {
			res.Ambiguous++
		}
	}

	// RETRY
	links := broken
	if p.Stages.Retry && res.Ambiguous > 0 {
		links, err = p.Retrier.RetryBroken(ctx, broken)
		if err != nil {
			res.Err = fmt.Errorf("retry: %w", err)
			return res
		}
		for _, link := range links {
			if link.Attempts > 0 && link.Status != siteaudit.StatusUnknown {
				res.Recovered++
			}
		}
	}

	// AUDIT_DESKTOP, AUDIT_MOBILE
	if p.Stages.Performance {
		res.Desktop = p.Probe.Measure(ctx, domain, siteaudit.Desktop)
		res.Mobile = p.Probe.Measure(ctx, domain, siteaudit.Mobile)
	}

	// MERGE
	rows := make([]*siteaudit.ReportRow, 0, len(links))
	for _, link := range links {
		rows = append(rows, siteaudit.NewReportRow(domain, link, res.Desktop, res.Mobile))
	}
	p.Sink.Append(rows...)
	res.Rows = len(rows)

	return res
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return discardLogger()
	}
	return p.Logger
}
