package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/audit"
	"github.com/fwojciec/siteaudit/crawl"
	"github.com/fwojciec/siteaudit/csv"
	"github.com/fwojciec/siteaudit/excelize"
	"github.com/fwojciec/siteaudit/goquery"
	sahttp "github.com/fwojciec/siteaudit/http"
	"github.com/fwojciec/siteaudit/lighthouse"
	"github.com/fwojciec/siteaudit/markdown"
	"github.com/fwojciec/siteaudit/rod"
	sslog "github.com/fwojciec/siteaudit/slog"
	"github.com/fwojciec/siteaudit/sqlite"
)

// services are the collaborators of one audit run.
type services struct {
	Checker siteaudit.LinkChecker
	Retrier siteaudit.LinkRetrier
	Probe   siteaudit.PerformanceProbe
	Writer  siteaudit.ReportWriter

	closers []func() error
}

// Close releases resources such as the headless browser.
func (s *services) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func wire(deps *Dependencies, s *Settings, stages audit.Stages, logger *slog.Logger) (*services, error) {
	svc := &services{}

	writer := deps.Writer
	if writer == nil {
		w, err := NewReportWriter(s.Output)
		if err != nil {
			return nil, err
		}
		writer = w
	}
	svc.Writer = sslog.NewLoggingReportWriter(writer, logger)

	prober := deps.Prober
	if prober == nil {
		prober = sslog.NewLoggingLinkProber(sahttp.NewProber(), logger)
	}

	svc.Checker = deps.Checker
	if svc.Checker == nil {
		checker, err := newChecker(s, prober, logger, svc)
		if err != nil {
			_ = svc.Close()
			return nil, err
		}
		svc.Checker = sslog.NewLoggingLinkChecker(checker, logger)
	}

	if stages.Retry {
		retryOpts := s.Check
		retryOpts.Recurse = false
		retryOpts.Concurrency = 1
		svc.Retrier = audit.NewRetrier(prober,
			audit.WithMaxAttempts(s.RetryAttempts),
			audit.WithDelay(s.RetryDelay),
			audit.WithCheckOptions(retryOpts),
			audit.WithLogger(logger),
		)
	}

	if stages.Performance {
		probe := deps.Probe
		if probe == nil {
			lh := lighthouse.NewProbe(s.Lighthouse, logger)
			lh.ChromeFlags = s.ChromeFlags
			probe = lh
		}
		svc.Probe = sslog.NewLoggingPerformanceProbe(probe, logger)
	}

	return svc, nil
}

func newChecker(s *Settings, prober siteaudit.LinkProber, logger *slog.Logger, svc *services) (*crawl.Checker, error) {
	filter, err := siteaudit.NewURLFilter(s.Include, s.Exclude)
	if err != nil {
		return nil, err
	}

	var fetcher siteaudit.PageFetcher
	if s.Render {
		rf, err := rod.NewFetcher(
			rod.WithFetchTimeout(s.Check.Timeout),
			rod.WithUserAgent(s.Check.UserAgent),
			rod.WithChromeFlags(s.ChromeFlags...),
		)
		if err != nil {
			return nil, siteaudit.Errorf(siteaudit.EUNAVAILABLE, "failed to start browser (Chrome or Chromium must be installed): %v", err)
		}
		svc.closers = append(svc.closers, rf.Close)
		fetcher = rod.NewLoggingFetcher(rf, logger)
	} else {
		fetcher = sslog.NewLoggingFetcher(sahttp.NewFetcher(
			sahttp.WithTimeout(s.Check.Timeout),
			sahttp.WithUserAgent(s.Check.UserAgent),
		), logger)
	}

	return &crawl.Checker{
		Prober:      prober,
		Fetcher:     fetcher,
		Extractor:   goquery.NewLinkExtractor(),
		Sitemaps:    sslog.NewLoggingSitemapService(sahttp.NewSitemapService(nil, s.Check.UserAgent), logger),
		RateLimiter: crawl.NewDomainLimiter(s.Rate),
		Filter:      filter,
		Scope:       s.Scope,
		MaxURLs:     s.MaxURLs,
		Progress:    progressLogger(logger),
	}, nil
}

// progressLogger logs crawl events at info level, skips at debug.
func progressLogger(logger *slog.Logger) crawl.ProgressFunc {
	return func(e crawl.Event) {
		switch e.Type {
		case crawl.EventPage:
			logger.Info("scanning page", "url", e.URL)
		case crawl.EventLink:
			if e.Status == siteaudit.StatusUnknown {
				logger.Info("status 0 found, will retry", "url", e.URL, "parent", e.Parent, "err", e.Err)
				return
			}
			logger.Info("broken link found", "url", e.URL, "parent", e.Parent, "status", e.Status)
		case crawl.EventSkip:
			logger.Debug("skipped link", "url", e.URL, "parent", e.Parent)
		}
	}
}

// NewReportWriter returns the writer for the format named by path's
// extension.
func NewReportWriter(path string) (siteaudit.ReportWriter, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return csv.NewWriter(path), nil
	case ".xlsx":
		return excelize.NewWriter(path), nil
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewWriter(path), nil
	case ".md", ".markdown":
		return markdown.NewWriter(path), nil
	default:
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "unsupported report format %q: use .csv, .xlsx, .db, .sqlite or .md", ext)
	}
}

