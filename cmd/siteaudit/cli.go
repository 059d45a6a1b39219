package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/audit"
	"github.com/fwojciec/siteaudit/config"
	"github.com/fwojciec/siteaudit/crawl"
	"github.com/fwojciec/siteaudit/lighthouse"
)

// Default report files.
const (
	DefaultLinksOutput    = "broken-links-report.csv"
	DefaultCombinedOutput = "combined-report.csv"
)

// Default crawl concurrency per command.
const (
	DefaultLinksConcurrency    = 10
	DefaultCombinedConcurrency = 5
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Optional services; nil means build the real implementation.
	Checker siteaudit.LinkChecker
	Prober  siteaudit.LinkProber
	Probe   siteaudit.PerformanceProbe
	Writer  siteaudit.ReportWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Links    LinksCmd    `cmd:"" help:"Report broken links"`
	Combined CombinedCmd `cmd:"" help:"Report broken links with retries and Lighthouse performance scores"`
}

// AuditFlags are shared by all audit commands. Zero values mean "not set":
// the configuration file, then built-in defaults, fill them in.
type AuditFlags struct {
	Domains []string `arg:"" optional:"" sep:"none" help:"Domains to audit (default: configuration file, then the built-in list)"`

	Config      string        `help:"Configuration file (default: $SITEAUDIT_CONFIG, then the XDG config directory)"`
	Output      string        `short:"o" help:"Report file; the extension selects the format (.csv, .xlsx, .db, .sqlite, .md)"`
	Concurrency int           `short:"c" help:"Concurrent requests per domain (default: 10 for links, 5 for combined)"`
	Timeout     time.Duration `short:"t" help:"Request timeout (default: 100s)"`
	UserAgent   string        `name:"user-agent" help:"User-Agent header"`

	NoRecurse  bool `name:"no-recurse" help:"Check only the links on each domain's home page"`
	NoRetry429 bool `name:"no-retry-429" help:"Do not retry rate-limited responses"`

	RetryAttempts int           `name:"retry-attempts" help:"Probes per link with unknown status (default: 3)"`
	RetryDelay    time.Duration `name:"retry-delay" help:"Wait between probes of a link with unknown status (default: 5m)"`

	Rate    float64  `default:"-1" help:"Requests per second per host, 0 for unlimited (default: unlimited)"`
	MaxURLs int      `name:"max-urls" help:"Maximum URLs probed per domain (default: 5000)"`
	Include []string `short:"i" sep:"none" help:"Regex of URLs probed; other discovered links are skipped (repeatable)"`
	Exclude []string `short:"x" sep:"none" help:"Regex of URLs never probed (repeatable)"`
	Scope   string   `enum:"site,host" default:"site" help:"Pages followed: same registrable domain (site) or same host"`

	Render      bool     `help:"Render pages in headless Chrome before extracting links"`
	Lighthouse  string   `help:"Lighthouse executable (default: lighthouse)"`
	ChromeFlags []string `name:"chrome-flag" sep:"none" help:"Extra Chrome flag for Lighthouse and --render (repeatable)"`

	Verbose bool `short:"v" help:"Enable debug logging"`
	LogJSON bool `name:"log-json" help:"Log in JSON format"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	AuditFlags `embed:""`
}

// Run executes the links-only audit.
func (c *LinksCmd) Run(deps *Dependencies) error {
	return runAudit(deps, c.AuditFlags, audit.LinksOnly())
}

// CombinedCmd is the "combined" subcommand.
type CombinedCmd struct {
	AuditFlags `embed:""`
}

// Run executes the combined audit.
func (c *CombinedCmd) Run(deps *Dependencies) error {
	return runAudit(deps, c.AuditFlags, audit.Combined())
}

// Settings is the resolved configuration of an audit run.
type Settings struct {
	Domains       []string
	Output        string
	Check         siteaudit.CheckOptions
	RetryAttempts int
	RetryDelay    time.Duration
	Rate          float64
	MaxURLs       int
	Include       []string
	Exclude       []string
	Scope         crawl.ScopeMode
	Render        bool
	Lighthouse    string
	ChromeFlags   []string
}

// ResolveSettings merges flags, the configuration file and defaults, in that
// order of precedence. file may be nil.
func ResolveSettings(flags AuditFlags, file *config.File, stages audit.Stages) (*Settings, error) {
	if file == nil {
		file = &config.File{}
	}

	defaultOutput, defaultConcurrency := DefaultLinksOutput, DefaultLinksConcurrency
	if stages.Performance {
		defaultOutput, defaultConcurrency = DefaultCombinedOutput, DefaultCombinedConcurrency
	}

	s := &Settings{
		Output:        firstString(flags.Output, defaultOutput),
		RetryAttempts: firstInt(flags.RetryAttempts, file.RetryAttempts, audit.DefaultMaxAttempts),
		RetryDelay:    firstDuration(flags.RetryDelay, file.RetryDelay, audit.DefaultRetryDelay),
		MaxURLs:       firstInt(flags.MaxURLs, file.MaxURLs, crawl.DefaultMaxURLs),
		Scope:         crawl.ScopeMode(firstString(flags.Scope, string(crawl.ScopeSite))),
		Render:        flags.Render,
		Lighthouse:    firstString(flags.Lighthouse, file.Lighthouse, lighthouse.DefaultBinary),
		Check: siteaudit.CheckOptions{
			Recurse:     !flags.NoRecurse,
			Concurrency: firstInt(flags.Concurrency, file.Concurrency, defaultConcurrency),
			Retry:       !flags.NoRetry429,
			Timeout:     firstDuration(flags.Timeout, file.Timeout, siteaudit.DefaultTimeout),
			UserAgent:   firstString(flags.UserAgent, file.UserAgent, siteaudit.DefaultUserAgent),
		},
	}

	switch {
	case flags.Rate >= 0:
		s.Rate = flags.Rate
	case file.Rate != nil:
		s.Rate = *file.Rate
	}

	s.Include = flags.Include
	if len(s.Include) == 0 {
		s.Include = file.Include
	}
	s.Exclude = flags.Exclude
	if len(s.Exclude) == 0 {
		s.Exclude = file.Exclude
	}
	s.ChromeFlags = flags.ChromeFlags
	if len(s.ChromeFlags) == 0 {
		s.ChromeFlags = file.ChromeFlags
	}

	domains := flags.Domains
	if len(domains) == 0 {
		domains = file.Domains
	}
	if len(domains) == 0 {
		domains = defaultDomains
	}
	normalized, err := siteaudit.NormalizeDomains(domains)
	if err != nil {
		return nil, err
	}
	s.Domains = normalized

	return s, nil
}

// loadConfig finds and loads the configuration file, if any.
func loadConfig(explicit string, getenv func(string) string) (*config.File, string, error) {
	path, err := config.Find(explicit, getenv)
	if err != nil {
		return nil, "", siteaudit.Errorf(siteaudit.ENOTFOUND, "%v", err)
	}
	if path == "" {
		return nil, "", nil
	}
	file, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, "", siteaudit.Errorf(siteaudit.ENOTFOUND, "configuration file %s not found", path)
	} else if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return file, path, nil
}

func runAudit(deps *Dependencies, flags AuditFlags, stages audit.Stages) error {
	logger := newLogger(deps.Stderr, flags.Verbose, flags.LogJSON)

	file, path, err := loadConfig(flags.Config, deps.Getenv)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("loaded configuration", "path", path)
	}

	settings, err := ResolveSettings(flags, file, stages)
	if err != nil {
		return err
	}

	svc, err := wire(deps, settings, stages, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	sink := audit.NewSink(svc.Writer, stages.Schema(), logger)
	if !stages.Performance {
		sink.EmptyMessage = audit.NoBrokenLinks
	}

	pipeline := &audit.Pipeline{
		Checker: svc.Checker,
		Retrier: svc.Retrier,
		Probe:   svc.Probe,
		Sink:    sink,
		Stages:  stages,
		Options: settings.Check,
		Logger:  logger,
	}

	logger.Info("starting audit", "domains", len(settings.Domains), "report", stages.Schema().String(), "output", settings.Output)
	summary, err := pipeline.Run(deps.Ctx, settings.Domains)
	if summary != nil {
		printSummary(deps.Stdout, summary, stages)
	}
	if err != nil {
		return err
	}
	if sink.Len() > 0 {
		fmt.Fprintf(deps.Stdout, "\nReport saved to %s\n", settings.Output)
	}
	return nil
}

func newLogger(w io.Writer, verbose, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
