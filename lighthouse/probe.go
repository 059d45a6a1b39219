// Package lighthouse measures page performance by running the Lighthouse
// CLI and summarizing its JSON report.
package lighthouse

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// DefaultBinary is the Lighthouse executable looked up in PATH.
const DefaultBinary = "lighthouse"

// toolName appears in failure descriptions.
const toolName = "Lighthouse"

var _ siteaudit.PerformanceProbe = (*Probe)(nil)

// Probe runs Lighthouse once per call.
type Probe struct {
	Runner Runner

	// Binary is the Lighthouse executable. Empty means DefaultBinary.
	Binary string

	// ChromeFlags are appended to --headless in --chrome-flags.
	ChromeFlags []string

	Logger *slog.Logger
}

// NewProbe returns a Probe running the lighthouse binary as a child process.
func NewProbe(binary string, logger *slog.Logger) *Probe {
	return &Probe{
		Runner: &ExecRunner{},
		Binary: binary,
		Logger: logger,
	}
}

// Measure audits url with the given profile. Failures are logged and
// reported as a result with no score.
func (p *Probe) Measure(ctx context.Context, url string, profile siteaudit.Profile) *siteaudit.PerformanceResult {
	out, err := p.Runner.Run(ctx, p.binary(), p.Args(url, profile)...)
	if err != nil {
		p.fail(url, profile, err)
		return siteaudit.FailedPerformance(profile, toolName)
	}

	report, err := Parse(out)
	if err != nil {
		p.fail(url, profile, err)
		return siteaudit.FailedPerformance(profile, toolName)
	}
	score, err := report.PerformanceScore()
	if err != nil {
		p.fail(url, profile, err)
		return siteaudit.FailedPerformance(profile, toolName)
	}

	return &siteaudit.PerformanceResult{
		Profile:   profile,
		Score:     score,
		Available: true,
		Issues:    report.Issues(),
	}
}

// Args returns the Lighthouse command-line arguments for a profile.
func (p *Probe) Args(url string, profile siteaudit.Profile) []string {
	flags := append([]string{"--headless"}, p.ChromeFlags...)
	args := []string{url, "--output=json", "--quiet"}
	if profile == siteaudit.Desktop {
		args = append(args, "--preset=desktop")
	}
	args = append(args, "--chrome-flags="+strings.Join(flags, " "))
	if profile == siteaudit.Mobile {
		args = append(args, "--form-factor=mobile")
	}
	return args
}

func (p *Probe) binary() string {
	if p.Binary == "" {
		return DefaultBinary
	}
	return p.Binary
}

func (p *Probe) fail(url string, profile siteaudit.Profile, err error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("lighthouse failed", "url", url, "profile", profile, "err", err)
}
