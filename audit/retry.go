package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/crawl"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Minute
)

var _ siteaudit.LinkRetrier = (*Retrier)(nil)

// Retrier re-probes broken links whose status could not be determined.
// Records are retried one at a time.
type Retrier struct {
	prober      siteaudit.LinkProber
	maxAttempts int
	delay       time.Duration
	opts        siteaudit.CheckOptions
	logger      *slog.Logger
}

// RetrierOption configures a Retrier.
type RetrierOption func(*Retrier)

// WithMaxAttempts sets the number of probes per ambiguous record.
func WithMaxAttempts(n int) RetrierOption {
	return func(r *Retrier) {
		r.maxAttempts = n
	}
}

// WithDelay sets the wait between attempts.
func WithDelay(d time.Duration) RetrierOption {
	return func(r *Retrier) {
		r.delay = d
	}
}

// WithCheckOptions sets the options passed to each probe.
func WithCheckOptions(opts siteaudit.CheckOptions) RetrierOption {
	return func(r *Retrier) {
		r.opts = opts
	}
}

// WithLogger sets the logger for retry progress.
func WithLogger(logger *slog.Logger) RetrierOption {
	return func(r *Retrier) {
		r.logger = logger
	}
}

// NewRetrier creates a Retrier probing with prober.
func NewRetrier(prober siteaudit.LinkProber, opts ...RetrierOption) *Retrier {
	r := &Retrier{
		prober:      prober,
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultRetryDelay,
		logger:      discardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxAttempts < 1 {
		r.maxAttempts = 1
	}
	if r.logger == nil {
		r.logger = discardLogger()
	}
	return r
}

// RetryBroken implements siteaudit.LinkRetrier.
//
// Ambiguous records are re-probed up to the attempt budget. The first
// attempt yielding a non-zero status replaces the record's status and
// state; records that never get one keep status 0. Other records pass
// through. The input slice is not modified.
//
// The only error returned is the context's, in which case records not yet
// retried are passed through unchanged.
func (r *Retrier) RetryBroken(ctx context.Context, links []*siteaudit.LinkResult) ([]*siteaudit.LinkResult, error) {
	out := make([]*siteaudit.LinkResult, len(links))
	for i, link := range links {
		c := *link
		out[i] = &c
	}

	probe := func(ctx context.Context, url string) (*siteaudit.LinkResult, error) {
		return r.prober.Probe(ctx, url, r.opts)
	}
	logf := func(format string, args ...any) {
		r.logger.Info(fmt.Sprintf(format, args...))
	}
	delays := crawl.RetryDelays(r.maxAttempts, r.delay)

	for _, link := range out {
		if !link.IsAmbiguous() {
			continue
		}

		result, attempts, err := crawl.ProbeWithRetryDelays(ctx, link.URL, probe, logf, delays)
		link.Attempts = attempts
		if err != nil {
			return out, err
		}

		if result == nil {
			r.logger.Warn("retry failed, keeping status 0", "url", link.URL, "attempts", attempts)
			continue
		}

		link.Status = result.Status
		link.State = siteaudit.ClassifyStatus(result.Status)
		if result.ContentType != "" {
			link.ContentType = result.ContentType
		}
		r.logger.Info("retry resolved", "url", link.URL, "status", link.Status, "attempts", attempts)
	}

	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
