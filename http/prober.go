package http

import (
	"context"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/siteaudit"
)

// DefaultMaxRetryAfter caps how long a 429 Retry-After is honored.
const DefaultMaxRetryAfter = 60 * time.Second

var _ siteaudit.LinkProber = (*Prober)(nil)

// Prober checks single URLs with HEAD requests, falling back to GET for
// servers that refuse HEAD.
type Prober struct {
	client        *http.Client
	maxRetryAfter time.Duration
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithClient sets the HTTP client used for probes.
func WithClient(c *http.Client) ProberOption {
	return func(p *Prober) {
		p.client = c
	}
}

// WithMaxRetryAfter caps the Retry-After wait for rate-limited responses.
func WithMaxRetryAfter(d time.Duration) ProberOption {
	return func(p *Prober) {
		p.maxRetryAfter = d
	}
}

// NewProber creates a new Prober.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		client:        &http.Client{},
		maxRetryAfter: DefaultMaxRetryAfter,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe requests url and reports its final status after redirects.
// Transport failures are returned as errors.
func (p *Prober) Probe(ctx context.Context, url string, opts siteaudit.CheckOptions) (*siteaudit.LinkResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = siteaudit.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := http.MethodHead
	resp, err := p.do(ctx, method, url, opts.UserAgent)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		method = http.MethodGet
		if resp, err = p.do(ctx, method, url, opts.UserAgent); err != nil {
			return nil, err
		}
	}

	if opts.Retry && resp.StatusCode == http.StatusTooManyRequests {
		wait := retryAfter(resp.Header.Get("Retry-After"), time.Now(), p.maxRetryAfter)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		if resp, err = p.do(ctx, method, url, opts.UserAgent); err != nil {
			return nil, err
		}
	}

	return &siteaudit.LinkResult{
		URL:         url,
		State:       siteaudit.ClassifyStatus(resp.StatusCode),
		Status:      resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
	}, nil
}

// do sends a request and releases the body; only the headers are used.
func (p *Prober) do(ctx context.Context, method, url, userAgent string) (*http.Response, error) {
	req, err := newRequest(ctx, method, url, userAgent)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	discard(resp)
	return resp, nil
}

// retryAfter parses a Retry-After header (seconds or HTTP date).
// Missing or invalid values wait one second; the result is capped at limit.
func retryAfter(header string, now time.Time, limit time.Duration) time.Duration {
	wait := time.Second
	header = strings.TrimSpace(header)
	if secs, err := strconv.Atoi(header); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(header); err == nil {
		wait = t.Sub(now)
	}
	if wait < 0 {
		wait = 0
	}
	if wait > limit {
		wait = limit
	}
	return wait
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}
