// Package http provides net/http implementations of the link prober, the
// static page fetcher and the sitemap service.
package http

import (
	"context"
	"io"
	"net/http"

	"github.com/fwojciec/siteaudit"
)

// MaxBodySize caps how much of a response body is read (10 MiB).
const MaxBodySize = 10 << 20

// newRequest builds a request carrying the configured user agent.
func newRequest(ctx context.Context, method, url, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent == "" {
		userAgent = siteaudit.DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// discard drains and closes a response body so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
	resp.Body.Close()
}
