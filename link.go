package siteaudit

import (
	"context"
	"time"
)

// StatusUnknown is recorded when no HTTP status could be obtained for a link,
// e.g. on timeouts or reset connections.
const StatusUnknown = 0

// Crawl defaults.
const (
	DefaultTimeout   = 100 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0"
)

// LinkState classifies a checked link.
type LinkState string

// Link states.
const (
	LinkOK      LinkState = "OK"
	LinkBroken  LinkState = "BROKEN"
	LinkSkipped LinkState = "SKIPPED"
)

// ClassifyStatus maps an HTTP status to a link state.
// Anything outside 2xx/3xx, including StatusUnknown, is broken.
func ClassifyStatus(status int) LinkState {
	if status >= 200 && status < 400 {
		return LinkOK
	}
	return LinkBroken
}

// LinkResult is the outcome of checking a single discovered link.
type LinkResult struct {
	SourceDomain string
	URL          string
	ParentURL    string
	State        LinkState
	Status       int
	ContentType  string

	// Attempts is the number of re-check attempts made after the crawl.
	Attempts int
}

// IsBroken reports whether the link was classified as broken.
func (r *LinkResult) IsBroken() bool {
	return r.State == LinkBroken
}

// IsAmbiguous reports whether the link is broken without a definitive status.
func (r *LinkResult) IsAmbiguous() bool {
	return r.IsBroken() && r.Status == StatusUnknown
}

// AssetType returns the content type reported for the link, or "unknown".
func (r *LinkResult) AssetType() string {
	if r.ContentType == "" {
		return "unknown"
	}
	return r.ContentType
}

// CheckOptions configures a link check.
type CheckOptions struct {
	// Recurse follows discovered same-site pages.
	Recurse bool

	// Concurrency is the number of simultaneous requests within one check.
	Concurrency int

	// Retry retries rate-limited (429) responses after their Retry-After delay.
	Retry bool

	// Timeout bounds each request.
	Timeout time.Duration

	UserAgent string
}

// LinkChecker crawls a site and reports its broken links.
type LinkChecker interface {
	// Check crawls target and returns the links classified as broken,
	// in discovery order. OK and skipped links are not returned.
	// Returns an error if the target itself cannot be reached.
	Check(ctx context.Context, target string, opts CheckOptions) ([]*LinkResult, error)
}

// LinkProber checks a single URL without following it.
type LinkProber interface {
	// Probe requests the URL and returns its status and content type.
	// Transport failures (DNS, refused connections, timeouts) are returned
	// as errors; callers treat them as StatusUnknown.
	Probe(ctx context.Context, url string, opts CheckOptions) (*LinkResult, error)
}

// LinkRetrier re-checks broken links whose status could not be determined.
type LinkRetrier interface {
	// RetryBroken returns one record per input record, in input order.
	RetryBroken(ctx context.Context, links []*LinkResult) ([]*LinkResult, error)
}
