package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.LinkChecker = (*LinkChecker)(nil)

// LinkChecker is a mock implementation of siteaudit.LinkChecker.
type LinkChecker struct {
	CheckFn func(ctx context.Context, target string, opts siteaudit.CheckOptions) ([]*siteaudit.LinkResult, error)
}

func (c *LinkChecker) Check(ctx context.Context, target string, opts siteaudit.CheckOptions) ([]*siteaudit.LinkResult, error) {
	return c.CheckFn(ctx, target, opts)
}

var _ siteaudit.LinkProber = (*LinkProber)(nil)

// LinkProber is a mock implementation of siteaudit.LinkProber.
type LinkProber struct {
	ProbeFn func(ctx context.Context, url string, opts siteaudit.CheckOptions) (*siteaudit.LinkResult, error)
}

func (p *LinkProber) Probe(ctx context.Context, url string, opts siteaudit.CheckOptions) (*siteaudit.LinkResult, error) {
	return p.ProbeFn(ctx, url, opts)
}

var _ siteaudit.LinkRetrier = (*LinkRetrier)(nil)

// LinkRetrier is a mock implementation of siteaudit.LinkRetrier.
type LinkRetrier struct {
	RetryBrokenFn func(ctx context.Context, links []*siteaudit.LinkResult) ([]*siteaudit.LinkResult, error)
}

func (r *LinkRetrier) RetryBroken(ctx context.Context, links []*siteaudit.LinkResult) ([]*siteaudit.LinkResult, error) {
	return r.RetryBrokenFn(ctx, links)
}

var _ siteaudit.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of siteaudit.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]siteaudit.DiscoveredLink, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]siteaudit.DiscoveredLink, error) {
	return e.ExtractLinksFn(html, baseURL)
}
