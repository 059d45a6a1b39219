package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of siteaudit.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ siteaudit.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of siteaudit.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *siteaudit.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *siteaudit.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
