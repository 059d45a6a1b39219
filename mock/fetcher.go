package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of siteaudit.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *PageFetcher) Close() error {
	return f.CloseFn()
}
