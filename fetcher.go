package siteaudit

import "context"

// PageFetcher retrieves page HTML so that links can be extracted from it.
// Implementations may use browser automation to handle JavaScript-rendered content.
type PageFetcher interface {
	// Fetch retrieves the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
