// Package rod provides a headless Chrome implementation of
// siteaudit.PageFetcher for sites whose links are added by JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements siteaudit.PageFetcher at compile time.
var _ siteaudit.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	chrome      *Chrome
	timeout     time.Duration
	userAgent   string
	chromeFlags []string
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithChromeFlags passes extra command-line switches to Chrome.
func WithChromeFlags(flags ...string) Option {
	return func(f *Fetcher) {
		f.chromeFlags = append(f.chromeFlags, flags...)
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: siteaudit.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	chrome, err := StartChrome(WithFlags(f.chromeFlags...))
	if err != nil {
		return nil, err
	}
	f.chrome = chrome
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML, including
// open shadow roots so links inside web components are visible.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", siteaudit.Errorf(siteaudit.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.chrome.Page()
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", err
		}
	}
	if err := page.Navigate(url); err != nil {
		return "", wrapContextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", wrapContextErr(ctx, err)
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", wrapContextErr(ctx, err)
	}
	return res.Value.Str(), nil
}

// serializeJS returns the document HTML with open shadow roots inlined.
const serializeJS = `() => {
	const walk = (root) => {
		let out = '';
		for (const node of root.childNodes) {
			if (node.nodeType !== Node.ELEMENT_NODE) {
				out += node.nodeType === Node.TEXT_NODE ? node.textContent.replace(/&/g, '&amp;').replace(/</g, '&lt;') : '';
				continue;
			}
			const tag = node.tagName.toLowerCase();
			let attrs = '';
			for (const a of node.attributes) {
				attrs += ' ' + a.name + '="' + a.value.replace(/"/g, '&quot;') + '"';
			}
			const inner = (node.shadowRoot ? walk(node.shadowRoot) : '') + walk(node);
			out += '<' + tag + attrs + '>' + inner + '</' + tag + '>';
		}
		return out;
	};
	return '<!DOCTYPE html>' + walk(document);
}`

// wrapContextErr reports a context error instead of rod's own wrapping of it.
func wrapContextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.chrome.Close()
}

// PID returns the process ID of the Chrome launcher, or 0 once closed.
func (f *Fetcher) PID() int {
	return f.chrome.PID()
}
