package crawl

import (
	"strings"
	"sync"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/bloom"
)

// Compile-time interface verification.
var _ siteaudit.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL queue with exact deduplication.
// Links are popped in the order they were first pushed, which keeps the
// crawl breadth-first and the report in discovery order.
//
// A Bloom filter answers lookups of URLs that were never seen without
// touching the set; the set alone decides, so a distinct URL is never
// rejected however far the filter is overfilled.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu     sync.Mutex
	filter *bloom.Filter
	seen   map[string]struct{}
	queue  []siteaudit.DiscoveredLink
}

// NewFrontier creates a new Frontier sized for n expected URLs; fpRate
// sizes the Bloom filter.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		filter: bloom.NewFilter(n, fpRate),
		seen:   make(map[string]struct{}, n),
	}
}

// seenLocked reports whether url was recorded. Must be called with mu held.
func (f *Frontier) seenLocked(url string) bool {
	if !f.filter.Test(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}

// addLocked records url. Must be called with mu held.
func (f *Frontier) addLocked(url string) {
	f.filter.Add(url)
	f.seen[url] = struct{}{}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen.
// URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(link siteaudit.DiscoveredLink) bool {
	link.URL = StripFragment(link.URL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seenLocked(link.URL) {
		return false
	}
	f.addLocked(link.URL)
	f.queue = append(f.queue, link)
	return true
}

// MarkSeen records a URL as processed without queueing it.
func (f *Frontier) MarkSeen(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addLocked(StripFragment(rawURL))
}

// Pop returns the oldest queued link.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (siteaudit.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return siteaudit.DiscoveredLink{}, false
	}
	link := f.queue[0]
	f.queue[0] = siteaudit.DiscoveredLink{}
	f.queue = f.queue[1:]
	return link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seenLocked(StripFragment(rawURL))
}

// StripFragment removes the #fragment part of a URL.
func StripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
