// Package crawl provides the site link checker. It walks a site from its
// root page, probes every referenced URL and reports the broken ones.
package crawl

import (
	"context"
	"mime"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/siteaudit"
)

// Crawl defaults.
const (
	// DefaultConcurrency matches the links-only audit.
	DefaultConcurrency = 10
	// DefaultMaxURLs bounds the number of URLs probed per site.
	DefaultMaxURLs = 5000

	frontierFalsePositiveRate = 0.001
)

var _ siteaudit.LinkChecker = (*Checker)(nil)

// Checker crawls a site for broken links.
type Checker struct {
	Prober    siteaudit.LinkProber
	Fetcher   siteaudit.PageFetcher
	Extractor siteaudit.LinkExtractor

	// Sitemaps, if set, seeds recursive crawls with the site's sitemap URLs.
	Sitemaps siteaudit.SitemapService

	// RateLimiter, if set, throttles requests per host.
	RateLimiter siteaudit.DomainLimiter

	// Filter limits which discovered URLs are probed. Filtered links are
	// skipped, never reported.
	Filter *siteaudit.URLFilter

	Scope   ScopeMode
	MaxURLs int

	// Progress, if set, is called on the coordinator goroutine.
	Progress ProgressFunc
}

// EventType identifies a crawl progress event.
type EventType int

// Crawl events.
const (
	// EventPage is emitted for each page whose links were extracted.
	EventPage EventType = iota
	// EventLink is emitted for each broken link found.
	EventLink
	// EventSkip is emitted for each link not probed.
	EventSkip
)

// Event reports crawl progress.
type Event struct {
	Type   EventType
	URL    string
	Parent string
	Status int
	Err    error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event Event)

// Check crawls target and returns its broken links in discovery order.
//
// The root page is always probed and its links extracted. Other pages are
// followed only when opts.Recurse is set and they are inside the site's
// scope. An error is returned when the root page cannot be reached at all.
func (c *Checker) Check(ctx context.Context, target string, opts siteaudit.CheckOptions) ([]*siteaudit.LinkResult, error) {
	scope, err := NewScope(target, c.Scope)
	if err != nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "%v", err)
	}

	maxURLs := c.MaxURLs
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}

	s := &checkState{
		checker: c,
		target:  target,
		scope:   scope,
		opts:    opts,
		bodies:  make(map[uint64]bool),
	}

	root := s.process(ctx, walkItem{seq: 0, link: siteaudit.DiscoveredLink{URL: target}})
	if root.err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, siteaudit.Errorf(siteaudit.EUNAVAILABLE, "cannot reach %s: %v", target, root.err)
	}

	frontier := NewFrontier(uint(maxURLs), frontierFalsePositiveRate)
	frontier.MarkSeen(target)
	if !strings.HasSuffix(target, "/") {
		frontier.MarkSeen(target + "/")
	}
	s.handle(frontier, &root)

	if opts.Recurse && c.Sitemaps != nil {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, target, c.Filter)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		for _, u := range urls {
			if scope.Contains(u) {
				frontier.Push(siteaudit.DiscoveredLink{URL: u, ParentURL: target, Tag: "sitemap"})
			}
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	handle := func(res *walkResult) { s.handle(frontier, res) }
	if _, err := walkFrontier(ctx, frontier, concurrency, maxURLs-1, 1, s.process, handle); err != nil {
		return nil, err
	}

	sort.SliceStable(s.broken, func(i, j int) bool {
		return s.broken[i].seq < s.broken[j].seq
	})
	results := make([]*siteaudit.LinkResult, len(s.broken))
	for i, b := range s.broken {
		results[i] = b.result
	}
	return results, nil
}

type brokenLink struct {
	seq    int
	result *siteaudit.LinkResult
}

// checkState holds the state of a single Check call. Fields below mu are
// shared by workers; the rest is owned by the coordinator.
type checkState struct {
	checker *Checker
	target  string
	scope   *Scope
	opts    siteaudit.CheckOptions
	broken  []brokenLink

	mu     sync.Mutex
	bodies map[uint64]bool
}

// process probes one link and, for pages that should be followed,
// extracts the links it references.
func (s *checkState) process(ctx context.Context, item walkItem) walkResult {
	res := walkResult{seq: item.seq, link: item.link}
	c := s.checker

	u, err := url.Parse(item.link.URL)
	if err != nil {
		res.err = err
		return res
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			res.err = err
			return res
		}
	}

	probed, err := c.Prober.Probe(ctx, item.link.URL, s.opts)
	if err != nil {
		res.err = err
		return res
	}
	res.result = probed

	isRoot := item.seq == 0
	if !isRoot && (!s.opts.Recurse || !s.scope.Contains(item.link.URL)) {
		return res
	}
	if siteaudit.ClassifyStatus(probed.Status) != siteaudit.LinkOK || !isHTML(probed.ContentType) {
		return res
	}

	html, err := c.Fetcher.Fetch(ctx, item.link.URL)
	if err != nil {
		// The link itself is fine; its page just cannot be followed.
		return res
	}
	if !s.firstBody(html) {
		return res
	}

	links, err := c.Extractor.ExtractLinks(html, item.link.URL)
	if err != nil {
		return res
	}
	res.page = true
	res.discovered = links
	return res
}

// firstBody records the page body hash and reports whether it is new.
func (s *checkState) firstBody(html string) bool {
	h := xxhash.Sum64String(html)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bodies[h] {
		return false
	}
	s.bodies[h] = true
	return true
}

// handle records a probe outcome and queues newly discovered links.
func (s *checkState) handle(frontier *Frontier, res *walkResult) {
	result := res.result
	if res.err != nil {
		result = &siteaudit.LinkResult{
			URL:    res.link.URL,
			Status: siteaudit.StatusUnknown,
		}
	}
	result.SourceDomain = s.target
	result.ParentURL = res.link.ParentURL
	result.State = siteaudit.ClassifyStatus(result.Status)

	if result.IsBroken() {
		s.broken = append(s.broken, brokenLink{seq: res.seq, result: result})
		s.emit(Event{Type: EventLink, URL: result.URL, Parent: result.ParentURL, Status: result.Status, Err: res.err})
	}
	if res.page {
		s.emit(Event{Type: EventPage, URL: res.link.URL})
	}

	for _, link := range res.discovered {
		u, err := url.Parse(link.URL)
		if err != nil || !IsHTTP(u) || !s.checker.Filter.Match(link.URL) {
			s.emit(Event{Type: EventSkip, URL: link.URL, Parent: link.ParentURL})
			continue
		}
		frontier.Push(link)
	}
}

func (s *checkState) emit(e Event) {
	if s.checker.Progress != nil {
		s.checker.Progress(e)
	}
}

// isHTML reports whether a content type denotes an HTML document.
func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(contentType))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
