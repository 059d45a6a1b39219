// Package goquery provides a goquery-based implementation of
// siteaudit.LinkExtractor.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// LinkAttr names an element and the attribute holding its URL.
type LinkAttr struct {
	Tag  string
	Attr string
}

// DefaultLinkAttrs are the elements whose URLs are checked: page links,
// stylesheets and icons, images, scripts, frames and media sources.
var DefaultLinkAttrs = []LinkAttr{
	{Tag: "a", Attr: "href"},
	{Tag: "link", Attr: "href"},
	{Tag: "img", Attr: "src"},
	{Tag: "script", Attr: "src"},
	{Tag: "iframe", Attr: "src"},
	{Tag: "source", Attr: "src"},
	{Tag: "video", Attr: "src"},
	{Tag: "audio", Attr: "src"},
}

var _ siteaudit.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts referenced URLs from HTML documents.
type LinkExtractor struct {
	// Attrs lists the elements to read. Nil means DefaultLinkAttrs.
	Attrs []LinkAttr
}

// NewLinkExtractor returns an extractor for DefaultLinkAttrs.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns every URL referenced by the document, resolved
// against the document's <base href> or baseURL, without fragments and
// without duplicates, in document order. Links to the page itself are
// dropped. Non-HTTP links (mailto:, tel:, ...) are returned as written.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]siteaudit.DiscoveredLink, error) {
	page, err := url.Parse(baseURL)
	if err != nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "failed to parse HTML: %v", err)
	}

	base := page
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = page.ResolveReference(ref)
		}
	}

	attrs := e.Attrs
	if attrs == nil {
		attrs = DefaultLinkAttrs
	}

	byTag := make(map[string]string, len(attrs))
	selectors := make([]string, 0, len(attrs))
	for _, a := range attrs {
		byTag[a.Tag] = a.Attr
		selectors = append(selectors, a.Tag+"["+a.Attr+"]")
	}

	self := stripFragment(page)
	seen := make(map[string]bool)
	var links []siteaudit.DiscoveredLink

	// A single combined selection keeps document order across tags.
	doc.Find(strings.Join(selectors, ", ")).Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		raw, _ := sel.Attr(byTag[tag])
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}

		resolved := raw
		if !isNonHTTPLink(raw) {
			ref, err := url.Parse(raw)
			if err != nil {
				return
			}
			resolved = stripFragment(base.ResolveReference(ref))
			if resolved == self {
				return
			}
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, siteaudit.DiscoveredLink{
			URL:       resolved,
			ParentURL: baseURL,
			Tag:       tag,
		})
	})

	return links, nil
}

func stripFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}

// isNonHTTPLink checks if a href uses a scheme that cannot be probed.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
