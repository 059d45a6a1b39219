package siteaudit

// DiscoveredLink is a URL found on a page.
type DiscoveredLink struct {
	URL       string
	ParentURL string

	// Tag is the element the link was found on (a, img, script, ...).
	Tag string
}

// LinkExtractor extracts every referenced URL from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns the links it references,
	// resolved against baseURL, in document order.
	ExtractLinks(html string, baseURL string) ([]DiscoveredLink, error)
}
