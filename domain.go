package siteaudit

import (
	"net/url"
	"strings"
)

// NormalizeDomain turns a domain entry into an origin URL (scheme + host).
// Entries without a scheme default to http://.
func NormalizeDomain(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Errorf(EINVALID, "empty domain")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", Errorf(EINVALID, "invalid domain %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "invalid domain %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "invalid domain %q: missing host", raw)
	}

	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}

// NormalizeDomains normalizes a domain list, dropping duplicates while
// keeping the order of first occurrence.
func NormalizeDomains(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	domains := make([]string, 0, len(raw))
	for _, r := range raw {
		d, err := NormalizeDomain(r)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		domains = append(domains, d)
	}
	return domains, nil
}
