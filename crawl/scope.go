package crawl

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ScopeMode selects which URLs count as part of the audited site.
type ScopeMode string

// Scope modes.
const (
	// ScopeHost follows pages on the exact target host only.
	ScopeHost ScopeMode = "host"
	// ScopeSite follows pages on any host sharing the target's
	// registrable domain (www.example.com and blog.example.com).
	ScopeSite ScopeMode = "site"
)

// Scope decides whether a page belongs to the audited site and should
// have its links followed.
type Scope struct {
	mode ScopeMode
	host string
	site string
}

// NewScope returns the scope of target under the given mode.
func NewScope(target string, mode ScopeMode) (*Scope, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid target URL %q: missing host", target)
	}
	if mode == "" {
		mode = ScopeSite
	}

	host := strings.ToLower(u.Hostname())
	return &Scope{
		mode: mode,
		host: host,
		site: registrableDomain(host),
	}, nil
}

// Contains reports whether rawURL is an http(s) URL inside the scope.
func (s *Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || !IsHTTP(u) {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if s.mode == ScopeHost {
		return host == s.host
	}
	return registrableDomain(host) == s.site
}

// IsHTTP reports whether u is an absolute http or https URL.
func IsHTTP(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// registrableDomain returns eTLD+1 for host, or host itself for IPs,
// localhost and public suffixes.
func registrableDomain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
