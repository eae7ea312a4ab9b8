package hotelscraper

import (
	"maps"
	"math/rand/v2"
)

// Identity is the outbound client identity used for one fetch attempt.
type Identity struct {
	UserAgent string
	Headers   map[string]string
}

// DefaultUserAgents is the fixed pool of desktop browser user agents.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_2) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// DefaultHeaders are sent with every request alongside the user agent.
var DefaultHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
	"DNT":                       "1",
}

// IdentityPool hands out identities drawn from a fixed set of user agents.
// Select picks an index in [0, n); it defaults to a uniform random choice
// and may be replaced in tests.
type IdentityPool struct {
	UserAgents []string
	Headers    map[string]string
	Select     func(n int) int
}

// NewIdentityPool returns a pool over DefaultUserAgents and DefaultHeaders.
func NewIdentityPool() *IdentityPool {
	return &IdentityPool{
		UserAgents: DefaultUserAgents,
		Headers:    DefaultHeaders,
	}
}

// Next returns a fresh identity. The returned header map is a copy and may
// be modified by the caller.
func (p *IdentityPool) Next() Identity {
	id := Identity{Headers: maps.Clone(p.Headers)}
	if id.Headers == nil {
		id.Headers = make(map[string]string)
	}
	if n := len(p.UserAgents); n > 0 {
		sel := p.Select
		if sel == nil {
			sel = rand.IntN
		}
		id.UserAgent = p.UserAgents[sel(n)]
	}
	return id
}
