// Package goquery implements listing discovery and detail-page field
// extraction on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/PuerkitoBio/goquery"
)

// DefaultLinkKeywords are the path fragments that mark an anchor as a
// candidate hotel link on a static listing page.
var DefaultLinkKeywords = []string{"/hotels/", "/hotel/", "/search/", "/travel/", "/locations/"}

// DefaultDetailPattern matches the path of a hotel detail page.
var DefaultDetailPattern = regexp.MustCompile(`(?i)/overview/?$`)

var _ hotelscraper.Discoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer finds detail-page URLs among the anchors of a static
// listing page.
type LinkDiscoverer struct {
	Keywords      []string
	DetailPattern *regexp.Regexp
}

// NewLinkDiscoverer creates a LinkDiscoverer with the default keywords and
// detail pattern.
func NewLinkDiscoverer() *LinkDiscoverer {
	return &LinkDiscoverer{
		Keywords:      DefaultLinkKeywords,
		DetailPattern: DefaultDetailPattern,
	}
}

// Discover returns the detail-page URLs of doc, resolved against the
// document's own URL.
func (d *LinkDiscoverer) Discover(doc *hotelscraper.RenderedDocument) []string {
	if doc == nil || doc.Doc == nil {
		return nil
	}
	return d.DiscoverLinks(doc.Doc, doc.URL)
}

// DiscoverLinks scans anchors whose path contains one of the keywords,
// resolves them against baseURL and keeps those matching the detail
// pattern. Each URL appears once, in the order it was first seen.
func (d *LinkDiscoverer) DiscoverLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		u := resolveURL(base, href)
		if u == nil {
			return
		}
		if !d.matchesKeyword(u.Path) {
			return
		}
		if d.DetailPattern != nil && !d.DetailPattern.MatchString(u.Path) {
			return
		}

		s := u.String()
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		links = append(links, s)
	})

	return links
}

func (d *LinkDiscoverer) matchesKeyword(path string) bool {
	if len(d.Keywords) == 0 {
		return true
	}
	path = strings.ToLower(path)
	for _, kw := range d.Keywords {
		if strings.Contains(path, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base and strips the fragment.
// Relative hrefs without a usable base yield nil.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	if !ref.IsAbs() {
		if base == nil {
			return nil
		}
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return nil
	}
	ref.Fragment = ""
	return ref
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
