package goquery

import (
	"net/url"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/PuerkitoBio/goquery"
)

// Layout identifies how a listing page presents its hotels.
type Layout string

// Supported layouts.
const (
	LayoutUnknown Layout = ""
	LayoutCards   Layout = "cards"
	LayoutLinks   Layout = "links"
)

// DetectLayout reports whether doc lists hotels as structured cards or as
// plain detail links. Cards win when both are present.
func DetectLayout(doc *goquery.Document) Layout {
	if doc == nil {
		return LayoutUnknown
	}
	if doc.Find(DefaultCardSelector).Length() > 0 {
		return LayoutCards
	}
	if doc.Find("a[href]").Length() > 0 {
		return LayoutLinks
	}
	return LayoutUnknown
}

var _ hotelscraper.Discoverer = (*AutoDiscoverer)(nil)

// AutoDiscoverer chooses a discoverer from the detected layout of each
// listing, falling back to link discovery when the layout is unknown or
// the card discoverer finds nothing.
type AutoDiscoverer struct {
	Cards hotelscraper.Discoverer
	Links hotelscraper.Discoverer
}

// NewAutoDiscoverer creates an AutoDiscoverer with the default card and
// link discoverers. Card detail URLs are built under the listing's own
// origin.
func NewAutoDiscoverer() *AutoDiscoverer {
	return &AutoDiscoverer{
		Links: NewLinkDiscoverer(),
		Cards: hotelscraper.DiscovererFunc(func(doc *hotelscraper.RenderedDocument) []string {
			return NewCardDiscoverer(origin(doc.URL)).Discover(doc)
		}),
	}
}

// Discover implements hotelscraper.Discoverer.
func (d *AutoDiscoverer) Discover(doc *hotelscraper.RenderedDocument) []string {
	if doc == nil || doc.Doc == nil {
		return nil
	}
	if DetectLayout(doc.Doc) == LayoutCards && d.Cards != nil {
		if urls := d.Cards.Discover(doc); len(urls) > 0 {
			return urls
		}
	}
	return d.Links.Discover(doc)
}

// origin returns scheme://host of rawURL, or rawURL itself if it does not
// parse.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}
