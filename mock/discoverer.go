package mock

import "github.com/96nitishkumar/hotelscraper"

var _ hotelscraper.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of hotelscraper.Discoverer.
type Discoverer struct {
	DiscoverFn func(doc *hotelscraper.RenderedDocument) []string
}

func (d *Discoverer) Discover(doc *hotelscraper.RenderedDocument) []string {
	return d.DiscoverFn(doc)
}
