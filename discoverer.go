package hotelscraper

// Discoverer finds candidate detail-page URLs in a listing document.
// URLs are returned in listing order without duplicates.
type Discoverer interface {
	Discover(doc *RenderedDocument) []string
}

// DiscovererFunc adapts a plain function to the Discoverer interface.
type DiscovererFunc func(doc *RenderedDocument) []string

// Discover calls f(doc).
func (f DiscovererFunc) Discover(doc *RenderedDocument) []string {
	return f(doc)
}
