package mock

import "github.com/96nitishkumar/hotelscraper"

var _ hotelscraper.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of hotelscraper.Extractor.
type Extractor struct {
	ExtractFn func(doc *hotelscraper.RenderedDocument) (hotelscraper.Fields, error)
}

func (e *Extractor) Extract(doc *hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
	return e.ExtractFn(doc)
}
