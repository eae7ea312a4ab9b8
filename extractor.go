package hotelscraper

// Extractor reads the target fields from one rendered detail document.
type Extractor interface {
	// Extract returns the fields found on the page. A field that cannot be
	// found is nil, not an error. An error is returned only when the
	// document itself is missing.
	Extract(doc *RenderedDocument) (Fields, error)
}
