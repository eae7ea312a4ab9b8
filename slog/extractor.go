package slog

import (
	"log/slog"
	"time"

	"github.com/96nitishkumar/hotelscraper"
)

// Ensure LoggingExtractor implements hotelscraper.Extractor.
var _ hotelscraper.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs which fields were found.
type LoggingExtractor struct {
	next   hotelscraper.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next hotelscraper.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(doc *hotelscraper.RenderedDocument) (f hotelscraper.Fields, err error) {
	var src string
	if doc != nil {
		src = doc.URL
	}
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"url", src,
			"name", f.Name != nil,
			"address", f.Address != nil,
			"phone", f.Phone != nil,
			"email", f.Email != nil,
			"geo", f.Latitude != nil && f.Longitude != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(doc)
}
