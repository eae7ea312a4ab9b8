package slog

import (
	"log/slog"
	"time"

	"github.com/96nitishkumar/hotelscraper"
)

// Ensure LoggingDiscoverer implements hotelscraper.Discoverer.
var _ hotelscraper.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   hotelscraper.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next hotelscraper.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs how many URLs it found.
func (d *LoggingDiscoverer) Discover(doc *hotelscraper.RenderedDocument) (urls []string) {
	var src string
	if doc != nil {
		src = doc.URL
	}
	defer func(begin time.Time) {
		d.logger.Info("discovery",
			"url", src,
			"count", len(urls),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return d.next.Discover(doc)
}
