package prometheus

import (
	"context"
	"time"

	"github.com/96nitishkumar/hotelscraper"
)

// Ensure InstrumentedFetcher implements hotelscraper.Fetcher.
var _ hotelscraper.Fetcher = (*InstrumentedFetcher)(nil)

// InstrumentedFetcher wraps a Fetcher and records every attempt.
type InstrumentedFetcher struct {
	next    hotelscraper.Fetcher
	metrics *Metrics
}

// NewInstrumentedFetcher creates a new InstrumentedFetcher.
func NewInstrumentedFetcher(next hotelscraper.Fetcher, m *Metrics) *InstrumentedFetcher {
	return &InstrumentedFetcher{next: next, metrics: m}
}

// Fetch delegates to the wrapped fetcher and observes the attempt.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, url string, id hotelscraper.Identity) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.ObserveFetch(err, time.Since(begin))
	}(time.Now())
	return f.next.Fetch(ctx, url, id)
}

// Close delegates to the wrapped fetcher.
func (f *InstrumentedFetcher) Close() error {
	return f.next.Close()
}
