// Package slog provides log/slog decorators for the scraper's services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/96nitishkumar/hotelscraper"
)

// Ensure LoggingFetcher implements hotelscraper.Fetcher.
var _ hotelscraper.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-attempt debug logging.
type LoggingFetcher struct {
	next   hotelscraper.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next hotelscraper.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the attempt and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, id hotelscraper.Identity) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"user_agent", id.UserAgent,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url, id)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
