package main

import (
	"encoding/json"
	"fmt"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/crawl"
	"github.com/96nitishkumar/hotelscraper/prometheus"
	hsslog "github.com/96nitishkumar/hotelscraper/slog"
)

// pipeline is the source-specific part of a run.
type pipeline struct {
	source     hotelscraper.Fetcher
	discoverer hotelscraper.Discoverer
	extractor  hotelscraper.Extractor
}

// scrape runs the orchestrator over listingURL and writes one JSON record
// per line to stdout. Candidate failures are logged, not returned.
func scrape(deps *Dependencies, listingURL string, p pipeline) error {
	cfg := deps.Config
	if err := cfg.Policy.Validate(); err != nil {
		_ = p.source.Close()
		return err
	}
	logger := deps.Logger

	metrics := prometheus.NewMetrics()
	source := prometheus.NewInstrumentedFetcher(hsslog.NewLoggingFetcher(p.source, logger), metrics)

	opts := []crawl.RetryOption{
		crawl.WithPolicy(cfg.Policy),
		crawl.WithLogger(logger),
	}
	if cfg.RPS > 0 {
		opts = append(opts, crawl.WithLimiter(crawl.NewDomainLimiter(cfg.RPS)))
	}
	if deps.Sleep != nil {
		opts = append(opts, crawl.WithSleep(deps.Sleep))
	}

	o := &crawl.Orchestrator{
		Fetcher:       crawl.NewRetryingFetcher(source, opts...),
		Discoverer:    hsslog.NewLoggingDiscoverer(p.discoverer, logger),
		Extractor:     hsslog.NewLoggingExtractor(p.extractor, logger),
		Logger:        logger,
		MaxCandidates: cfg.MaxCandidates,
		Pacing:        cfg.Pacing,
		Sleep:         deps.Sleep,
		Progress:      metrics.ObserveProgress,
	}

	result := o.Run(deps.Ctx, listingURL)

	enc := json.NewEncoder(deps.Stdout)
	for _, rec := range result.Records {
		metrics.ObserveRecord(rec)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("writing metrics", "path", cfg.MetricsFile, "err", err)
		}
	}
	return nil
}
