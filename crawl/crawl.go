// Package crawl sequences a scrape: it fetches a listing page, discovers
// detail pages on it and turns each one into a hotel record. It also
// provides the retrying fetcher and the per-host rate limiter the run
// relies on.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/96nitishkumar/hotelscraper"
)

// Defaults applied when the corresponding Orchestrator field is zero.
const (
	DefaultMaxCandidates = 11
	DefaultPacing        = 1500 * time.Millisecond
)

// Orchestrator drives one scrape run. Processing is strictly sequential:
// discovery, then one fetch and extract cycle per candidate in order.
type Orchestrator struct {
	Fetcher    hotelscraper.DocumentFetcher
	Discoverer hotelscraper.Discoverer
	Extractor  hotelscraper.Extractor
	Logger     *slog.Logger

	// MaxCandidates caps how many discovered candidates are attempted.
	// Failed candidates count against the cap.
	MaxCandidates int

	// Pacing is the fixed wait between successive detail-page fetches.
	// Negative disables it.
	Pacing time.Duration

	// Sleep replaces the pacing wait. Defaults to a context-aware timer.
	Sleep SleepFunc

	// Progress, if set, receives events as the run proceeds.
	Progress ProgressFunc
}

// Result holds the outcome of a run.
type Result struct {
	Records    []hotelscraper.HotelRecord
	Failures   []Failure
	Discovered int
}

// Failure records a candidate that produced no record.
type Failure struct {
	Index int
	URL   string
	Err   error
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Index     int
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Run scrapes the listing at listingURL. It never returns an error: a
// listing that cannot be fetched yields an empty result, and a candidate
// that cannot be fetched or read is recorded as a Failure while the run
// continues. The fetcher is closed before Run returns, whatever the
// outcome.
func (o *Orchestrator) Run(ctx context.Context, listingURL string) *Result {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defer func() {
		if err := o.Fetcher.Close(); err != nil {
			logger.Warn("closing fetcher", "err", err)
		}
	}()

	result := &Result{}

	listing, err := o.Fetcher.Fetch(ctx, listingURL)
	if err != nil {
		logger.Error("listing fetch failed", "url", listingURL, "err", err)
		o.notify(ProgressEvent{Type: ProgressFinished, URL: listingURL, Error: err})
		return result
	}

	urls := o.Discoverer.Discover(listing)
	result.Discovered = len(urls)
	total := min(len(urls), o.maxCandidates())
	logger.Info("discovered candidates",
		"url", listingURL,
		"discovered", len(urls),
		"processing", total,
	)
	o.notify(ProgressEvent{Type: ProgressStarted, Total: total, URL: listingURL})

	for i, u := range urls[:total] {
		if i > 0 {
			if err := o.pace(ctx); err != nil {
				logger.Warn("run interrupted", "index", i, "err", err)
				break
			}
		}

		rec, err := o.process(ctx, u)
		if err != nil {
			logger.Warn("candidate failed",
				"index", i,
				"url", u,
				"code", hotelscraper.ErrorCode(err),
				"err", err,
			)
			result.Failures = append(result.Failures, Failure{Index: i, URL: u, Err: err})
			o.notify(ProgressEvent{
				Type:      ProgressFailed,
				Index:     i,
				Completed: i + 1,
				Total:     total,
				URL:       u,
				Error:     err,
			})
			continue
		}

		result.Records = append(result.Records, rec)
		o.notify(ProgressEvent{
			Type:      ProgressCompleted,
			Index:     i,
			Completed: i + 1,
			Total:     total,
			URL:       u,
		})
	}

	logger.Info("run finished",
		"url", listingURL,
		"records", len(result.Records),
		"failures", len(result.Failures),
	)
	o.notify(ProgressEvent{
		Type:      ProgressFinished,
		Completed: len(result.Records) + len(result.Failures),
		Total:     total,
		URL:       listingURL,
	})
	return result
}

// process fetches one detail page and extracts its record.
func (o *Orchestrator) process(ctx context.Context, url string) (hotelscraper.HotelRecord, error) {
	doc, err := o.Fetcher.Fetch(ctx, url)
	if err != nil {
		return hotelscraper.HotelRecord{}, err
	}
	if doc == nil || doc.Doc == nil {
		return hotelscraper.HotelRecord{}, hotelscraper.Errorf(hotelscraper.EINTERNAL, "fetch %s returned no document", url)
	}

	fields, err := o.Extractor.Extract(doc)
	if err != nil {
		return hotelscraper.HotelRecord{}, err
	}
	rec := fields.Record(url)
	if err := rec.Validate(); err != nil {
		return hotelscraper.HotelRecord{}, err
	}
	return rec, nil
}

func (o *Orchestrator) pace(ctx context.Context) error {
	d := o.Pacing
	if d == 0 {
		d = DefaultPacing
	}
	if d < 0 {
		return ctx.Err()
	}
	sleep := o.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	return sleep(ctx, d)
}

func (o *Orchestrator) maxCandidates() int {
	if o.MaxCandidates <= 0 {
		return DefaultMaxCandidates
	}
	return o.MaxCandidates
}

func (o *Orchestrator) notify(e ProgressEvent) {
	if o.Progress != nil {
		o.Progress(e)
	}
}
