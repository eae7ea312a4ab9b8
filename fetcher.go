package hotelscraper

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher performs a single retrieval attempt for a URL using the given
// outbound identity and returns the raw markup.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL once. The context carries the per-attempt
	// request timeout. Non-success statuses are returned as errors.
	Fetch(ctx context.Context, url string, id Identity) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DocumentFetcher performs one logical "get rendered document for URL"
// operation, including any retries.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*RenderedDocument, error)
	Close() error
}

// RenderedDocument is the parsed markup tree for one fetched URL.
type RenderedDocument struct {
	URL string
	Doc *goquery.Document
}

// RetryPolicy controls how many times a fetch is attempted and how long to
// wait between attempts.
type RetryPolicy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	RequestTimeout    time.Duration
	BackoffMultiplier float64

	// Jitter, when positive, adds a random delay in [0, Jitter) to each backoff.
	Jitter time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured:
// 3 attempts, 2s linear backoff and a 30s request timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         2 * time.Second,
		RequestTimeout:    30 * time.Second,
		BackoffMultiplier: 1,
	}
}

// Validate returns an error if the policy cannot be executed.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return Errorf(EINVALID, "max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.BaseDelay < 0 {
		return Errorf(EINVALID, "base delay must not be negative")
	}
	if p.RequestTimeout < 0 {
		return Errorf(EINVALID, "request timeout must not be negative")
	}
	return nil
}

// Delay returns the backoff to wait after the given failed attempt (1-based)
// before the next one. It grows linearly with the attempt number.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	m := p.BackoffMultiplier
	if m <= 0 {
		m = 1
	}
	return time.Duration(float64(p.BaseDelay) * float64(attempt) * m)
}

// Readiness describes when an asynchronously populated page is ready to be
// read: the loading indicator is gone and at least one content element exists.
type Readiness struct {
	LoadingSelector  string
	ContentSelectors []string
	Interval         time.Duration
	Timeout          time.Duration
}

// DefaultReadiness returns the readiness condition for listing and detail
// pages of the dynamic source.
func DefaultReadiness() Readiness {
	return Readiness{
		LoadingSelector:  ".skeleton-loader, [data-loading='true']",
		ContentSelectors: []string{"[data-property-card]", ".property-card", ".hotel-info"},
		Interval:         500 * time.Millisecond,
		Timeout:          20 * time.Second,
	}
}
