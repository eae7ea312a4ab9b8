package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/PuerkitoBio/goquery"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Ensure RetryingFetcher implements hotelscraper.DocumentFetcher at compile time.
var _ hotelscraper.DocumentFetcher = (*RetryingFetcher)(nil)

// RetryingFetcher turns single-attempt retrieval into a bounded, paced
// fetch of a parsed document. Every attempt presents a fresh identity from
// the pool. Timeouts and transport errors are retried with linear backoff;
// parse failures are not.
type RetryingFetcher struct {
	fetcher    hotelscraper.Fetcher
	policy     hotelscraper.RetryPolicy
	identities *hotelscraper.IdentityPool
	limiter    hotelscraper.DomainLimiter
	logger     *slog.Logger
	sleep      SleepFunc
	jitter     func(bound time.Duration) time.Duration
}

// RetryOption configures a RetryingFetcher.
type RetryOption func(*RetryingFetcher)

// WithPolicy sets the retry policy.
// Defaults to hotelscraper.DefaultRetryPolicy() if not specified.
func WithPolicy(p hotelscraper.RetryPolicy) RetryOption {
	return func(f *RetryingFetcher) {
		f.policy = p
	}
}

// WithIdentityPool sets the pool identities are drawn from.
func WithIdentityPool(p *hotelscraper.IdentityPool) RetryOption {
	return func(f *RetryingFetcher) {
		f.identities = p
	}
}

// WithLimiter makes every attempt wait on the limiter for the URL's host.
func WithLimiter(l hotelscraper.DomainLimiter) RetryOption {
	return func(f *RetryingFetcher) {
		f.limiter = l
	}
}

// WithLogger sets the logger for retry and terminal failure events.
func WithLogger(l *slog.Logger) RetryOption {
	return func(f *RetryingFetcher) {
		f.logger = l
	}
}

// WithSleep replaces the backoff sleep. Useful for testing without
// waiting for real delays.
func WithSleep(fn SleepFunc) RetryOption {
	return func(f *RetryingFetcher) {
		f.sleep = fn
	}
}

// WithJitter replaces the jitter source. fn receives the policy's Jitter
// bound and returns the extra delay to add.
func WithJitter(fn func(bound time.Duration) time.Duration) RetryOption {
	return func(f *RetryingFetcher) {
		f.jitter = fn
	}
}

// NewRetryingFetcher wraps fetcher with retries.
func NewRetryingFetcher(fetcher hotelscraper.Fetcher, opts ...RetryOption) *RetryingFetcher {
	f := &RetryingFetcher{
		fetcher:    fetcher,
		policy:     hotelscraper.DefaultRetryPolicy(),
		identities: hotelscraper.NewIdentityPool(),
		logger:     slog.New(slog.DiscardHandler),
		sleep:      sleepCtx,
		jitter:     randomJitter,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves and parses url, making at most policy.MaxAttempts
// attempts. When every attempt fails the returned error carries the code of
// the last failure (ETIMEOUT or ETRANSPORT).
func (f *RetryingFetcher) Fetch(ctx context.Context, rawURL string) (*hotelscraper.RenderedDocument, error) {
	maxAttempts := max(f.policy.MaxAttempts, 1)
	host := hostOf(rawURL)

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, host); err != nil {
				return nil, err
			}
		}

		attempts++
		html, err := f.attempt(ctx, rawURL, f.identities.Next())
		if err == nil {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, hotelscraper.WrapError(hotelscraper.EPARSE, err, "parse %s", rawURL)
			}
			return &hotelscraper.RenderedDocument{URL: rawURL, Doc: doc}, nil
		}
		lastErr = err

		// The caller gave up; don't count this against the URL.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !hotelscraper.IsRetryable(err) || attempt == maxAttempts {
			break
		}

		delay := f.backoff(attempt)
		f.logger.Warn("fetch attempt failed",
			"url", rawURL,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"retry_in", delay,
			"err", err,
		)
		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	f.logger.Error("fetch failed",
		"url", rawURL,
		"attempts", attempts,
		"err", lastErr,
	)
	return nil, &hotelscraper.Error{
		Code:    hotelscraper.ErrorCode(lastErr),
		Message: fmt.Sprintf("fetch %s failed after %d attempt(s)", rawURL, attempts),
		Err:     lastErr,
	}
}

// Close releases the underlying fetcher's resources.
func (f *RetryingFetcher) Close() error {
	return f.fetcher.Close()
}

// attempt performs one retrieval under the policy's request timeout and
// classifies any error that the fetcher left unclassified.
func (f *RetryingFetcher) attempt(ctx context.Context, rawURL string, id hotelscraper.Identity) (string, error) {
	actx := ctx
	if f.policy.RequestTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, f.policy.RequestTimeout)
		defer cancel()
	}

	html, err := f.fetcher.Fetch(actx, rawURL, id)
	if err == nil {
		return html, nil
	}
	if hotelscraper.ErrorCode(err) != hotelscraper.EINTERNAL {
		return "", err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "", hotelscraper.WrapError(hotelscraper.ETIMEOUT, err, "%s did not respond in time", rawURL)
	}
	return "", hotelscraper.WrapError(hotelscraper.ETRANSPORT, err, "fetch %s", rawURL)
}

// backoff returns the wait after the given failed attempt.
func (f *RetryingFetcher) backoff(attempt int) time.Duration {
	d := f.policy.Delay(attempt)
	if f.policy.Jitter > 0 && f.jitter != nil {
		d += f.jitter(f.policy.Jitter)
	}
	return d
}

func randomJitter(bound time.Duration) time.Duration {
	if bound <= 0 {
		return 0
	}
	return rand.N(bound)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
