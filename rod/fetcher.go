// Package rod fetches dynamically rendered pages with a headless browser
// driven by github.com/go-rod/rod.
package rod

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements hotelscraper.Fetcher at compile time.
var _ hotelscraper.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML through a browser Session. Each call opens
// a fresh tab that presents the given identity, waits for the page to load
// and become ready, and returns the serialized DOM.
type Fetcher struct {
	session   *Session
	readiness hotelscraper.Readiness
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	readiness hotelscraper.Readiness
	session   []SessionOption
}

// WithReadiness sets the condition a page must meet before its HTML is read.
// Defaults to hotelscraper.DefaultReadiness().
func WithReadiness(r hotelscraper.Readiness) FetcherOption {
	return func(c *fetcherConfig) {
		c.readiness = r
	}
}

// WithSessionOptions passes options to the browser Session.
func WithSessionOptions(opts ...SessionOption) FetcherOption {
	return func(c *fetcherConfig) {
		c.session = append(c.session, opts...)
	}
}

// NewFetcher opens a browser Session and returns a Fetcher that owns it.
// Closing the Fetcher closes the session. Returns an error if Chrome or
// Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	cfg := fetcherConfig{readiness: hotelscraper.DefaultReadiness()}
	for _, opt := range opts {
		opt(&cfg)
	}

	session, err := OpenSession(cfg.session...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{session: session, readiness: cfg.readiness}, nil
}

// Fetch navigates to url as id and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string, id hotelscraper.Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.session.Page(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      id.UserAgent,
		AcceptLanguage: id.Headers["Accept-Language"],
	}); err != nil {
		return "", classify(ctx, err, "set identity for %s", url)
	}
	if pairs := headerPairs(id); len(pairs) > 0 {
		if _, err := page.SetExtraHeaders(pairs); err != nil {
			return "", classify(ctx, err, "set headers for %s", url)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", classify(ctx, err, "navigate to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", classify(ctx, err, "load %s", url)
	}
	if err := WaitReady(ctx, pageChecker{page: page}, f.readiness); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", classify(ctx, err, "read %s", url)
	}
	return html, nil
}

// Close tears down the browser session. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.session.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.session.LauncherPID()
}

// headerPairs flattens the identity headers into the key/value list the
// browser expects, sorted by key. The user agent is set separately.
func headerPairs(id hotelscraper.Identity) []string {
	keys := make([]string, 0, len(id.Headers))
	for k := range id.Headers {
		if strings.EqualFold(k, "User-Agent") {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, id.Headers[k])
	}
	return pairs
}

// classify maps a browser error to an application error. Cancellation by
// the caller is returned unchanged.
func classify(ctx context.Context, err error, format string, args ...any) error {
	if errors.Is(err, context.Canceled) && errors.Is(ctx.Err(), context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return hotelscraper.WrapError(hotelscraper.ETIMEOUT, err, format, args...)
	}
	return hotelscraper.WrapError(hotelscraper.ETRANSPORT, err, format, args...)
}
