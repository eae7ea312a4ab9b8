// Package http provides an HTTP-based implementation of hotelscraper.Fetcher
// for listing and detail pages that don't require JavaScript rendering.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/96nitishkumar/hotelscraper"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with hotelscraper.DefaultRetryPolicy's request timeout.
const DefaultFetchTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Ensure Fetcher implements hotelscraper.Fetcher at compile time.
var _ hotelscraper.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static pages only.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient replaces the underlying HTTP client. The client's Timeout is
// overwritten by the configured timeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{}
	}
	f.client.Timeout = f.timeout

	return f
}

// Fetch retrieves the HTML content from the given URL, presenting id as the
// client identity. Non-2xx responses are returned as ETRANSPORT errors.
func (f *Fetcher) Fetch(ctx context.Context, url string, id hotelscraper.Identity) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", hotelscraper.WrapError(hotelscraper.EINVALID, err, "build request for %s", url)
	}
	for k, v := range id.Headers {
		req.Header.Set(k, v)
	}
	if id.UserAgent != "" {
		req.Header.Set("User-Agent", id.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classify(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", hotelscraper.Errorf(hotelscraper.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, url)
	}

	// The decoder reads a preview of the body to sniff the charset, so
	// failures here are body read failures. An empty body yields io.EOF.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		return "", nil
	} else if err != nil {
		return "", classify(err, url)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", classify(err, url)
	}

	return string(b), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classify maps a transport-level error to ETIMEOUT or ETRANSPORT.
func classify(err error, url string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return hotelscraper.WrapError(hotelscraper.ETIMEOUT, err, "%s did not respond in time", url)
	}
	return hotelscraper.WrapError(hotelscraper.ETRANSPORT, err, "fetch %s", url)
}
