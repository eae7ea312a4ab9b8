package mock

import (
	"context"

	"github.com/96nitishkumar/hotelscraper"
)

var _ hotelscraper.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of hotelscraper.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, id hotelscraper.Identity) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, id hotelscraper.Identity) (string, error) {
	return f.FetchFn(ctx, url, id)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ hotelscraper.DocumentFetcher = (*DocumentFetcher)(nil)

// DocumentFetcher is a mock implementation of hotelscraper.DocumentFetcher.
type DocumentFetcher struct {
	FetchFn func(ctx context.Context, url string) (*hotelscraper.RenderedDocument, error)
	CloseFn func() error
}

func (f *DocumentFetcher) Fetch(ctx context.Context, url string) (*hotelscraper.RenderedDocument, error) {
	return f.FetchFn(ctx, url)
}

func (f *DocumentFetcher) Close() error {
	return f.CloseFn()
}
