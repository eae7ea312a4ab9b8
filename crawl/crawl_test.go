package crawl_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/crawl"
	"github.com/96nitishkumar/hotelscraper/goquery"
	"github.com/96nitishkumar/hotelscraper/mock"
	gq "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingURL = "https://hotels.example.com/search/delhi"

func detailURL(i int) string {
	return fmt.Sprintf("https://hotels.example.com/hotels/H%02d-hotel-%d/overview/", i, i)
}

func listingPage(n int) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for i := range n {
		fmt.Fprintf(&b, `<li><a href="/hotels/H%02d-hotel-%d/overview/">Hotel %d</a></li>`, i, i, i)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func detailPage(i int) string {
	return fmt.Sprintf(`<html><head>
<script type="application/ld+json">{"@type":"Hotel","geo":{"latitude":28.%d,"longitude":77.%d}}</script>
</head><body>
<div class="hotel-info"><p>Hotel %d</p><p>%d Main Road, New Delhi</p></div>
<p>Reservations +91 11 4000 %04d</p>
<a href="mailto:hotel%d@hotels.example.com">Email</a>
</body></html>`, i, i, i, i, i, i)
}

func parseDoc(t *testing.T, url, html string) *hotelscraper.RenderedDocument {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return &hotelscraper.RenderedDocument{URL: url, Doc: doc}
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		attempts = map[string]int{}
		closed   int
	)
	failing := detailURL(7)

	source := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string, _ hotelscraper.Identity) (string, error) {
			mu.Lock()
			attempts[url]++
			mu.Unlock()
			switch {
			case url == listingURL:
				return listingPage(15), nil
			case url == failing:
				return "", hotelscraper.Errorf(hotelscraper.ETRANSPORT, "HTTP 503 for %s", url)
			}
			var i int
			_, err := fmt.Sscanf(strings.TrimPrefix(url, "https://hotels.example.com/hotels/H"), "%02d", &i)
			require.NoError(t, err)
			return detailPage(i), nil
		},
		CloseFn: func() error {
			closed++
			return nil
		},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	o := &crawl.Orchestrator{
		Fetcher:    crawl.NewRetryingFetcher(source, crawl.WithSleep(noSleep), crawl.WithLogger(logger)),
		Discoverer: goquery.NewLinkDiscoverer(),
		Extractor:  goquery.NewFieldExtractor(),
		Logger:     logger,
		Sleep:      noSleep,
	}

	result := o.Run(context.Background(), listingURL)

	require.NotNil(t, result)
	assert.Equal(t, 15, result.Discovered)
	require.Len(t, result.Records, 10)
	require.Len(t, result.Failures, 1)

	assert.Equal(t, 7, result.Failures[0].Index)
	assert.Equal(t, failing, result.Failures[0].URL)
	assert.Equal(t, hotelscraper.ETRANSPORT, hotelscraper.ErrorCode(result.Failures[0].Err))
	assert.Equal(t, 3, attempts[failing])
	assert.Zero(t, attempts[detailURL(11)], "cap stops before index 11")

	for _, rec := range result.Records {
		assert.NotEqual(t, failing, rec.URL)
		require.NoError(t, rec.Validate())
		assert.NotNil(t, rec.Name)
		assert.NotNil(t, rec.Address)
		assert.NotNil(t, rec.Phone)
		assert.NotNil(t, rec.Email)
		assert.True(t, rec.HasGeo())
	}
	assert.Equal(t, detailURL(0), result.Records[0].URL)
	assert.Equal(t, "Hotel 0", *result.Records[0].Name)
	assert.Equal(t, detailURL(10), result.Records[9].URL)

	assert.Contains(t, logs.String(), "candidate failed")
	assert.Contains(t, logs.String(), "index=7")
	assert.Equal(t, 1, closed)
}

func TestOrchestrator_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns empty result when listing fetch fails", func(t *testing.T) {
		t.Parallel()

		var closed bool
		var logs bytes.Buffer
		o := &crawl.Orchestrator{
			Fetcher: &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, url string) (*hotelscraper.RenderedDocument, error) {
					return nil, hotelscraper.Errorf(hotelscraper.ETIMEOUT, "%s did not respond in time", url)
				},
				CloseFn: func() error {
					closed = true
					return nil
				},
			},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(*hotelscraper.RenderedDocument) []string {
					t.Fatal("discover must not run without a listing")
					return nil
				},
			},
			Extractor: &mock.Extractor{},
			Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
		}

		result := o.Run(context.Background(), listingURL)

		require.NotNil(t, result)
		assert.Empty(t, result.Records)
		assert.Empty(t, result.Failures)
		assert.True(t, closed)
		assert.Contains(t, logs.String(), "listing fetch failed")
	})

	t.Run("closes fetcher when cap stops the run early", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		var closed int
		urls := make([]string, 20)
		for i := range urls {
			urls[i] = detailURL(i)
		}

		o := &crawl.Orchestrator{
			Fetcher: &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, url string) (*hotelscraper.RenderedDocument, error) {
					fetched = append(fetched, url)
					return parseDoc(t, url, "<html></html>"), nil
				},
				CloseFn: func() error {
					closed++
					return nil
				},
			},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(*hotelscraper.RenderedDocument) []string { return urls },
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(*hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
					return hotelscraper.Fields{}, nil
				},
			},
			MaxCandidates: 3,
			Sleep:         noSleep,
		}

		result := o.Run(context.Background(), listingURL)

		assert.Equal(t, 20, result.Discovered)
		assert.Len(t, result.Records, 3)
		assert.Equal(t, []string{listingURL, urls[0], urls[1], urls[2]}, fetched)
		assert.Equal(t, 1, closed)
	})

	t.Run("paces between detail fetches only", func(t *testing.T) {
		t.Parallel()

		var waits []time.Duration
		o := &crawl.Orchestrator{
			Fetcher: &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, url string) (*hotelscraper.RenderedDocument, error) {
					return parseDoc(t, url, "<html></html>"), nil
				},
				CloseFn: func() error { return nil },
			},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(*hotelscraper.RenderedDocument) []string {
					return []string{detailURL(0), detailURL(1), detailURL(2)}
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(*hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
					return hotelscraper.Fields{}, nil
				},
			},
			Sleep: func(_ context.Context, d time.Duration) error {
				waits = append(waits, d)
				return nil
			},
		}

		o.Run(context.Background(), listingURL)

		assert.Equal(t, []time.Duration{crawl.DefaultPacing, crawl.DefaultPacing}, waits)
	})

	t.Run("records extraction errors as failures", func(t *testing.T) {
		t.Parallel()

		o := &crawl.Orchestrator{
			Fetcher: &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, url string) (*hotelscraper.RenderedDocument, error) {
					if url == detailURL(0) {
						return &hotelscraper.RenderedDocument{URL: url}, nil
					}
					return parseDoc(t, url, "<html></html>"), nil
				},
				CloseFn: func() error { return nil },
			},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(*hotelscraper.RenderedDocument) []string {
					return []string{detailURL(0), detailURL(1), detailURL(2)}
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(doc *hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
					if doc.URL == detailURL(1) {
						return hotelscraper.Fields{}, hotelscraper.Errorf(hotelscraper.EINVALID, "extract: nil document")
					}
					name := "ok"
					return hotelscraper.Fields{Name: &name}, nil
				},
			},
			Pacing: -1,
		}

		result := o.Run(context.Background(), listingURL)

		require.Len(t, result.Records, 1)
		assert.Equal(t, detailURL(2), result.Records[0].URL)
		require.Len(t, result.Failures, 2)
		assert.Equal(t, hotelscraper.EINTERNAL, hotelscraper.ErrorCode(result.Failures[0].Err))
		assert.Equal(t, hotelscraper.EINVALID, hotelscraper.ErrorCode(result.Failures[1].Err))
	})

	t.Run("emits progress events in order", func(t *testing.T) {
		t.Parallel()

		var events []crawl.ProgressEvent
		o := &crawl.Orchestrator{
			Fetcher: &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, url string) (*hotelscraper.RenderedDocument, error) {
					if url == detailURL(1) {
						return nil, hotelscraper.Errorf(hotelscraper.ETRANSPORT, "HTTP 500 for %s", url)
					}
					return parseDoc(t, url, "<html></html>"), nil
				},
				CloseFn: func() error { return nil },
			},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(*hotelscraper.RenderedDocument) []string {
					return []string{detailURL(0), detailURL(1)}
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(*hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
					return hotelscraper.Fields{}, nil
				},
			},
			Sleep:    noSleep,
			Progress: func(e crawl.ProgressEvent) { events = append(events, e) },
		}

		o.Run(context.Background(), listingURL)

		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressCompleted, events[1].Type)
		assert.Equal(t, detailURL(0), events[1].URL)
		assert.Equal(t, crawl.ProgressFailed, events[2].Type)
		assert.Equal(t, 1, events[2].Index)
		require.Error(t, events[2].Error)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
		assert.Equal(t, 2, events[3].Completed)
	})

	t.Run("stops when context is cancelled during pacing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var closed bool
		o := &crawl.Orchestrator{
			Fetcher: &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, url string) (*hotelscraper.RenderedDocument, error) {
					return parseDoc(t, url, "<html></html>"), nil
				},
				CloseFn: func() error {
					closed = true
					return nil
				},
			},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(*hotelscraper.RenderedDocument) []string {
					return []string{detailURL(0), detailURL(1)}
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(*hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
					return hotelscraper.Fields{}, nil
				},
			},
			Sleep: func(ctx context.Context, _ time.Duration) error {
				cancel()
				return ctx.Err()
			},
		}

		result := o.Run(ctx, listingURL)

		assert.Len(t, result.Records, 1)
		assert.True(t, closed)
	})
}
