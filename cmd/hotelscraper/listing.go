package main

import (
	"fmt"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/goquery"
	hotelhttp "github.com/96nitishkumar/hotelscraper/http"
)

// Run executes the listing command.
func (c *ListingCmd) Run(deps *Dependencies) error {
	var source hotelscraper.Fetcher
	if c.Browser {
		f, err := deps.OpenBrowser(c.Headless, deps.Config.readiness())
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		source = f
	} else {
		source = hotelhttp.NewFetcher(hotelhttp.WithTimeout(deps.Config.Policy.RequestTimeout))
	}

	return scrape(deps, c.URL, pipeline{
		source:     source,
		discoverer: goquery.NewAutoDiscoverer(),
		extractor:  goquery.NewFieldExtractor(goquery.WithExtractorLogger(deps.Logger)),
	})
}
