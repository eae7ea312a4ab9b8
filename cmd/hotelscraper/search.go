package main

import (
	"fmt"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/goquery"
)

// Params returns the search the flags describe.
func (c *SearchCmd) Params() hotelscraper.SearchParams {
	return hotelscraper.SearchParams{
		City:     c.City,
		Country:  c.Country,
		CheckIn:  c.CheckIn,
		CheckOut: c.CheckOut,
		Mode:     hotelscraper.RenderMode(c.Mode),
	}
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	params := c.Params()
	if err := params.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", hotelscraper.ErrorMessage(err))
		return err
	}

	source, err := deps.OpenBrowser(c.Headless, deps.Config.readiness())
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}

	cards := goquery.NewCardDiscoverer(c.BaseURL)
	cards.Logger = deps.Logger

	return scrape(deps, params.URL(c.BaseURL), pipeline{
		source:     source,
		discoverer: cards,
		extractor: goquery.NewFieldExtractor(
			goquery.WithPhoneStrategies(goquery.PhoneLink(), goquery.PhoneText()),
			goquery.WithExtractorLogger(deps.Logger),
		),
	})
}
