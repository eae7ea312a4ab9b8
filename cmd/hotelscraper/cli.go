package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Config      Config
	OpenBrowser BrowserOpener

	// Sleep replaces backoff and pacing waits when set.
	Sleep crawl.SleepFunc
}

// Config is the run configuration shared by all commands.
type Config struct {
	Policy        hotelscraper.RetryPolicy
	Pacing        time.Duration
	MaxCandidates int
	RPS           float64
	MetricsFile   string
}

// readiness returns the page readiness condition, bounded by the request
// timeout so a readiness wait cannot outlive its attempt.
func (c Config) readiness() hotelscraper.Readiness {
	r := hotelscraper.DefaultReadiness()
	if t := c.Policy.RequestTimeout; t > 0 {
		r.Timeout = min(r.Timeout, t)
	}
	return r
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout     time.Duration `default:"30s" env:"HOTELSCRAPER_TIMEOUT" help:"Request timeout per fetch attempt"`
	Attempts    int           `default:"3" env:"HOTELSCRAPER_ATTEMPTS" help:"Fetch attempts per URL"`
	BaseDelay   time.Duration `name:"base-delay" default:"2s" env:"HOTELSCRAPER_BASE_DELAY" help:"Backoff unit; attempt k waits k times this"`
	Jitter      time.Duration `default:"0s" env:"HOTELSCRAPER_JITTER" help:"Upper bound of random delay added to each backoff"`
	Pacing      time.Duration `default:"1.5s" env:"HOTELSCRAPER_PACING" help:"Fixed wait between detail pages"`
	Max         int           `default:"11" env:"HOTELSCRAPER_MAX" help:"Maximum candidates to process"`
	RPS         float64       `name:"rps" default:"0" env:"HOTELSCRAPER_RPS" help:"Per-host request ceiling in requests per second (0 disables)"`
	MetricsFile string        `name:"metrics-file" type:"path" env:"HOTELSCRAPER_METRICS_FILE" help:"Write Prometheus metrics to this file after the run"`
	Verbose     bool          `short:"v" env:"HOTELSCRAPER_VERBOSE" help:"Enable debug logging"`

	Listing ListingCmd `cmd:"" help:"Scrape detail pages linked from a listing page"`
	Search  SearchCmd  `cmd:"" help:"Search a city and scrape the hotels on the results page"`
}

// Config returns the run configuration described by the flags.
func (c *CLI) Config() Config {
	policy := hotelscraper.DefaultRetryPolicy()
	policy.MaxAttempts = c.Attempts
	policy.BaseDelay = c.BaseDelay
	policy.RequestTimeout = c.Timeout
	policy.Jitter = c.Jitter
	return Config{
		Policy:        policy,
		Pacing:        c.Pacing,
		MaxCandidates: c.Max,
		RPS:           c.RPS,
		MetricsFile:   c.MetricsFile,
	}
}

// ListingCmd is the "listing" subcommand.
type ListingCmd struct {
	URL      string `arg:"" help:"Listing page URL"`
	Browser  bool   `short:"b" help:"Render pages with a headless browser"`
	Headless bool   `default:"true" negatable:"" help:"Run the browser headless"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	City     string    `required:"" help:"Destination city"`
	Country  string    `help:"Destination country code"`
	CheckIn  time.Time `name:"check-in" required:"" format:"2006-01-02" help:"Check-in date (YYYY-MM-DD)"`
	CheckOut time.Time `name:"check-out" required:"" format:"2006-01-02" help:"Check-out date (YYYY-MM-DD)"`
	Mode     string    `default:"list" enum:"list,map" help:"Results layout (list, map)"`
	BaseURL  string    `name:"base-url" default:"https://www.marriott.com" env:"HOTELSCRAPER_BASE_URL" help:"Site to search"`
	Headless bool      `default:"true" negatable:"" help:"Run the browser headless"`
}
