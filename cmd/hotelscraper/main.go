package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/crawl"
	"github.com/96nitishkumar/hotelscraper/rod"
	"github.com/alecthomas/kong"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// BrowserOpener starts a browser-backed fetcher.
type BrowserOpener func(headless bool, readiness hotelscraper.Readiness) (hotelscraper.Fetcher, error)

// Main represents the program.
type Main struct {
	// OpenBrowser starts the fetcher used for dynamically rendered pages.
	OpenBrowser BrowserOpener

	// Sleep, if set, replaces backoff and pacing waits.
	Sleep crawl.SleepFunc
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		OpenBrowser: openRodFetcher,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:         ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		OpenBrowser: m.OpenBrowser,
		Sleep:       m.Sleep,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("hotelscraper"),
		kong.Description("Collect hotel contact and location records from listing pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'hotelscraper --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run_id", uuid.NewString())
	deps.Config = cli.Config()
	if err := deps.Config.Policy.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", hotelscraper.ErrorMessage(err))
		return err
	}

	return kongCtx.Run(deps)
}

func openRodFetcher(headless bool, readiness hotelscraper.Readiness) (hotelscraper.Fetcher, error) {
	f, err := rod.NewFetcher(
		rod.WithReadiness(readiness),
		rod.WithSessionOptions(rod.WithHeadless(headless)),
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}
