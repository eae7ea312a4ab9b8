package rod

import (
	"context"
	"errors"
	"time"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/go-rod/rod"
)

// Checker reports whether the current page has an element matching
// selector.
type Checker interface {
	Has(selector string) (bool, error)
}

// WaitReady polls c until r is satisfied: the loading indicator is absent
// and, when content selectors are given, at least one of them matches.
// It returns an ETIMEOUT error if the page is not ready within r.Timeout.
func WaitReady(ctx context.Context, c Checker, r hotelscraper.Readiness) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	interval := r.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := ready(c, r)
		if err != nil && ctx.Err() == nil {
			return hotelscraper.WrapError(hotelscraper.ETRANSPORT, err, "readiness check")
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return hotelscraper.WrapError(hotelscraper.ETIMEOUT, ctx.Err(), "page not ready after %s", r.Timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func ready(c Checker, r hotelscraper.Readiness) (bool, error) {
	if r.LoadingSelector != "" {
		loading, err := c.Has(r.LoadingSelector)
		if err != nil || loading {
			return false, err
		}
	}
	if len(r.ContentSelectors) == 0 {
		return true, nil
	}
	for _, sel := range r.ContentSelectors {
		ok, err := c.Has(sel)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// pageChecker adapts a rod page to Checker.
type pageChecker struct {
	page *rod.Page
}

func (p pageChecker) Has(selector string) (bool, error) {
	ok, _, err := p.page.Has(selector)
	return ok, err
}
