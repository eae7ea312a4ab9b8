package mock

import (
	"context"

	"github.com/96nitishkumar/hotelscraper"
)

var _ hotelscraper.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of hotelscraper.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
