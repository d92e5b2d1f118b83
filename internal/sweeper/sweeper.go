// Package sweeper runs the periodic reconciliation passes: expiring leases
// whose end date has passed and flagging payments that went overdue. Each
// pass is a single set-based conditional update, so overlapping runs and
// restarts are harmless.
package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/parkrow/backoffice/internal/storage"
)

// Sweeper periodically reconciles time-derived state.
type Sweeper struct {
	store        storage.Store
	expireEvery  time.Duration
	overdueEvery time.Duration
	clock        func() time.Time
}

// New creates a Sweeper. Non-positive intervals fall back to the defaults
// (hourly lease expiry, overdue flagging every ten minutes).
func New(store storage.Store, expireEvery, overdueEvery time.Duration) *Sweeper {
	if expireEvery <= 0 {
		expireEvery = time.Hour
	}
	if overdueEvery <= 0 {
		overdueEvery = 10 * time.Minute
	}
	return &Sweeper{
		store:        store,
		expireEvery:  expireEvery,
		overdueEvery: overdueEvery,
		clock:        time.Now,
	}
}

// Run blocks, executing both passes on their intervals until ctx is
// canceled. Both run once immediately at startup so a restart never leaves
// stale state waiting a full interval.
func (s *Sweeper) Run(ctx context.Context) {
	expireTicker := time.NewTicker(s.expireEvery)
	defer expireTicker.Stop()
	overdueTicker := time.NewTicker(s.overdueEvery)
	defer overdueTicker.Stop()

	s.runExpire(ctx)
	s.runOverdue(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[SWEEPER] stopping: %v", ctx.Err())
			return
		case <-expireTicker.C:
			s.runExpire(ctx)
		case <-overdueTicker.C:
			s.runOverdue(ctx)
		}
	}
}

// ExpireLeasesOnce runs one lease-expiry pass and reports how many leases
// moved to expired.
func (s *Sweeper) ExpireLeasesOnce(ctx context.Context) (int64, error) {
	return s.store.ExpireLeases(ctx, s.clock().UTC())
}

// FlagOverdueOnce runs one overdue pass and reports how many payments moved
// to overdue.
func (s *Sweeper) FlagOverdueOnce(ctx context.Context) (int64, error) {
	return s.store.FlagOverduePayments(ctx, s.clock().UTC())
}

func (s *Sweeper) runExpire(ctx context.Context) {
	n, err := s.ExpireLeasesOnce(ctx)
	if err != nil {
		log.Printf("[SWEEPER] lease expiry failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SWEEPER] expired %d leases", n)
	}
}

func (s *Sweeper) runOverdue(ctx context.Context) {
	n, err := s.FlagOverdueOnce(ctx)
	if err != nil {
		log.Printf("[SWEEPER] overdue flagging failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SWEEPER] flagged %d payments overdue", n)
	}
}
