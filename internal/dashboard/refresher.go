package dashboard

import (
	"context"
	"time"

	"railspark/internal/logging"
)

// DefaultRefreshInterval matches the sidebar's five-minute poll.
const DefaultRefreshInterval = 5 * time.Minute

// Refresher re-fetches the summary on a fixed interval.
type Refresher struct {
	gatherer *Gatherer
	interval time.Duration
	onUpdate func(*Summary, error)
}

// NewRefresher calls onUpdate with every summary fetch. A non-positive
// interval uses DefaultRefreshInterval.
func NewRefresher(g *Gatherer, interval time.Duration, onUpdate func(*Summary, error)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{gatherer: g, interval: interval, onUpdate: onUpdate}
}

// Run fetches immediately and then every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logging.Dashboard("refresher: every %s", r.interval)
	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	s, err := r.gatherer.Summary(ctx)
	if ctx.Err() != nil {
		return
	}
	if r.onUpdate != nil {
		r.onUpdate(s, err)
	}
}
