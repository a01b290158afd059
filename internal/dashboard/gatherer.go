// Package dashboard gathers the fleet summary and report views. Sources are
// fetched concurrently and settled independently: a failed source yields an
// empty section plus a warning rather than failing the whole view.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"railspark/internal/logging"
	"railspark/internal/railapi"
	"railspark/internal/types"
)

// slowGather is when a view's fetch is logged as a warning.
const slowGather = 3 * time.Second

// ErrUnavailable is returned when every source of a view failed.
var ErrUnavailable = errors.New("dashboard data unavailable")

// Gatherer builds dashboard views from the backend.
type Gatherer struct {
	api *railapi.API
	now func() time.Time
}

// NewGatherer returns a gatherer reading through api.
func NewGatherer(api *railapi.API) *Gatherer {
	return &Gatherer{api: api, now: time.Now}
}

// Summary is the sidebar quick-stats view.
type Summary struct {
	TotalTrains     int
	ActiveTrains    int
	ScheduledToday  int
	MaintenanceOpen int
	BrandedActive   int
	Warnings        []string
	FetchedAt       time.Time
}

// warnings collects per-source failures from concurrent fetches.
type warnings struct {
	mu     sync.Mutex
	list   []string
	failed int
}

func (w *warnings) add(source string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, fmt.Sprintf("%s unavailable: %v", source, err))
	w.failed++
}

func (w *warnings) note(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, msg)
}

// Summary fetches trains, today's plan, open job cards and active branding
// concurrently.
func (g *Gatherer) Summary(ctx context.Context) (*Summary, error) {
	timer := logging.StartTimer(logging.CategoryDashboard, "summary")
	defer timer.StopWithThreshold(slowGather)

	var (
		trains    []types.Train
		plans     []types.InductionPlan
		openJobs  []types.JobCard
		contracts []types.BrandingContract
		warn      warnings
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res, err := g.api.Trains.List(egCtx, 0, 0)
		if err != nil {
			warn.add("trains", err)
			return nil
		}
		trains = res
		return nil
	})
	eg.Go(func() error {
		res, err := g.api.Induction.Today(egCtx)
		if err != nil {
			warn.add("today's induction plan", err)
			return nil
		}
		plans = res
		return nil
	})
	eg.Go(func() error {
		res, err := g.api.JobCards.Open(egCtx, 0)
		if err != nil {
			warn.add("open job cards", err)
			return nil
		}
		openJobs = res
		return nil
	})
	eg.Go(func() error {
		res, err := g.api.Branding.Active(egCtx, 0)
		if err != nil {
			warn.add("active branding contracts", err)
			return nil
		}
		contracts = res
		return nil
	})
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if warn.failed == 4 {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, warn.list)
	}

	s := &Summary{
		TotalTrains:     len(trains),
		ScheduledToday:  len(plans),
		MaintenanceOpen: len(openJobs),
		BrandedActive:   len(contracts),
		Warnings:        warn.list,
		FetchedAt:       g.now(),
	}
	for _, t := range trains {
		if t.IsActive() {
			s.ActiveTrains++
		}
	}
	for _, w := range s.Warnings {
		logging.DashboardWarn("summary: %s", w)
	}
	logging.Dashboard("summary: trains=%d active=%d scheduled=%d maintenance=%d branded=%d",
		s.TotalTrains, s.ActiveTrains, s.ScheduledToday, s.MaintenanceOpen, s.BrandedActive)
	return s, nil
}
