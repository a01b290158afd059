package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"railspark/internal/logging"
	"railspark/internal/types"
)

// BrandingStats aggregates exposure across all contracts.
type BrandingStats struct {
	Total             int
	Active            int
	NeedingExposure   int
	ExposureRequired  int
	ExposureFulfilled int
	// OverallProgress is fulfilled/required as a percentage.
	OverallProgress float64
}

// FleetStats are counts derived from the train and job card lists.
type FleetStats struct {
	Total          int
	Active         int
	Maintenance    int
	OpenJobCards   int
	ClosedJobCards int
}

// Report is the reports page view. Stats and Predictions stay empty when the
// AI service is unavailable; the reason is listed in Warnings.
type Report struct {
	Trains      []types.Train
	Contracts   []types.BrandingContract
	JobCards    []types.JobCard
	Stats       *types.OptimizationStats
	Predictions []types.FailurePrediction
	Fleet       FleetStats
	Branding    BrandingStats
	RiskCounts  map[string]int
	Warnings    []string
}

// Report fetches trains, contracts and job cards concurrently, then the AI
// statistics and failure predictions.
func (g *Gatherer) Report(ctx context.Context) (*Report, error) {
	timer := logging.StartTimer(logging.CategoryDashboard, "report")
	defer timer.StopWithThreshold(slowGather)

	r := &Report{}
	var warn warnings

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res, err := g.api.Trains.List(egCtx, 0, 0)
		if err != nil {
			warn.add("trains", err)
			return nil
		}
		r.Trains = res
		return nil
	})
	eg.Go(func() error {
		res, err := g.api.Branding.List(egCtx)
		if err != nil {
			warn.add("branding contracts", err)
			return nil
		}
		r.Contracts = res
		return nil
	})
	eg.Go(func() error {
		res, err := g.api.JobCards.List(egCtx)
		if err != nil {
			warn.add("job cards", err)
			return nil
		}
		r.JobCards = res
		return nil
	})
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if warn.failed == 3 {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, warn.list)
	}

	if stats, err := g.api.AI.OptimizationStats(ctx); err != nil {
		warn.add("optimization statistics (AI service)", err)
	} else {
		r.Stats = &stats
	}

	preds, err := g.api.AI.FailurePredictions(ctx)
	switch {
	case err != nil:
		warn.add("failure predictions", err)
	case len(preds) == 0:
		warn.note("no failure predictions returned (model needs more training data)")
	default:
		r.Predictions = preds
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.Fleet = fleetStats(r.Trains, r.JobCards)
	r.Branding = g.brandingStats(r.Contracts)
	r.RiskCounts = riskCounts(r.Predictions)
	r.Warnings = warn.list
	for _, w := range r.Warnings {
		logging.DashboardWarn("report: %s", w)
	}
	return r, nil
}

func fleetStats(trains []types.Train, jobs []types.JobCard) FleetStats {
	f := FleetStats{Total: len(trains)}
	for _, t := range trains {
		if t.IsActive() {
			f.Active++
		}
	}
	// Anything not in active service counts as out for maintenance.
	f.Maintenance = f.Total - f.Active
	for _, j := range jobs {
		if j.IsOpen() {
			f.OpenJobCards++
		} else {
			f.ClosedJobCards++
		}
	}
	return f
}

func (g *Gatherer) brandingStats(contracts []types.BrandingContract) BrandingStats {
	today := g.now()
	s := BrandingStats{Total: len(contracts)}
	for _, c := range contracts {
		s.ExposureRequired += c.ExposureHoursRequired
		s.ExposureFulfilled += c.ExposureHoursFulfilled
		if !c.ActiveOn(today) {
			continue
		}
		s.Active++
		if c.NeedsExposure() {
			s.NeedingExposure++
		}
	}
	if s.ExposureRequired > 0 {
		s.OverallProgress = float64(s.ExposureFulfilled) / float64(s.ExposureRequired) * 100
	}
	return s
}

func riskCounts(preds []types.FailurePrediction) map[string]int {
	out := make(map[string]int)
	for _, p := range preds {
		out[p.RiskLevel]++
	}
	return out
}
