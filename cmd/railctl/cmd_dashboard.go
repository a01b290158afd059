package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/dashboard"
	"railspark/internal/logging"
	"railspark/internal/session"
	"railspark/internal/types"
)

var dashboardWatch bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show fleet quick stats",
	Long: `Fetches trains, today's induction plan, open job cards and active
branding contracts concurrently. Sources that fail are listed as warnings.

With --watch the summary is refreshed on the configured interval
(dashboard.refresh_interval, default 5m) until interrupted, and the session
file is watched so a logout from another terminal is picked up.`,
	RunE: runDashboard,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fleet, branding and risk report",
	RunE:  runReport,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Open maintenance alerts ordered by priority",
	RunE:  runAlerts,
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardWatch, "watch", false, "Refresh until interrupted")
}

func renderSummary(s *dashboard.Summary) string {
	out := ui.StatPanel(env.styles, "Fleet quick stats", []ui.KeyValue{
		{Key: "Trains", Value: strconv.Itoa(s.TotalTrains)},
		{Key: "Active", Value: strconv.Itoa(s.ActiveTrains)},
		{Key: "Scheduled today", Value: strconv.Itoa(s.ScheduledToday)},
		{Key: "Open maintenance", Value: strconv.Itoa(s.MaintenanceOpen)},
		{Key: "Branded (active)", Value: strconv.Itoa(s.BrandedActive)},
	})
	out += "\n" + env.styles.Muted.Render("Updated "+s.FetchedAt.Format(time.Kitchen))
	if w := ui.Warnings(env.styles, s.Warnings); w != "" {
		out += "\n" + w
	}
	return out
}

func runDashboard(cmd *cobra.Command, args []string) error {
	g := dashboard.NewGatherer(env.api)

	if !dashboardWatch {
		var s *dashboard.Summary
		err := env.call(cmd.Context(), func(ctx context.Context) error {
			var err error
			s, err = g.Summary(ctx)
			return err
		})
		if err != nil {
			return err
		}
		env.println(renderSummary(s))
		return nil
	}

	ctx := cmd.Context()
	if env.cfg.Session.Watch {
		w, err := session.NewWatcher(env.session, env.store)
		if err != nil {
			return fmt.Errorf("failed to watch session: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return err
		}
		defer w.Stop()
	}
	env.session.OnLogout(func() {
		fmt.Fprintln(env.errOut, ui.ErrorPanel(env.styles, "Session ended. Run \"railctl login\" to continue."))
	})

	r := dashboard.NewRefresher(g, env.cfg.GetRefreshInterval(), func(s *dashboard.Summary, err error) {
		if err != nil {
			fmt.Fprintln(env.errOut, ui.ErrorPanel(env.styles, err.Error()))
			return
		}
		env.println(renderSummary(s))
	})
	logging.Get(logging.CategoryCLI).Info("dashboard: watching every %s", env.cfg.GetRefreshInterval())
	// Run only returns once ctx is done; that is a normal exit here.
	_ = r.Run(ctx)
	return nil
}

// reportWidth is the width of the rule between report sections and warnings.
const reportWidth = 48

func runReport(cmd *cobra.Command, args []string) error {
	g := dashboard.NewGatherer(env.api)

	var rep *dashboard.Report
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		rep, err = g.Report(ctx)
		return err
	})
	if err != nil {
		return err
	}

	env.println(ui.StatPanel(env.styles, "Fleet", []ui.KeyValue{
		{Key: "Trains", Value: strconv.Itoa(rep.Fleet.Total)},
		{Key: "Active", Value: strconv.Itoa(rep.Fleet.Active)},
		{Key: "In maintenance", Value: strconv.Itoa(rep.Fleet.Maintenance)},
		{Key: "Open job cards", Value: strconv.Itoa(rep.Fleet.OpenJobCards)},
		{Key: "Closed job cards", Value: strconv.Itoa(rep.Fleet.ClosedJobCards)},
	}))

	env.println(ui.StatPanel(env.styles, "Branding", []ui.KeyValue{
		{Key: "Contracts", Value: strconv.Itoa(rep.Branding.Total)},
		{Key: "Active", Value: strconv.Itoa(rep.Branding.Active)},
		{Key: "Needing exposure", Value: strconv.Itoa(rep.Branding.NeedingExposure)},
		{Key: "Exposure hours", Value: fmt.Sprintf("%d/%d", rep.Branding.ExposureFulfilled, rep.Branding.ExposureRequired)},
		{Key: "Overall progress", Value: fmt.Sprintf("%.1f%%", rep.Branding.OverallProgress)},
	}))

	if rep.Stats != nil {
		env.println(ui.StatPanel(env.styles, "Optimization", []ui.KeyValue{
			{Key: "Eligible trains", Value: strconv.Itoa(rep.Stats.EligibleTrains)},
			{Key: "Planned service", Value: strconv.Itoa(rep.Stats.PlannedServiceTrains)},
			{Key: "Planned standby", Value: strconv.Itoa(rep.Stats.PlannedStandbyTrains)},
			{Key: "Planned maintenance", Value: strconv.Itoa(rep.Stats.PlannedMaintenanceTrains)},
			{Key: "Utilization", Value: fmt.Sprintf("%.1f%%", rep.Stats.UtilizationRate)},
		}))
	}

	if len(rep.RiskCounts) > 0 {
		levels := make([]string, 0, len(rep.RiskCounts))
		for level := range rep.RiskCounts {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		t := ui.NewSimpleTable("Failure risk", []string{"Risk level", "Trains"})
		for _, level := range levels {
			t.AddRow(level, strconv.Itoa(rep.RiskCounts[level]))
		}
		env.printTable(t, "", "")
	}

	if w := ui.Warnings(env.styles, rep.Warnings); w != "" {
		env.println(env.styles.RenderDivider(reportWidth))
		fmt.Fprint(env.out, w)
	}
	return nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	var doc any
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		doc, err = env.api.Dashboard.MaintenanceAlerts(ctx)
		return err
	})
	if err != nil {
		return err
	}

	t := ui.NewSimpleTable("Maintenance alerts", []string{"Priority", "Work order", "Train", "Days open", "Description"})
	for _, item := range types.Items(doc) {
		days := "-"
		if n, ok := types.FieldInt(item, "days_open"); ok {
			days = strconv.Itoa(n)
		}
		t.AddRow(
			types.FieldString(item, "priority"),
			types.FieldString(item, "work_order_id"),
			types.FieldString(item, "train_number"),
			days,
			types.FieldString(item, "description"),
		)
	}
	env.printTable(t, "No open maintenance alerts.", "railctl jobs list")
	return nil
}
