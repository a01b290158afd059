package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/usage"
)

var usageReset bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show backend request usage recorded by this workspace",
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&usageReset, "reset", false, "Clear the recorded counters")
}

func runUsage(cmd *cobra.Command, args []string) error {
	tracker := usage.FromContext(cmd.Context())
	if tracker == nil {
		return fmt.Errorf("usage tracking is not available")
	}
	if usageReset {
		if err := tracker.Reset(); err != nil {
			return fmt.Errorf("failed to reset usage: %w", err)
		}
		env.println(ui.SuccessLine(env.styles, "Usage counters cleared"))
		return nil
	}

	stats := tracker.Stats()
	if stats.Total.Requests == 0 {
		env.println(ui.EmptyState(env.styles, "No requests recorded yet.", "railctl trains list"))
		return nil
	}

	env.println(ui.StatPanel(env.styles, "Usage", []ui.KeyValue{
		{Key: "Requests", Value: strconv.FormatInt(stats.Total.Requests, 10)},
		{Key: "Failures", Value: strconv.FormatInt(stats.Total.Failures, 10)},
		{Key: "Avg latency", Value: stats.Total.AvgLatency().String()},
		{Key: "Since", Value: stats.FirstSeen.Format("2006-01-02 15:04")},
	}))

	keys := make([]string, 0, len(stats.ByEndpoint))
	for k := range stats.ByEndpoint {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := stats.ByEndpoint[keys[i]], stats.ByEndpoint[keys[j]]
		if a.Requests != b.Requests {
			return a.Requests > b.Requests
		}
		return keys[i] < keys[j]
	})

	t := ui.NewSimpleTable("By endpoint", []string{"Endpoint", "Requests", "Failures", "Avg latency"})
	for _, k := range keys {
		c := stats.ByEndpoint[k]
		t.AddRow(k, strconv.FormatInt(c.Requests, 10), strconv.FormatInt(c.Failures, 10), c.AvgLatency().String())
	}
	env.printTable(t, "", "")

	if len(stats.ByKind) > 0 {
		kinds := make([]string, 0, len(stats.ByKind))
		for k := range stats.ByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		kt := ui.NewSimpleTable("Failures by kind", []string{"Kind", "Count"})
		for _, k := range kinds {
			kt.AddRow(k, strconv.FormatInt(stats.ByKind[k], 10))
		}
		env.printTable(kt, "", "")
	}
	return nil
}
