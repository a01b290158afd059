package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/types"
)

// =============================================================================
// TRAIN AND JOB CARD COMMANDS
// =============================================================================

const uploadTrainsAction = "railctl upload csv --type trains <file.csv>"

var (
	trainsSkip  int
	trainsLimit int
	jobsTrainID int
)

var trainsCmd = &cobra.Command{
	Use:   "trains",
	Short: "List and inspect trains",
}

var trainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trains",
	RunE:  runTrainsList,
}

var trainsGetCmd = &cobra.Command{
	Use:   "get <train-id>",
	Short: "Show one train",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrainsGet,
}

var trainsActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "List trains in active service",
	RunE:  runTrainsActive,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage maintenance job cards",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job cards",
	RunE:  runJobsList,
}

var jobsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "List open job cards",
	RunE:  runJobsOpen,
}

var jobsCloseCmd = &cobra.Command{
	Use:   "close <job-card-id>",
	Short: "Close a job card",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsClose,
}

func init() {
	trainsListCmd.Flags().IntVar(&trainsSkip, "skip", 0, "Rows to skip")
	trainsListCmd.Flags().IntVar(&trainsLimit, "limit", 100, "Maximum rows")
	trainsCmd.AddCommand(trainsListCmd, trainsGetCmd, trainsActiveCmd)

	jobsListCmd.Flags().IntVar(&jobsTrainID, "train", 0, "Only this train")
	jobsOpenCmd.Flags().IntVar(&jobsTrainID, "train", 0, "Only this train")
	jobsCmd.AddCommand(jobsListCmd, jobsOpenCmd, jobsCloseCmd)
}

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

func trainsTable(title string, trains []types.Train) *ui.SimpleTable {
	t := ui.NewSimpleTable(title, []string{"ID", "Number", "Status", "Equipment", "Mileage", "Last maintenance"})
	for _, tr := range trains {
		last := "never"
		if tr.LastMaintenanceDate != nil && !tr.LastMaintenanceDate.IsZero() {
			last = tr.LastMaintenanceDate.String()
		}
		t.AddRow(strconv.Itoa(tr.ID), tr.TrainNumber, tr.Status, tr.EquipmentStatus,
			strconv.Itoa(tr.CurrentMileage), last)
	}
	return t
}

func runTrainsList(cmd *cobra.Command, args []string) error {
	var trains []types.Train
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		trains, err = env.api.Trains.List(ctx, trainsSkip, trainsLimit)
		return err
	})
	if err != nil {
		return err
	}
	env.printTable(trainsTable("Trains", trains), "No trains found.", uploadTrainsAction)
	return nil
}

func runTrainsActive(cmd *cobra.Command, args []string) error {
	var trains []types.Train
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		trains, err = env.api.Trains.Active(ctx)
		return err
	})
	if err != nil {
		return err
	}
	env.printTable(trainsTable("Active trains", trains), "No trains in active service.", "railctl trains list")
	return nil
}

func runTrainsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "train")
	if err != nil {
		return err
	}

	var tr types.Train
	err = env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		tr, err = env.api.Trains.Get(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	last := "never"
	if tr.LastMaintenanceDate != nil && !tr.LastMaintenanceDate.IsZero() {
		last = tr.LastMaintenanceDate.String()
	}
	env.println(ui.StatPanel(env.styles, "Train "+tr.TrainNumber, []ui.KeyValue{
		{Key: "ID", Value: strconv.Itoa(tr.ID)},
		{Key: "Status", Value: tr.Status},
		{Key: "Equipment", Value: tr.EquipmentStatus},
		{Key: "Mileage", Value: strconv.Itoa(tr.CurrentMileage)},
		{Key: "Maintenance interval", Value: fmt.Sprintf("%d days", tr.MaintenanceInterval)},
		{Key: "Last maintenance", Value: last},
	}))
	return nil
}

func jobsTable(title string, jobs []types.JobCard) *ui.SimpleTable {
	t := ui.NewSimpleTable(title, []string{"ID", "Train", "Work order", "Status", "Description"})
	for _, j := range jobs {
		t.AddRow(strconv.Itoa(j.ID), strconv.Itoa(j.TrainID), j.WorkOrderID, j.Status, j.Description)
	}
	return t
}

func runJobsList(cmd *cobra.Command, args []string) error {
	var jobs []types.JobCard
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		if jobsTrainID > 0 {
			jobs, err = env.api.JobCards.ForTrain(ctx, jobsTrainID)
		} else {
			jobs, err = env.api.JobCards.List(ctx)
		}
		return err
	})
	if err != nil {
		return err
	}
	env.printTable(jobsTable("Job cards", jobs), "No job cards found.", "railctl upload csv --type job_cards <file.csv>")
	return nil
}

func runJobsOpen(cmd *cobra.Command, args []string) error {
	var jobs []types.JobCard
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		jobs, err = env.api.JobCards.Open(ctx, jobsTrainID)
		return err
	})
	if err != nil {
		return err
	}
	env.printTable(jobsTable("Open job cards", jobs), "No open job cards.", "")
	return nil
}

func runJobsClose(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "job card")
	if err != nil {
		return err
	}

	var job types.JobCard
	err = env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		job, err = env.api.JobCards.Close(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	env.println(ui.SuccessLine(env.styles, fmt.Sprintf("Closed job card %s (%s)", job.WorkOrderID, job.Status)))
	return nil
}
