package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/types"
)

var (
	generateDate      string
	generateMaxTrains int
	generatePriority  []int
	approveBy         int
)

var inductionCmd = &cobra.Command{
	Use:   "induction",
	Short: "Induction plans: today's plan, approval and AI generation",
}

var inductionTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's induction plan",
	RunE:  runInductionToday,
}

var inductionApproveCmd = &cobra.Command{
	Use:   "approve <plan-id>",
	Short: "Approve an induction plan entry",
	Long: `Approves a plan entry. The approver defaults to the logged-in user;
use --by to approve on behalf of another user id.`,
	Args: cobra.ExactArgs(1),
	RunE: runInductionApprove,
}

var inductionGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an induction plan with the AI optimizer",
	RunE:  runInductionGenerate,
}

func init() {
	inductionApproveCmd.Flags().IntVar(&approveBy, "by", 0, "Approver user id (default: logged-in user)")
	inductionGenerateCmd.Flags().StringVar(&generateDate, "date", "", "Plan date YYYY-MM-DD (default: backend picks tomorrow)")
	inductionGenerateCmd.Flags().IntVar(&generateMaxTrains, "max-trains", 0, "Maximum trains in service")
	inductionGenerateCmd.Flags().IntSliceVar(&generatePriority, "priority", nil, "Priority train ids")
	inductionCmd.AddCommand(inductionTodayCmd, inductionApproveCmd, inductionGenerateCmd)
}

func sortByRank[T any](rows []T, rank func(T) int) {
	sort.SliceStable(rows, func(i, j int) bool { return rank(rows[i]) < rank(rows[j]) })
}

func countsLine(counts map[string]int) string {
	return fmt.Sprintf("service %d · standby %d · maintenance %d",
		counts[types.InductionService], counts[types.InductionStandby], counts[types.InductionMaintenance])
}

func runInductionToday(cmd *cobra.Command, args []string) error {
	var plans []types.InductionPlan
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		plans, err = env.api.Induction.Today(ctx)
		return err
	})
	if err != nil {
		return err
	}

	sortByRank(plans, func(p types.InductionPlan) int { return p.Rank })
	t := ui.NewSimpleTable("Today's induction plan", []string{"Rank", "ID", "Train", "Type", "Approved", "Reason"})
	for _, p := range plans {
		approved := "no"
		if p.IsApproved() {
			approved = "by " + strconv.Itoa(*p.ApprovedBy)
		}
		t.AddRow(strconv.Itoa(p.Rank), strconv.Itoa(p.ID), strconv.Itoa(p.TrainID), p.InductionType, approved, p.Reason)
	}
	env.printTable(t, "No induction plan for today.", "railctl induction generate")
	if len(plans) > 0 {
		env.println(env.styles.Muted.Render(countsLine(types.CountByType(plans))))
	}
	return nil
}

func runInductionApprove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "plan")
	if err != nil {
		return err
	}

	var plan types.InductionPlan
	err = env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		plan, err = env.api.Induction.Approve(ctx, id, approveBy)
		return err
	})
	if err != nil {
		return err
	}
	env.println(ui.SuccessLine(env.styles,
		fmt.Sprintf("Approved plan %d: train %d → %s", plan.ID, plan.TrainID, plan.InductionType)))
	return nil
}

func runInductionGenerate(cmd *cobra.Command, args []string) error {
	var planDate *types.Date
	if generateDate != "" {
		d, err := types.ParseDate(generateDate)
		if err != nil {
			return err
		}
		planDate = &d
	}
	var constraints *types.PlanConstraints
	if generateMaxTrains > 0 || len(generatePriority) > 0 {
		constraints = &types.PlanConstraints{MaxTrains: generateMaxTrains, PriorityTrains: generatePriority}
	}

	var rows []types.PlannedInduction
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		rows, err = env.api.AI.GeneratePlan(ctx, planDate, constraints)
		return err
	})
	if err != nil {
		return err
	}

	sortByRank(rows, func(p types.PlannedInduction) int { return p.Rank })
	t := ui.NewSimpleTable("Generated induction plan", []string{"Rank", "Train", "Date", "Type", "Score", "Reason"})
	for _, r := range rows {
		train := r.TrainNumber
		if train == "" {
			train = strconv.Itoa(r.TrainID)
		}
		t.AddRow(strconv.Itoa(r.Rank), train, r.PlanDate.String(), r.InductionType, fmt.Sprintf("%.2f", r.Score), r.Reason)
	}
	env.printTable(t, "The optimizer returned no trains.", "railctl trains active")
	if len(rows) > 0 {
		env.println(env.styles.Muted.Render(countsLine(types.CountByType(rows))))
	}
	return nil
}
