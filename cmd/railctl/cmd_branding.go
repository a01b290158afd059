package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/types"
)

var brandingTrainID int

var brandingCmd = &cobra.Command{
	Use:   "branding",
	Short: "Branding contracts and exposure hours",
}

var brandingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branding contracts",
	RunE:  runBrandingList,
}

var brandingActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "List contracts running today",
	RunE:  runBrandingActive,
}

var brandingExposureCmd = &cobra.Command{
	Use:   "exposure <contract-id> <hours>",
	Short: "Record exposure hours against a contract",
	Args:  cobra.ExactArgs(2),
	RunE:  runBrandingExposure,
}

func init() {
	brandingActiveCmd.Flags().IntVar(&brandingTrainID, "train", 0, "Only this train")
	brandingCmd.AddCommand(brandingListCmd, brandingActiveCmd, brandingExposureCmd)
}

func brandingTable(title string, contracts []types.BrandingContract) *ui.SimpleTable {
	t := ui.NewSimpleTable(title, []string{"ID", "Train", "Advertiser", "Hours", "Progress", "Period"})
	for _, c := range contracts {
		t.AddRow(
			strconv.Itoa(c.ID),
			strconv.Itoa(c.TrainID),
			c.AdvertiserName,
			fmt.Sprintf("%d/%d", c.ExposureHoursFulfilled, c.ExposureHoursRequired),
			fmt.Sprintf("%.0f%%", c.Completion()*100),
			c.StartDate.String()+" → "+c.EndDate.String(),
		)
	}
	return t
}

func runBrandingList(cmd *cobra.Command, args []string) error {
	var contracts []types.BrandingContract
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		contracts, err = env.api.Branding.List(ctx)
		return err
	})
	if err != nil {
		return err
	}
	env.printTable(brandingTable("Branding contracts", contracts),
		"No branding contracts found.", "railctl upload csv --type branding <file.csv>")
	return nil
}

func runBrandingActive(cmd *cobra.Command, args []string) error {
	var contracts []types.BrandingContract
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		contracts, err = env.api.Branding.Active(ctx, brandingTrainID)
		return err
	})
	if err != nil {
		return err
	}
	env.printTable(brandingTable("Active branding contracts", contracts), "No contracts running today.", "railctl branding list")
	return nil
}

func runBrandingExposure(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "contract")
	if err != nil {
		return err
	}
	hours, err := strconv.Atoi(args[1])
	if err != nil || hours <= 0 {
		return fmt.Errorf("hours must be a positive integer, got %q", args[1])
	}

	var msg types.Message
	err = env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		msg, err = env.api.Branding.AddExposure(ctx, id, hours)
		return err
	})
	if err != nil {
		return err
	}
	text := msg.Message
	if text == "" {
		text = fmt.Sprintf("Added %d exposure hours to contract %d", hours, id)
	}
	env.println(ui.SuccessLine(env.styles, text))
	return nil
}
