package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/types"
	"railspark/internal/upload"
)

var uploadDataType string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload fleet data",
}

var uploadCSVCmd = &cobra.Command{
	Use:   "csv <file.csv>",
	Short: "Validate and upload a CSV file",
	Long: `Checks the file locally (CSV type, size limit, header and data rows)
and posts it to the backend only if it passes.

Data types: ` + strings.Join(types.UploadDataTypes, ", "),
	Args: cobra.ExactArgs(1),
	RunE: runUploadCSV,
}

var uploadTemplateCmd = &cobra.Command{
	Use:   "template <data-type>",
	Short: "Print the CSV template for a data type",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadTemplate,
}

func init() {
	uploadCSVCmd.Flags().StringVarP(&uploadDataType, "type", "t", types.DataTrains, "Data type")
	uploadCmd.AddCommand(uploadCSVCmd, uploadTemplateCmd)
}

func runUploadCSV(cmd *cobra.Command, args []string) error {
	f, err := upload.ReadFile(args[0], env.cfg.Upload.MaxBytes)
	if err != nil {
		return err
	}

	u := upload.NewUploader(env.api.Uploads, env.cfg.Upload.MaxBytes)
	var (
		res     types.UploadResult
		preview *upload.Preview
	)
	err = env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		res, preview, err = u.Upload(ctx, f, uploadDataType)
		return err
	})
	if preview != nil {
		if w := ui.Warnings(env.styles, preview.Warnings); w != "" {
			fmt.Fprint(env.errOut, w)
		}
	}
	if err != nil {
		return err
	}

	env.println(ui.SuccessLine(env.styles,
		fmt.Sprintf("Uploaded %s as %s: %d records loaded", f.Name, res.DataType, res.RecordsLoaded)))
	for _, e := range res.Errors() {
		env.println(env.styles.Warning.Render("! ") + env.styles.Body.Render(e))
	}
	return nil
}

func runUploadTemplate(cmd *cobra.Command, args []string) error {
	var tmpl types.CSVTemplate
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		tmpl, err = env.api.Uploads.Template(ctx, args[0])
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprint(env.out, tmpl.Template)
	if !strings.HasSuffix(tmpl.Template, "\n") {
		fmt.Fprintln(env.out)
	}
	return nil
}
