package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/config"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/cobra"
)

const formatSheets = "sheets"

func exportCmd(rt *runtime) *cobra.Command {
	var (
		formatName string
		output     string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to a JSON file or Google Sheets",
		Long: `Export the expenses matching the saved filters, or all of them with --all.

JSON output can be read back with "expensive import". The sheets format
writes a report (summary, category breakdown and every expense) to a
Google spreadsheet configured under "sheets" or GOOGLE_SHEETS_* variables.`,
		Example: `  expensive export --all -o backup.json
  expensive export --format sheets`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			f := st.Filters()
			if all {
				f = model.DefaultFilter()
			}

			switch formatName {
			case formatJSON:
				rows := view.Filter(st.Expenses(), f)
				if output == "" || output == "-" {
					return writeJSON(out, rows)
				}
				file, err := os.Create(config.ExpandPath(output))
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := writeJSON(file, rows); err != nil {
					_ = file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(rows), output)))
				return nil

			case formatSheets:
				sheetsCfg, err := config.LoadSheetsConfig(rt.v)
				if err != nil {
					return err
				}
				writer, err := rt.newReportWriter(ctx, sheetsCfg, rt.logger)
				if err != nil {
					return err
				}
				report := view.BuildReport(st.Expenses(), st.Categories(), f, rt.now())
				if err := writer.Write(ctx, report); err != nil {
					return fmt.Errorf("failed to export to Google Sheets: %w", err)
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to Google Sheets", len(report.Expenses))))
				return nil

			default:
				return fmt.Errorf("unknown format %q (expected json or sheets)", formatName)
			}
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", formatJSON, "json or sheets")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON file to write (default stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "ignore the saved filters")
	return cmd
}

func writeJSON(w io.Writer, expenses []model.Expense) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(expenses); err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	return nil
}
