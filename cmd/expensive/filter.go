package main

import (
	"fmt"
	"io"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/store"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/cobra"
)

func filterCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the saved filters",
		Long: `The saved filters decide what "list", "export" and "browse" show by
default. They are kept between runs.`,
		Example: `  expensive filter set --category 2 --window this_month
  expensive filter set --category all --sort amount --order desc
  expensive filter reset`,
	}

	cmd.AddCommand(filterShowCmd(rt))
	cmd.AddCommand(filterSetCmd(rt))
	cmd.AddCommand(filterResetCmd(rt))
	return cmd
}

func printFilter(out io.Writer, st *store.Store) {
	f := st.Filters().Normalized()

	category := "all"
	if f.Category != nil {
		category = cli.CategoryBadge(view.CategoryOrPlaceholder(st.Categories(), *f.Category))
	}
	dates := "all"
	if f.DateRange != nil {
		dates = format.DateShort(f.DateRange.Start) + " - " + format.DateShort(f.DateRange.End)
	}

	fmt.Fprintf(out, "Category:  %s\n", category)
	fmt.Fprintf(out, "Dates:     %s\n", dates)
	fmt.Fprintf(out, "Sort:      %s %s\n", f.SortBy, f.SortOrder)
	fmt.Fprintf(out, "Matching:  %d / %d\n", len(st.FilteredExpenses()), len(st.Expenses()))
}

func filterShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			printFilter(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func filterSetCmd(rt *runtime) *cobra.Command {
	var (
		query      queryFlags
		clearDates bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the saved filters",
		Long:  `Merge the given criteria into the saved filters. Criteria not mentioned stay as they are.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			patch, err := query.patch(st.Categories(), rt)
			if err != nil {
				return err
			}
			if clearDates {
				if patch.DateRange != nil {
					return fmt.Errorf("--clear-dates cannot be combined with a date range")
				}
				patch.ClearDateRange = true
			}
			if patch == (model.FilterPatch{}) {
				return fmt.Errorf("nothing to change; see --help for the available criteria")
			}

			st.SetFilters(ctx, patch)
			printSaved(cmd, st, "Filters saved")
			printFilter(cmd.OutOrStdout(), st)
			return nil
		},
	}

	query.bindFilter(cmd)
	cmd.Flags().BoolVar(&clearDates, "clear-dates", false, "drop the date restriction")
	return cmd
}

func filterResetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Go back to the default filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			st.ResetFilters(ctx)
			printSaved(cmd, st, "Filters reset")
			printFilter(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
