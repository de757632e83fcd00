package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hunglv/expensive/internal/budget"
	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/cobra"
)

// budgetFlags pick the budget a subcommand works on.
type budgetFlags struct {
	category string
	month    string
}

func (f *budgetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name (default: the overall budget)")
	cmd.Flags().StringVar(&f.month, "month", "", "month as YYYY-MM (default: this month)")
}

// resolve turns the flags into a month and a category id, nil for the
// overall budget.
func (f budgetFlags) resolve(rt *runtime) (model.Month, *int, error) {
	month := model.MonthOf(rt.now())
	if f.month != "" {
		m, err := model.ParseMonth(f.month)
		if err != nil {
			return model.Month{}, nil, common.NewUserError("month must look like 2024-01", err)
		}
		month = m
	}
	if strings.TrimSpace(f.category) == "" {
		return month, nil, nil
	}
	id, err := resolveCategory(rt.settings.Catalog(), f.category)
	if err != nil {
		return model.Month{}, nil, common.NewUserError(validate.MsgCategoryInvalid, err)
	}
	return month, &id, nil
}

func (rt *runtime) openBook(ctx context.Context, kv service.Storage) (*budget.Book, error) {
	return budget.Open(ctx, kv, budget.WithClock(rt.now), budget.WithLogger(rt.logger))
}

// budgetLabel names the category of a budget, or the overall budget.
func budgetLabel(catalog []model.Category, categoryID *int) string {
	if categoryID == nil {
		return "Tổng"
	}
	return cli.CategoryBadge(view.CategoryOrPlaceholder(catalog, *categoryID))
}

func budgetCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
		Long: `Set spending limits per month, for one category or for everything.

"expensive budget list" and "expensive summary" compare each budget with
what was actually spent that month and flag the ones that were exceeded.`,
		Example: `  # 5.000.000 ₫ for everything this month
  expensive budget set 5.000.000

  # 2.000.000 ₫ for food in March 2024
  expensive budget set 2000000 --category "Ăn uống" --month 2024-03

  expensive budget list --month 2024-03
  expensive budget delete --category 1 --month 2024-03`,
	}

	cmd.AddCommand(setBudgetCmd(rt))
	cmd.AddCommand(listBudgetsCmd(rt))
	cmd.AddCommand(deleteBudgetCmd(rt))
	return cmd
}

func setBudgetCmd(rt *runtime) *cobra.Command {
	var flags budgetFlags

	cmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Create or replace a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := validate.ParseAmount(args[0])
			if err != nil || amount <= 0 {
				return common.NewUserError(validate.MsgAmountNotPositive, common.ErrInvalidInput)
			}
			month, categoryID, err := flags.resolve(rt)
			if err != nil {
				return err
			}

			kv, err := rt.initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer rt.closeStorage(kv)

			book, err := rt.openBook(ctx, kv)
			if err != nil {
				return err
			}
			b, err := book.Set(ctx, month, categoryID, amount)
			if err != nil {
				return err
			}

			fm, err := rt.formatter()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Budget %s, %s: %s",
				budgetLabel(rt.settings.Catalog(), b.CategoryID), monthLabel(b.Month), fm.Currency(b.Amount))))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func listBudgetsCmd(rt *runtime) *cobra.Command {
	var flags budgetFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a month's budgets against actual spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			month, _, err := flags.resolve(rt)
			if err != nil {
				return err
			}

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			book, err := rt.openBook(ctx, kv)
			if err != nil {
				return err
			}
			budgets := book.Month(month)
			if len(budgets) == 0 {
				fmt.Fprintf(out, "No budgets for %s.\n", monthLabel(month))
				return nil
			}

			fm, err := rt.formatter()
			if err != nil {
				return err
			}
			o := view.Budgets(st.Expenses(), budgets, st.Categories(), month)
			fmt.Fprintln(out, cli.TitleStyle.Render(fmt.Sprintf("%s Budget, %s", cli.WalletIcon, monthLabel(month))))
			return printBudgets(out, fm, o)
		},
	}

	cmd.Flags().StringVar(&flags.month, "month", "", "month as YYYY-MM (default: this month)")
	return cmd
}

func deleteBudgetCmd(rt *runtime) *cobra.Command {
	var flags budgetFlags

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			month, categoryID, err := flags.resolve(rt)
			if err != nil {
				return err
			}

			kv, err := rt.initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer rt.closeStorage(kv)

			book, err := rt.openBook(ctx, kv)
			if err != nil {
				return err
			}
			label := budgetLabel(rt.settings.Catalog(), categoryID)
			deleted, err := book.Delete(ctx, month, categoryID)
			if err != nil {
				return err
			}
			if !deleted {
				return common.NewUserError(
					fmt.Sprintf("no budget %s for %s", label, monthLabel(month)),
					common.ErrNotFound,
				)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted budget %s, %s", label, monthLabel(month))))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

// printBudgets writes the budget table followed by a warning per exceeded
// budget.
func printBudgets(out io.Writer, fm *format.Formatter, o view.BudgetOverview) error {
	rows := o.ByCategory
	if o.Total != nil {
		rows = append([]view.BudgetStatus{*o.Total}, rows...)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join([]string{
		cli.TableHeaderStyle.Render("BUDGET"),
		cli.TableHeaderStyle.Render("LIMIT"),
		cli.TableHeaderStyle.Render("SPENT"),
		cli.TableHeaderStyle.Render("LEFT"),
		cli.TableHeaderStyle.Render("USED"),
	}, "\t"))
	for _, s := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\n",
			statusLabel(s),
			fm.Currency(s.Budget),
			fm.Currency(s.Actual),
			fm.Currency(s.Remaining()),
			fm.Percent(s.Percentage),
			bar(s.Percentage, 20),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, s := range o.Over() {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Over budget: %s by %s",
			statusLabel(s), fm.Currency(-s.Remaining()))))
	}
	return nil
}

func statusLabel(s view.BudgetStatus) string {
	if s.Category == nil {
		return "Tổng"
	}
	return cli.CategoryBadge(*s.Category)
}
