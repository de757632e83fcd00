package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/cobra"
)

// queryFlags narrow a listing without touching the saved filters.
type queryFlags struct {
	category string
	from     string
	to       string
	window   string
	sortBy   string
	order    string
	search   string
}

func (q *queryFlags) bindFilter(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.category, "category", "c", "", `category id or name ("all" ignores the saved category)`)
	cmd.Flags().StringVar(&q.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&q.window, "window", "w", "", "date window: today, this_week, this_month, this_year, all")
	cmd.Flags().StringVarP(&q.sortBy, "sort", "s", "", "sort by date, amount or category")
	cmd.Flags().StringVarP(&q.order, "order", "o", "", "sort order, asc or desc")
}

// patch turns the flags into a filter patch. Flags left empty keep the
// current value.
func (q queryFlags) patch(catalog []model.Category, rt *runtime) (model.FilterPatch, error) {
	var p model.FilterPatch

	switch strings.ToLower(strings.TrimSpace(q.category)) {
	case "":
	case "all":
		p.ClearCategory = true
	default:
		id, err := resolveCategory(catalog, q.category)
		if err != nil {
			return p, err
		}
		p.Category = &id
	}

	if q.window != "" && (q.from != "" || q.to != "") {
		return p, fmt.Errorf("use either --window or --from/--to")
	}
	if q.window != "" {
		r, err := parseWindow(q.window, rt.now())
		if err != nil {
			return p, err
		}
		p.DateRange = r
		p.ClearDateRange = r == nil
	} else {
		r, err := parseDateRange(q.from, q.to)
		if err != nil {
			return p, err
		}
		p.DateRange = r
	}

	if q.sortBy != "" {
		by, err := model.ParseSortField(q.sortBy)
		if err != nil {
			return p, err
		}
		p.SortBy = &by
	}
	if q.order != "" {
		order, err := model.ParseSortOrder(q.order)
		if err != nil {
			return p, err
		}
		p.SortOrder = &order
	}
	return p, nil
}

func listCmd(rt *runtime) *cobra.Command {
	var (
		query  queryFlags
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses",
		Long: `List expenses using the saved filters (see "expensive filter").
Flags narrow this one listing without changing the saved filters.`,
		Example: `  expensive list --window this_month --sort amount
  expensive list --category "Ăn uống" --search cafe`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			catalog := st.Categories()
			patch, err := query.patch(catalog, rt)
			if err != nil {
				return err
			}
			f := st.Filters().Apply(patch)
			rows := view.Search(view.Filter(st.Expenses(), f), query.search)
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			fm, err := rt.formatter()
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				if len(st.Expenses()) == 0 {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("No expenses yet. Record one with `expensive add`."))
				} else {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("No expenses match these filters."))
				}
				return nil
			}

			writeExpenseTable(out, fm, catalog, rows)
			fmt.Fprintf(out, "\n%d / %d shown · Total: %s\n",
				len(rows), len(st.Expenses()),
				cli.AmountStyle.Render(fm.Currency(view.Total(rows))))
			return nil
		},
	}

	query.bindFilter(cmd)
	cmd.Flags().StringVarP(&query.search, "search", "q", "", "only descriptions containing this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many expenses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeExpenseTable(out io.Writer, fm *format.Formatter, catalog []model.Category, rows []model.Expense) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join([]string{
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("DATE"),
		cli.TableHeaderStyle.Render("DESCRIPTION"),
		cli.TableHeaderStyle.Render("CATEGORY"),
		cli.TableHeaderStyle.Render("AMOUNT"),
	}, "\t"))

	for _, e := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			format.DateShort(e.Date),
			format.Truncate(e.Description, 40),
			view.CategoryOrPlaceholder(catalog, e.CategoryID).Label(),
			fm.Currency(e.Amount),
		)
	}
	_ = w.Flush()
}

func summaryCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show spending statistics",
		Long: `Show totals for all time, this month and today, plus this month's
breakdown by category and, when budgets are set, budget against actual.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			fm, err := rt.formatter()
			if err != nil {
				return err
			}

			now := rt.now()
			s := view.Summarize(st.Expenses(), st.Categories(), now)

			overview := strings.Join([]string{
				fmt.Sprintf("Total:          %s", cli.AmountStyle.Render(fm.Currency(s.Total))),
				fmt.Sprintf("This month:     %s", cli.AmountStyle.Render(fm.Currency(s.MonthlyTotal))),
				fmt.Sprintf("Today:          %d expense(s)", s.TodayCount),
				fmt.Sprintf("Daily average:  %s", fm.CurrencyFloat(s.DailyAverage)),
			}, "\n")
			fmt.Fprintln(out, cli.RenderBox(cli.WalletIcon+" Overview", overview))

			fmt.Fprintln(out, cli.TitleStyle.Render(fmt.Sprintf("%s By category, %s", cli.ChartIcon, fm.Capitalize(monthLabel(model.MonthOf(now))))))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, share := range s.ByCategory {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					cli.CategoryBadge(share.Category),
					share.Count,
					fm.Currency(share.Total),
					fm.Percent(share.Percentage),
					bar(share.Percentage, 20),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			book, err := rt.openBook(ctx, kv)
			if err != nil {
				return err
			}
			month := model.MonthOf(now)
			budgets := book.Month(month)
			if len(budgets) == 0 {
				return nil
			}
			o := view.Budgets(st.Expenses(), budgets, st.Categories(), month)
			fmt.Fprintln(out, cli.TitleStyle.Render(fmt.Sprintf("%s Budget, %s", cli.WalletIcon, monthLabel(month))))
			return printBudgets(out, fm, o)
		},
	}
}

func monthLabel(m model.Month) string {
	return fmt.Sprintf("tháng %d/%d", int(m.Month), m.Year)
}

// bar draws pct (0-100) as a fixed-width gauge.
func bar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func categoriesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("CATEGORY"),
				cli.TableHeaderStyle.Render("COLOR"),
			}, "\t"))
			for _, c := range rt.settings.Catalog() {
				marker := ""
				if c.ID == rt.settings.Expense.DefaultCategory {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%d\t%s%s\t%s\n", c.ID, cli.CategoryBadge(c), marker, c.Color)
			}
			return w.Flush()
		},
	}
}
