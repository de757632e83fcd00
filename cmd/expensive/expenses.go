package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/store"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/cobra"
)

// expenseFlags are the fields add and edit accept on the command line.
type expenseFlags struct {
	amount      string
	description string
	category    string
	date        string
}

func (f *expenseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount in whole currency units, e.g. 50000 or 50.000")
	cmd.Flags().StringVarP(&f.description, "description", "m", "", "what the money was spent on")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date spent, YYYY-MM-DD (default today)")
}

// expenseForm checks the typed fields and converts them. Description is
// free text and never fails.
func expenseForm(v *validate.Validator, catalog []model.Category, f expenseFlags) (model.ExpenseInput, error) {
	res := validate.Form(
		map[string]string{"amount": f.amount, "category": f.category, "date": f.date},
		[]validate.FieldRule{
			{Field: "amount", Label: "Số tiền", Required: true, Validator: v.ExpenseAmount},
			{Field: "category", Label: "Danh mục", Required: true, Validator: func(s string) validate.Result {
				id, err := resolveCategory(catalog, s)
				if err != nil {
					return validate.CategoryID(catalog, model.UncategorizedID)
				}
				return validate.CategoryID(catalog, id)
			}},
			{Field: "date", Label: "Ngày", Validator: v.Date},
		},
	)
	if !res.IsValid {
		return model.ExpenseInput{}, common.NewUserError(res.FirstError, common.ErrInvalidInput)
	}

	amount, _ := validate.ParseAmount(f.amount)
	categoryID, _ := resolveCategory(catalog, f.category)
	in := model.ExpenseInput{
		Description: f.description,
		Amount:      amount,
		CategoryID:  categoryID,
	}
	if f.date != "" {
		in.Date, _ = model.ParseDate(f.date)
	}
	return in, nil
}

// promptExpense walks through every field, offering cur as the defaults.
func promptExpense(ctx context.Context, p *cli.Prompter, v *validate.Validator, catalog []model.Category, cur model.ExpenseInput) (model.ExpenseInput, error) {
	desc, err := p.Ask(ctx, "Description", cur.Description)
	if err != nil {
		return model.ExpenseInput{}, err
	}

	amountDefault := ""
	if cur.Amount > 0 {
		amountDefault = strconv.FormatInt(cur.Amount, 10)
	}
	amountText, err := p.AskValid(ctx, "Amount", amountDefault, v.ExpenseAmount)
	if err != nil {
		return model.ExpenseInput{}, err
	}
	amount, _ := validate.ParseAmount(amountText)

	categoryID, err := p.ChooseCategory(ctx, catalog, cur.CategoryID)
	if err != nil {
		return model.ExpenseInput{}, err
	}

	dateText, err := p.AskValid(ctx, "Date (YYYY-MM-DD)", cur.Date.String(), v.Date)
	if err != nil {
		return model.ExpenseInput{}, err
	}
	date, _ := model.ParseDate(dateText)

	return model.ExpenseInput{
		Description: desc,
		Amount:      amount,
		CategoryID:  categoryID,
		Date:        date,
	}, nil
}

func describeExpense(f *format.Formatter, catalog []model.Category, e model.Expense) string {
	desc := e.Description
	if desc == "" {
		desc = "(no description)"
	}
	return fmt.Sprintf("%s · %s · %s · %s",
		format.Truncate(desc, 40),
		f.Currency(e.Amount),
		view.CategoryOrPlaceholder(catalog, e.CategoryID).Label(),
		format.DateShort(e.Date))
}

func printSaved(cmd *cobra.Command, st *store.Store, message string) {
	out := cmd.OutOrStdout()
	if warning := saveWarning(st); warning != "" {
		fmt.Fprintln(out, cli.FormatWarning(warning))
		return
	}
	fmt.Fprintln(out, cli.FormatSuccess(message))
}

func addCmd(rt *runtime) *cobra.Command {
	var flags expenseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record a new expense. Without --amount the fields are asked for
interactively.`,
		Example: `  # Lunch today, in the default category
  expensive add --amount 50000 --description "Cơm trưa" --category 1

  # Ask for everything
  expensive add`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			f, err := rt.formatter()
			if err != nil {
				return err
			}
			v := rt.validator(f)
			catalog := st.Categories()

			var in model.ExpenseInput
			if cmd.Flags().Changed("amount") {
				if flags.category == "" {
					flags.category = strconv.Itoa(rt.settings.Expense.DefaultCategory)
				}
				in, err = expenseForm(v, catalog, flags)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("New expense"))
				p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				in, err = promptExpense(ctx, p, v, catalog, model.ExpenseInput{
					Description: flags.description,
					CategoryID:  rt.settings.Expense.DefaultCategory,
					Date:        model.DateOf(rt.now()),
				})
			}
			if err != nil {
				return err
			}

			e, err := st.Add(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to add expense: %w", err)
			}
			rt.logger.Debug("Expense added", "id", e.ID, "amount", e.Amount)

			printSaved(cmd, st, "Added "+describeExpense(f, catalog, e))
			fmt.Fprintf(cmd.OutOrStdout(), "  id: %s\n", e.ID)
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func editCmd(rt *runtime) *cobra.Command {
	var flags expenseFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an expense",
		Long: `Change an existing expense. The id may be shortened to any unique
prefix. Without field flags every field is asked for, defaulting to the
current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			existing, err := resolveExpense(st, args[0])
			if err != nil {
				return err
			}

			f, err := rt.formatter()
			if err != nil {
				return err
			}
			v := rt.validator(f)
			catalog := st.Categories()
			cur := existing.Input()

			changed := false
			for _, name := range []string{"amount", "description", "category", "date"} {
				changed = changed || cmd.Flags().Changed(name)
			}

			var in model.ExpenseInput
			if changed {
				merged := expenseFlags{
					amount:      strconv.FormatInt(cur.Amount, 10),
					description: cur.Description,
					category:    strconv.Itoa(cur.CategoryID),
					date:        cur.Date.String(),
				}
				if cmd.Flags().Changed("amount") {
					merged.amount = flags.amount
				}
				if cmd.Flags().Changed("description") {
					merged.description = flags.description
				}
				if cmd.Flags().Changed("category") {
					merged.category = flags.category
				}
				if cmd.Flags().Changed("date") {
					merged.date = flags.date
				}
				in, err = expenseForm(v, catalog, merged)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Edit "+describeExpense(f, catalog, existing)))
				p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				in, err = promptExpense(ctx, p, v, catalog, cur)
			}
			if err != nil {
				return err
			}

			updated, err := st.Update(ctx, existing.ID, in)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("expense %q: %w", existing.ID, errNoSuchExpense)
				}
				return fmt.Errorf("failed to update expense: %w", err)
			}

			printSaved(cmd, st, "Updated "+describeExpense(f, catalog, updated))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func deleteCmd(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Long:    `Permanently remove an expense. The id may be shortened to any unique prefix.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			e, err := resolveExpense(st, args[0])
			if errors.Is(err, errNoSuchExpense) {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No expense with id %q; nothing deleted.", args[0])))
				return nil
			}
			if err != nil {
				return err
			}

			f, err := rt.formatter()
			if err != nil {
				return err
			}
			summary := describeExpense(f, st.Categories(), e)

			if !yes {
				p := cli.NewPrompter(cmd.InOrStdin(), out)
				ok, err := p.Confirm(ctx, "Delete "+summary+"?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("Deletion cancelled."))
					return nil
				}
			}

			st.Delete(ctx, e.ID)
			printSaved(cmd, st, "Deleted "+summary)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
