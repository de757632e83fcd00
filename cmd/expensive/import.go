package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/ofx"
	"github.com/hunglv/expensive/internal/pattern"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/hunglv/expensive/internal/store"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/spf13/cobra"
)

// Import formats.
const (
	formatAuto = "auto"
	formatJSON = "json"
	formatOFX  = "ofx"
)

func detectFormat(path, requested string) (string, error) {
	switch strings.ToLower(requested) {
	case formatJSON, formatOFX:
		return strings.ToLower(requested), nil
	case formatAuto, "":
	default:
		return "", fmt.Errorf("unknown format %q (expected json or ofx)", requested)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".ofx", ".qfx":
		return formatOFX, nil
	default:
		return "", fmt.Errorf("cannot tell the format of %s; pass --format", filepath.Base(path))
	}
}

// recordProblem returns why an imported amount and category cannot be
// stored, or "" when they pass the same checks as typed input.
func recordProblem(v *validate.Validator, catalog []model.Category, amount int64, categoryID int) string {
	if r := v.ExpenseAmountValue(amount); !r.IsValid {
		return r.Message
	}
	if r := validate.CategoryID(catalog, categoryID); !r.IsValid {
		return r.Message
	}
	return ""
}

func (rt *runtime) importValidator() (*validate.Validator, error) {
	f, err := rt.formatter()
	if err != nil {
		return nil, err
	}
	return rt.validator(f), nil
}

func importCmd(rt *runtime) *cobra.Command {
	var (
		formatName string
		yes        bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import expenses from a JSON backup or a bank OFX/QFX file",
		Long: `Import expenses.

A JSON file (as written by "expensive export") replaces every expense and
is refused if any record has an amount outside the allowed range or an
unknown category. An OFX or QFX bank statement adds its debits as new
expenses, skipping ones that are already recorded or cannot be recorded. Each debit gets the category of the first
matching import rule (see import.rules in the config), or the default
category.`,
		Example: `  expensive import backup.json
  expensive import ~/Downloads/statement.qfx --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			kind, err := detectFormat(path, formatName)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			ctx := cmd.Context()
			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			if kind == formatJSON {
				return rt.importJSON(cmd, st, kv, data, yes, dryRun)
			}
			return rt.importOFX(cmd, st, data, dryRun)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", formatAuto, "file format: auto, json or ofx")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace existing expenses without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")
	return cmd
}

func (rt *runtime) importJSON(cmd *cobra.Command, st *store.Store, kv service.Storage, data []byte, yes, dryRun bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var expenses []model.Expense
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&expenses); err != nil {
		return fmt.Errorf("invalid expense file: %w", err)
	}

	v, err := rt.importValidator()
	if err != nil {
		return err
	}
	var problems []error
	for i, e := range expenses {
		if msg := recordProblem(v, st.Categories(), e.Amount, e.CategoryID); msg != "" {
			problems = append(problems, fmt.Errorf("record %d (%s): %s", i+1, e.ID, msg))
		}
	}
	if len(problems) > 0 {
		return common.NewUserError(
			fmt.Sprintf("invalid expense file: %d of %d records cannot be imported", len(problems), len(expenses)),
			fmt.Errorf("%w: %w", common.ErrInvalidInput, errors.Join(problems...)),
		)
	}

	fmt.Fprintf(out, "Found %d expenses.\n", len(expenses))
	if dryRun {
		fmt.Fprintln(out, cli.SubtitleStyle.Render("Dry run; nothing saved."))
		return nil
	}

	if n := len(st.Expenses()); n > 0 && !yes {
		p := cli.NewPrompter(cmd.InOrStdin(), out)
		ok, err := p.Confirm(ctx, fmt.Sprintf("Replace the %d expenses already recorded?", n))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.SubtitleStyle.Render("Import cancelled."))
			return nil
		}
	}

	if db, ok := kv.(*storage.SQLiteStorage); ok {
		if id, err := autoCheckpoint(cmd, db, "import"); err == nil {
			fmt.Fprintln(out, cli.FormatInfo("Previous data saved as backup "+id))
		}
	}

	if err := st.SetAll(ctx, expenses); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	printSaved(cmd, st, fmt.Sprintf("Imported %d expenses", len(expenses)))
	return nil
}

func (rt *runtime) importOFX(cmd *cobra.Command, st *store.Store, data []byte, dryRun bool) error {
	out := cmd.OutOrStdout()

	parser := ofx.NewParser(rt.settings.Expense.DefaultCategory,
		ofx.WithLogger(rt.logger),
		ofx.WithCurrency(rt.settings.Currency.Code),
	)
	inputs, err := parser.ParseFile(cmd.Context(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse OFX: %w", err)
	}

	matcher, err := pattern.NewMatcher(rt.settings.ImportRules())
	if err != nil {
		return err
	}
	v, err := rt.importValidator()
	if err != nil {
		return err
	}

	categorized := 0
	usable := make([]model.ExpenseInput, 0, len(inputs))
	for _, in := range inputs {
		in, ok := matcher.Categorize(in)
		if ok {
			categorized++
		}
		if msg := recordProblem(v, st.Categories(), in.Amount, in.CategoryID); msg != "" {
			rt.logger.Warn("Skipping unusable transaction", "description", in.Description, "amount", in.Amount, "reason", msg)
			continue
		}
		usable = append(usable, in)
	}

	seen := make(map[string]bool, len(st.Expenses()))
	for _, e := range st.Expenses() {
		seen[e.Input().Fingerprint()] = true
	}
	fresh := make([]model.ExpenseInput, 0, len(usable))
	for _, in := range usable {
		if !seen[in.Fingerprint()] {
			fresh = append(fresh, in)
		}
	}

	skipped := len(inputs) - len(usable)
	rt.logger.Info("Parsed OFX file",
		"debits", len(inputs),
		"new", len(fresh),
		"categorized", categorized,
		"skipped", skipped,
		"duplicates", len(usable)-len(fresh))
	fmt.Fprintf(out, "Found %d debits, %d new.\n", len(inputs), len(fresh))
	if skipped > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d debits outside the allowed amounts or categories.", skipped)))
	}

	if dryRun || len(fresh) == 0 {
		if dryRun {
			fmt.Fprintln(out, cli.SubtitleStyle.Render("Dry run; nothing saved."))
		}
		return nil
	}

	handler := cli.NewInterruptHandler(out, "Import")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	bar := cli.NewProgressBar(out, len(fresh), "Importing")
	added := 0
	for _, in := range fresh {
		if ctx.Err() != nil {
			break
		}
		if _, err := st.Add(ctx, in); err != nil {
			rt.logger.Warn("Skipping unusable transaction", "description", in.Description, "error", err)
			continue
		}
		added++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if handler.WasInterrupted() {
		fmt.Fprintf(out, "Imported %d of %d before stopping.\n", added, len(fresh))
		return nil
	}
	printSaved(cmd, st, fmt.Sprintf("Imported %d expenses", added))
	return nil
}
