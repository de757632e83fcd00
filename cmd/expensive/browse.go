package main

import (
	"fmt"

	"github.com/hunglv/expensive/internal/tui"
	"github.com/hunglv/expensive/internal/tui/themes"
	"github.com/spf13/cobra"
)

func browseCmd(rt *runtime) *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse, filter and delete expenses interactively",
		Long: `Open the interactive history browser.

Keys: s cycles the sort field, o flips the order, c cycles the category,
/ searches descriptions, d deletes (confirm with y), q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			th, ok := themes.ByName(theme)
			if !ok {
				return fmt.Errorf("unknown theme %q (expected dark or light)", theme)
			}

			st, kv, err := rt.openStore(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			f, err := rt.formatter()
			if err != nil {
				return err
			}

			return tui.Run(ctx, st,
				tui.WithTheme(th),
				tui.WithFormatter(f),
				tui.WithLogger(rt.logger),
			)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "dark", "color theme: dark or light")
	return cmd
}
