package main

import (
	"fmt"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(rt *runtime) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every command migrates on open; this one is for doing it explicitly or
checking where the schema stands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if rt.settings.Storage.Backend != storage.BackendSQLite {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("The %s backend has no schema to migrate.", rt.settings.Storage.Backend)))
				return nil
			}

			path := rt.settings.Database.Path
			rt.logger.Info("Starting database migration", "database", path, "status_only", status)

			db, err := storage.NewSQLiteStorage(path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer rt.closeStorage(db)

			if status {
				current, err := db.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Database:        %s\n", path)
				fmt.Fprintf(out, "Current version: %d\n", current)
				fmt.Fprintf(out, "Latest version:  %d\n", storage.ExpectedSchemaVersion)
				if current < storage.ExpectedSchemaVersion {
					fmt.Fprintln(out, cli.FormatWarning("Migrations pending; run `expensive migrate`."))
				}
				return nil
			}

			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Database is at schema version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the migration status without applying changes")
	return cmd
}
