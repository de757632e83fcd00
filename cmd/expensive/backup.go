package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Aliases: []string{"checkpoint"},
		Short:   "Manage database backups",
		Long: `Create, list, restore, and delete backups of the SQLite database.

Backups save the current state before risky changes so it can be brought
back later. "expensive import" of a JSON file makes one automatically.`,
		Example: `  # Back up before cleaning up
  expensive backup create --tag before-cleanup

  # List all backups
  expensive backup list

  # Go back to a backup
  expensive backup restore before-cleanup

  # Delete an old backup
  expensive backup delete before-cleanup`,
	}

	cmd.AddCommand(createBackupCmd(rt))
	cmd.AddCommand(listBackupsCmd(rt))
	cmd.AddCommand(restoreBackupCmd(rt))
	cmd.AddCommand(deleteBackupCmd(rt))

	return cmd
}

// withManager runs fn with a checkpoint manager on the configured database.
func (rt *runtime) withManager(ctx context.Context, fn func(*storage.CheckpointManager) error) error {
	db, err := rt.initSQLite(ctx)
	if err != nil {
		return err
	}
	defer rt.closeStorage(db)

	manager, err := db.NewCheckpointManager()
	if err != nil {
		return fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return fn(manager)
}

// autoCheckpoint snapshots db before operation and returns the backup id.
func autoCheckpoint(cmd *cobra.Command, db *storage.SQLiteStorage, operation string) (string, error) {
	manager, err := db.NewCheckpointManager()
	if err != nil {
		return "", err
	}
	info, err := manager.AutoCheckpoint(cmd.Context(), operation)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func createBackupCmd(rt *runtime) *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new backup",
		Long:  `Create a snapshot of the current database state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return rt.withManager(ctx, func(manager *storage.CheckpointManager) error {
				info, err := manager.Create(ctx, tag, description)
				if err != nil {
					return fmt.Errorf("failed to create backup: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s Created backup %s (%s, %d expenses)\n",
					cli.SuccessStyle.Render(cli.SuccessIcon),
					cli.InfoStyle.Render(info.ID),
					formatFileSize(info.FileSize),
					info.Expenses)
				if info.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", info.Description)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "backup name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the backup is for")

	return cmd
}

func listBackupsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return rt.withManager(ctx, func(manager *storage.CheckpointManager) error {
				checkpoints, err := manager.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list backups: %w", err)
				}

				if len(checkpoints) == 0 {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("No backups found."))
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, strings.Join([]string{
					cli.TableHeaderStyle.Render("NAME"),
					cli.TableHeaderStyle.Render("CREATED"),
					cli.TableHeaderStyle.Render("SIZE"),
					cli.TableHeaderStyle.Render("EXPENSES"),
					cli.TableHeaderStyle.Render("TYPE"),
				}, "\t"))

				for _, cp := range checkpoints {
					typeLabel := "manual"
					if cp.IsAuto {
						typeLabel = "auto"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
						cli.InfoStyle.Render(cp.ID),
						format.RelativeTime(cp.CreatedAt, rt.now()),
						formatFileSize(cp.FileSize),
						cp.Expenses,
						cli.SubtitleStyle.Render(typeLabel),
					)
				}
				return w.Flush()
			})
		},
	}
}

func restoreBackupCmd(rt *runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <backup-id>",
		Short: "Restore the database from a backup",
		Long:  `Replace the current database with a backup.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			id := args[0]

			// Restore closes the manager's connection itself.
			db, err := rt.initSQLite(ctx)
			if err != nil {
				return err
			}
			manager, err := db.NewCheckpointManager()
			if err != nil {
				rt.closeStorage(db)
				return fmt.Errorf("failed to create checkpoint manager: %w", err)
			}

			info, err := manager.Info(ctx, id)
			if err != nil {
				rt.closeStorage(db)
				return fmt.Errorf("failed to get backup info: %w", err)
			}

			if !force {
				fmt.Fprintf(out, "%s This will replace your current data with backup %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(id))
				fmt.Fprintf(out, "  Created: %s\n", format.DateTime(info.CreatedAt))
				if info.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", info.Description)
				}

				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Continue?")
				if err != nil || !ok {
					rt.closeStorage(db)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, cli.SubtitleStyle.Render("Restore cancelled."))
					return nil
				}
			}

			if err := manager.Restore(ctx, id); err != nil {
				return fmt.Errorf("failed to restore backup: %w", err)
			}

			fmt.Fprintf(out, "%s Restored from backup %s (%d expenses)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id),
				info.Expenses)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func deleteBackupCmd(rt *runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <backup-id>",
		Short: "Delete a backup",
		Long:  `Permanently remove a backup.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			id := args[0]

			return rt.withManager(ctx, func(manager *storage.CheckpointManager) error {
				info, err := manager.Info(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to get backup info: %w", err)
				}

				if !force {
					fmt.Fprintf(out, "%s This will permanently delete backup %s.\n",
						cli.WarningStyle.Render(cli.WarningIcon),
						cli.InfoStyle.Render(id))
					fmt.Fprintf(out, "  Created: %s\n", format.DateTime(info.CreatedAt))
					fmt.Fprintf(out, "  Size: %s\n", formatFileSize(info.FileSize))

					ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Continue?")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, cli.SubtitleStyle.Render("Deletion cancelled."))
						return nil
					}
				}

				if err := manager.Delete(ctx, id); err != nil {
					return fmt.Errorf("failed to delete backup: %w", err)
				}

				fmt.Fprintf(out, "%s Deleted backup %s\n",
					cli.SuccessStyle.Render(cli.SuccessIcon),
					cli.InfoStyle.Render(id))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
