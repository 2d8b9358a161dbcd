package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jantrick/jantrick/pkg/app"
	"github.com/jantrick/jantrick/pkg/migration"
)

// withMigrator boots the app and hands fn a migration runner.
func withMigrator(cmd *cobra.Command, fn func(*migration.Runner) error) error {
	a, err := app.Boot(cmd.Context(), envFiles...)
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context()) //nolint:errcheck

	m, err := a.Migrator()
	if err != nil {
		return err
	}
	return fn(m)
}

// jantrick migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migration.Runner) error {
				n, err := m.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d migration(s).\n", n)
				return nil
			})
		},
	}
}

// jantrick migrate:rollback
func newMigrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Rollback the last batch of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migration.Runner) error {
				n, err := m.Rollback(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s).\n", n)
				return nil
			})
		},
	}
}

// jantrick migrate:status
func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migration.Runner) error {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
				for _, s := range statuses {
					ran, batch := "No", "-"
					if s.Ran {
						ran, batch = "Yes", fmt.Sprint(s.Batch)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
				}
				return w.Flush()
			})
		},
	}
}

// jantrick seed
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run all database seeders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Boot(cmd.Context(), envFiles...)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context()) //nolint:errcheck

			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return a.Seed(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
