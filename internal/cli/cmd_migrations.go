package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/store"
)

func newMigrationsCommand(deps *commandDeps) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrations",
		Short: "Apply pending schema migrations",
		Long:  "Apply pending schema migrations. The database file is created if it does not exist.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithStore(cmd, deps, false, func(ctx context.Context, rt *session) error {
				applied, err := rt.store.ApplyMigrations(ctx)
				if err != nil {
					return err
				}
				version, err := rt.store.SchemaVersion(ctx)
				if err != nil {
					return err
				}

				if applied == 0 {
					rt.printer.Info("Schema is up to date (version %d).", version)
				} else {
					rt.printer.Success("Migrated", "applied %s; schema is at version %d",
						describeCount(applied, "migration"), version)
				}
				if list {
					return printMigrations(ctx, rt)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List every migration and when it was applied")
	return cmd
}

func printMigrations(ctx context.Context, rt *session) error {
	applied, err := rt.store.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	at := make(map[int]store.AppliedMigration, len(applied))
	for _, m := range applied {
		at[m.Version] = m
	}

	rt.printer.Blank()
	rt.printer.Heading("Migrations")
	for _, m := range store.Migrations() {
		if a, ok := at[m.Version]; ok {
			rt.printer.Info("v%d  %s  applied %s", m.Version, m.Description,
				a.AppliedAt.Local().Format(rt.cfg.Display.DateFormat))
			continue
		}
		rt.printer.Info("v%d  %s  pending", m.Version, m.Description)
	}
	return nil
}
