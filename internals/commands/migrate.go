package commands

import (
	"github.com/spf13/cobra"

	database "ministryhub_backend/internals/databases"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()
			return database.RunMigrations(rt.db, rt.cfg.Database.Driver, rt.log)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last N migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()
			return database.RollbackMigrations(rt.db, rt.cfg.Database.Driver, steps, rt.log)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}
