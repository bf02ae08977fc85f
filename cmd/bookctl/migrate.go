package main

import (
	"fmt"

	"github.com/Yaswanth0403/BookHaven/internal/database"
	"github.com/Yaswanth0403/BookHaven/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return database.RunMigrations(db.DB(), migrations.FS, a.logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				if err := database.MigrateDown(db.DB(), migrations.FS); err != nil {
					return fmt.Errorf("failed to roll back migration: %w", err)
				}
				a.logger.Info("Rolled back one migration")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return database.GetMigrationStatus(db.DB(), migrations.FS)
			},
		},
	)

	return cmd
}
