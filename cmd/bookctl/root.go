package main

import (
	"github.com/Yaswanth0403/BookHaven/internal/config"
	"github.com/Yaswanth0403/BookHaven/internal/database"
	"github.com/Yaswanth0403/BookHaven/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once the root command has run
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "bookctl",
		Short: "Administrative tasks for the BookHaven store",
		Long: `bookctl manages a BookHaven deployment: it applies database migrations,
imports books into the catalog and creates administrator accounts.

Settings are read from the environment and from a .env file in the
working directory, the same way the API server reads them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			a.cfg = config.Load()
			log, err := logger.New(a.cfg.Server.Env, a.cfg.Server.LogLevel)
			if err != nil {
				return err
			}
			a.logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.AddCommand(
		newMigrateCmd(a),
		newImportCmd(a),
		newCreateAdminCmd(a),
	)

	return cmd
}

func (a *app) openDatabase() (database.Service, error) {
	return database.New(a.cfg.Database)
}
