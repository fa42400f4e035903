package main

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/photodiary/internal/server/config"
	"github.com/dmitrijs2005/photodiary/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withDB(cmd.Context(), func(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error {
				if err := rm.RunMigrations(cmd.Context(), db); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.DatabaseDriver)
				return nil
			})
		},
	}
}
