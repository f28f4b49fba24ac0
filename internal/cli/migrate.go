package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"market-insights-service/internal/bootstrap"
	"market-insights-service/internal/records/adapters/sqlstore"
)

func (app *App) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the SQL record store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			console := app.console(cmd)

			cfg, err := app.config(cmd)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != sqlstore.DriverPostgres && cfg.Store.Driver != sqlstore.DriverSQLite {
				return fmt.Errorf("migrate: %w (driver %s)", bootstrap.ErrReadOnlyStore, cfg.Store.Driver)
			}

			stores, err := app.openStores(cmd.Context(), cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer stores.Close()

			applied, err := sqlstore.NewMigrationRunner(stores.DB, cfg.Store.Driver).Run(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				console.LogInfo("Schema is up to date")
				return nil
			}
			console.LogSuccess("Applied migrations %v", applied)
			return nil
		},
	}
}
