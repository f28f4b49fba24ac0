package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"market-insights-service/internal/bootstrap"
	"market-insights-service/internal/config"
)

// App is the dashctl command tree.
type App struct {
	rootCmd *cobra.Command
	version string

	// overridable in tests
	loadConfig func(path string) (*config.Config, error)
	openStores func(ctx context.Context, cfg *config.Config, opts bootstrap.Options) (*bootstrap.Stores, error)
}

func NewApp(version string) *App {
	app := &App{
		version:    version,
		loadConfig: config.LoadOrDefault,
		openStores: bootstrap.OpenStores,
	}

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Market insights dashboard CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "dashctl version: %s\n" .Version}}`)
	root.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	root.PersistentFlags().Bool("spinner", false, "Show progress spinners")

	root.AddCommand(
		app.reportCommand(),
		app.availabilityCommand(),
		app.migrateCommand(),
		app.importCommand(),
		app.replaySectionsCommand(),
	)

	app.rootCmd = root
	return app
}

// Execute runs the CLI with os.Args.
func (app *App) Execute() error {
	return app.rootCmd.ExecuteContext(context.Background())
}

func (app *App) console(cmd *cobra.Command) *Console {
	c := NewConsole(cmd.OutOrStdout())
	c.Spinner, _ = cmd.Flags().GetBool("spinner")
	return c
}

func (app *App) config(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config-file")
	return app.loadConfig(path)
}

// stores loads config and opens the record store it names.
func (app *App) stores(cmd *cobra.Command, migrate bool) (*config.Config, *bootstrap.Stores, error) {
	cfg, err := app.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := app.openStores(cmd.Context(), cfg, bootstrap.Options{
		Migrate: migrate,
		Logger:  log.New(cmd.ErrOrStderr(), "dashctl: ", 0),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}
