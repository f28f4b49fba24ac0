package cli

import (
	"github.com/spf13/cobra"
)

func (app *App) availabilityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Show the date range covered by the record store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			console := app.console(cmd)

			cfg, stores, err := app.stores(cmd, false)
			if err != nil {
				return err
			}
			defer stores.Close()

			loc, err := cfg.Dashboard.TimeLocation()
			if err != nil {
				return err
			}
			r, err := stores.Reader.AvailableRange(cmd.Context(), loc)
			if err != nil {
				return err
			}
			if r == nil {
				console.LogWarning("The record store is empty")
				return nil
			}

			console.LogInfo("Records available from %s to %s (%d days, %s)",
				r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), r.Days(), loc)
			rows := make([][]string, 0)
			for _, p := range r.Periods() {
				rows = append(rows, []string{p})
			}
			console.Table([]string{"PERIOD"}, rows)
			return nil
		},
	}
}
