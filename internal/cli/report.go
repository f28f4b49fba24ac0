package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"market-insights-service/internal/analytics/adapters/export"
	"market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/analytics/core/usecase"
)

const formatTable = "table"

func (app *App) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a dashboard for a date window and print or export it",
		RunE:  app.runReport,
	}
	cmd.Flags().StringP("preset", "p", "", "Date window: "+strings.Join(usecase.Presets(), ", ")+" (default from config)")
	cmd.Flags().String("from", "", "Custom range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Custom range end (YYYY-MM-DD)")
	cmd.Flags().StringP("dimension", "g", "", "Grouping: "+strings.Join(domain.Dimensions, ", ")+" (default from config)")
	cmd.Flags().StringP("metric", "m", "", "Numeric value for statistics, e.g. response_time_ms")
	cmd.Flags().StringP("format", "f", formatTable, "Output: table, "+strings.Join(export.Formats(), ", "))
	cmd.Flags().StringP("dir", "d", "", "Directory for exported files (default: current directory)")
	return cmd
}

func reportInput(cmd *cobra.Command, defaultPreset, defaultDimension string) (usecase.GetDashboardInput, error) {
	preset, _ := cmd.Flags().GetString("preset")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	dimension, _ := cmd.Flags().GetString("dimension")
	metric, _ := cmd.Flags().GetString("metric")

	if dimension == "" {
		dimension = defaultDimension
	}
	in := usecase.GetDashboardInput{Preset: preset, Dimension: dimension, Metric: metric}

	switch {
	case from == "" && to == "":
		if in.Preset == "" {
			in.Preset = defaultPreset
		}
	case from == "" || to == "":
		return in, fmt.Errorf("--from and --to must be given together")
	default:
		r, err := domain.NewDateRange(from, to)
		if err != nil {
			return in, err
		}
		in.Custom = &r
		if in.Preset == "" {
			in.Preset = usecase.PresetCustom
		}
	}
	return in, nil
}

func (app *App) runReport(cmd *cobra.Command, _ []string) error {
	console := app.console(cmd)

	format, _ := cmd.Flags().GetString("format")
	if format != formatTable && !slices.Contains(export.Formats(), format) {
		return fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, format)
	}

	cfg, stores, err := app.stores(cmd, false)
	if err != nil {
		return err
	}
	defer stores.Close()

	in, err := reportInput(cmd, cfg.Dashboard.DefaultPreset, cfg.Dashboard.DefaultDimension)
	if err != nil {
		return err
	}

	loc, err := cfg.Dashboard.TimeLocation()
	if err != nil {
		return err
	}
	uc := usecase.NewGetDashboardUseCase(stores.Reader, usecase.NewResolver(usecase.WithLocation(loc)), loc)

	stop := console.Status("Building dashboard")
	d, err := uc.Execute(cmd.Context(), in)
	stop()
	if err != nil {
		return err
	}

	if format == formatTable {
		printDashboard(console, d)
		return nil
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	} else if dir, err = filepath.Abs(dir); err != nil {
		return err
	}

	path, meta, err := export.New().WriteFile(dir, format, d)
	if err != nil {
		return err
	}
	console.LogSuccess("%s report %s saved to %s", strings.ToUpper(meta.Format), meta.ID, path)
	return nil
}

func printDashboard(c *Console, d *domain.Dashboard) {
	c.LogInfo("Range %s (%s), dimension %s", d.Range, d.Preset, d.Dimension)
	if d.Available != nil {
		c.LogInfo("Data available %s", d.Available)
	} else {
		c.LogWarning("The record store is empty")
	}
	c.LogInfo("Periods %s: %d fetched, %d in range, %d skipped",
		strings.Join(d.Periods, ", "), d.Fetched, d.Filtered, d.Skipped)
	if d.Aggregation.Unknown > 0 {
		c.LogWarning("%d records without %s counted as %s", d.Aggregation.Unknown, d.Dimension, domain.UnknownCategory)
	}

	c.DailyBars("Daily totals", d.Aggregation.Dates, d.Aggregation.DailyTotals())

	total := d.Aggregation.Total()
	rows := make([][]string, 0, len(d.Aggregation.Breakdown))
	for _, b := range d.Aggregation.Breakdown {
		share := 0.0
		if total > 0 {
			share = b.Total / total * 100
		}
		rows = append(rows, []string{b.Key, formatFloat(b.Total), fmt.Sprintf("%.1f%%", share)})
	}
	c.Table([]string{strings.ToUpper(d.Dimension), "TOTAL", "SHARE"}, rows)

	sampleName := "daily totals"
	if d.Metric != "" {
		sampleName = d.Metric
	}
	c.LogInfo("Statistics over %s", sampleName)
	c.Table([]string{"STATISTIC", "SELECTION", "OVERALL"}, statisticsRows(d.Selection, d.Overall))
}

func statisticsRows(sel, all domain.Statistics) [][]string {
	row := func(name string, a, b float64) []string {
		return []string{name, formatFloat(a), formatFloat(b)}
	}
	return [][]string{
		{"count", fmt.Sprint(sel.Count), fmt.Sprint(all.Count)},
		row("total", sel.Total, all.Total),
		row("average", sel.Average, all.Average),
		row("median", sel.Median, all.Median),
		row("min", sel.Min, all.Min),
		row("max", sel.Max, all.Max),
		row("std dev", sel.StandardDeviation, all.StandardDeviation),
	}
}
