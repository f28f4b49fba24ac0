package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"market-insights-service/internal/analytics/core/domain"
)

// WriteHTML renders a page with the stacked daily series and the breakdown.
func WriteHTML(w io.Writer, d *domain.Dashboard) error {
	page := components.NewPage()
	page.PageTitle = "Market dashboard"
	page.AddCharts(seriesChart(d), breakdownChart(d))
	return page.Render(w)
}

func seriesChart(d *domain.Dashboard) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Records per day by " + d.Dimension,
			Subtitle: d.Range.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
	)

	bar.SetXAxis(dateStrings(d.Aggregation.Dates))
	for _, s := range d.Aggregation.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Key, data)
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))

	return bar
}

func breakdownChart(d *domain.Dashboard) *charts.Pie {
	data := make([]opts.PieData, 0, len(d.Aggregation.Breakdown))
	for _, b := range d.Aggregation.Breakdown {
		data = append(data, opts.PieData{Name: b.Key, Value: b.Total})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Breakdown by " + d.Dimension}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c} ({d}%)",
		}),
	)
	pie.AddSeries(d.Dimension, data)
	return pie
}
