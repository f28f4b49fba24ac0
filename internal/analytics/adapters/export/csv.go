package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"market-insights-service/internal/analytics/core/domain"
)

// WriteCSV writes one row per date with a column per category and a
// trailing total column.
func WriteCSV(w io.Writer, d *domain.Dashboard) error {
	cw := csv.NewWriter(w)
	agg := d.Aggregation

	header := make([]string, 0, len(agg.Series)+2)
	header = append(header, "date")
	for _, s := range agg.Series {
		header = append(header, s.Key)
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	totals := agg.DailyTotals()
	for i, day := range dateStrings(agg.Dates) {
		row := make([]string, 0, len(header))
		row = append(row, day)
		for _, s := range agg.Series {
			row = append(row, formatNumber(s.Values[i]))
		}
		row = append(row, formatNumber(totals[i]))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
