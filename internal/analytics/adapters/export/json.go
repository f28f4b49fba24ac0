package export

import (
	"encoding/json"
	"io"
	"time"

	"market-insights-service/internal/analytics/core/domain"
)

type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Preset      string    `json:"preset"`
	Dimension   string    `json:"dimension"`
	Metric      string    `json:"metric,omitempty"`
	Start       string    `json:"start"`
	End         string    `json:"end"`

	Dates     []string       `json:"dates"`
	Series    []ReportSeries `json:"series"`
	Breakdown []ReportTotal  `json:"breakdown"`

	Selection ReportStatistics `json:"selection"`
	Overall   ReportStatistics `json:"overall"`

	Skipped int `json:"skipped"`
	Unknown int `json:"unknown"`
}

type ReportSeries struct {
	Key    string    `json:"key"`
	Values []float64 `json:"values"`
}

type ReportTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

type ReportStatistics struct {
	Count             int     `json:"count"`
	Total             float64 `json:"total"`
	Average           float64 `json:"average"`
	Median            float64 `json:"median"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	StandardDeviation float64 `json:"standard_deviation"`
}

func toReportStatistics(s domain.Statistics) ReportStatistics {
	return ReportStatistics(s)
}

func NewReport(id string, d *domain.Dashboard) Report {
	r := Report{
		ID:          id,
		GeneratedAt: d.GeneratedAt,
		Preset:      d.Preset,
		Dimension:   d.Dimension,
		Metric:      d.Metric,
		Start:       d.Range.Start.Format(domain.DateLayout),
		End:         d.Range.End.Format(domain.DateLayout),
		Dates:       dateStrings(d.Aggregation.Dates),
		Series:      make([]ReportSeries, 0, len(d.Aggregation.Series)),
		Breakdown:   make([]ReportTotal, 0, len(d.Aggregation.Breakdown)),
		Selection:   toReportStatistics(d.Selection),
		Overall:     toReportStatistics(d.Overall),
		Skipped:     d.Skipped + d.Aggregation.Skipped,
		Unknown:     d.Aggregation.Unknown,
	}
	for _, s := range d.Aggregation.Series {
		r.Series = append(r.Series, ReportSeries{Key: s.Key, Values: s.Values})
	}
	for _, b := range d.Aggregation.Breakdown {
		r.Breakdown = append(r.Breakdown, ReportTotal{Key: b.Key, Total: b.Total})
	}
	return r
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
