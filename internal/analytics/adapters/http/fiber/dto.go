package fiber

import (
	"market-insights-service/internal/analytics/core/domain"
)

type DateRangeResponse struct {
	Start string `json:"start" example:"2024-05-02"`
	End   string `json:"end" example:"2024-06-01"`
}

type StatisticsResponse struct {
	Count             int     `json:"count"`
	Total             float64 `json:"total"`
	Average           float64 `json:"average"`
	Median            float64 `json:"median"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	StandardDeviation float64 `json:"standard_deviation"`
}

type SeriesResponse struct {
	Key    string    `json:"key"`
	Values []float64 `json:"values"`
}

type BreakdownResponse struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

type DashboardResponse struct {
	Preset    string             `json:"preset"`
	Dimension string             `json:"dimension"`
	Metric    string             `json:"metric,omitempty"`
	Range     DateRangeResponse  `json:"range"`
	Available *DateRangeResponse `json:"available,omitempty"`

	Dates     []string            `json:"dates"`
	Series    []SeriesResponse    `json:"series"`
	Breakdown []BreakdownResponse `json:"breakdown"`

	Selection StatisticsResponse `json:"selection"`
	Overall   StatisticsResponse `json:"overall"`

	Fetched  int `json:"fetched"`
	Filtered int `json:"filtered"`
	Skipped  int `json:"skipped"`
	Unknown  int `json:"unknown"`
}

type AvailabilityResponse struct {
	Empty bool               `json:"empty"`
	Range *DateRangeResponse `json:"range,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message,omitempty" example:"invalid dimension"`
}

func toRange(r domain.DateRange) DateRangeResponse {
	return DateRangeResponse{
		Start: r.Start.Format(domain.DateLayout),
		End:   r.End.Format(domain.DateLayout),
	}
}

func toStatistics(s domain.Statistics) StatisticsResponse {
	return StatisticsResponse(s)
}

func toDashboardResponse(d *domain.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Preset:    d.Preset,
		Dimension: d.Dimension,
		Metric:    d.Metric,
		Range:     toRange(d.Range),
		Dates:     make([]string, 0, len(d.Aggregation.Dates)),
		Series:    make([]SeriesResponse, 0, len(d.Aggregation.Series)),
		Breakdown: make([]BreakdownResponse, 0, len(d.Aggregation.Breakdown)),
		Selection: toStatistics(d.Selection),
		Overall:   toStatistics(d.Overall),
		Fetched:   d.Fetched,
		Filtered:  d.Filtered,
		Skipped:   d.Skipped + d.Aggregation.Skipped,
		Unknown:   d.Aggregation.Unknown,
	}

	if d.Available != nil {
		av := toRange(*d.Available)
		resp.Available = &av
	}
	for _, day := range d.Aggregation.Dates {
		resp.Dates = append(resp.Dates, day.Format(domain.DateLayout))
	}
	for _, s := range d.Aggregation.Series {
		resp.Series = append(resp.Series, SeriesResponse{Key: s.Key, Values: s.Values})
	}
	for _, b := range d.Aggregation.Breakdown {
		resp.Breakdown = append(resp.Breakdown, BreakdownResponse{Key: b.Key, Total: b.Total})
	}

	return resp
}
