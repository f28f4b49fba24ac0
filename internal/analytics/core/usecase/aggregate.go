package usecase

import (
	"sort"
	"time"

	"market-insights-service/internal/analytics/core/domain"
	recdomain "market-insights-service/internal/records/core/domain"
)

// CategoryKeyFunc extracts the grouping key of a record; ok=false sends the
// record to domain.UnknownCategory.
type CategoryKeyFunc func(r recdomain.Record) (key string, ok bool)

// ByAttribute groups records by a categorical attribute.
func ByAttribute(name string) CategoryKeyFunc {
	return func(r recdomain.Record) (string, bool) {
		return r.Attribute(name)
	}
}

// Aggregate groups records by calendar day (in loc) and by category.
// Every record with a usable timestamp lands in exactly one cell.
func Aggregate(records []recdomain.Record, key CategoryKeyFunc, loc *time.Location) domain.Aggregation {
	var agg domain.Aggregation

	type cell struct {
		day      time.Time
		category string
	}
	cells := make(map[cell]float64)
	totals := make(map[string]float64)
	days := make(map[time.Time]struct{})

	for _, rec := range records {
		t, err := rec.TimeIn(loc)
		if err != nil {
			agg.Skipped++
			continue
		}
		day := domain.Day(t, loc)

		category, ok := key(rec)
		if !ok {
			category = domain.UnknownCategory
			agg.Unknown++
		}

		w := rec.Weight()
		cells[cell{day, category}] += w
		totals[category] += w
		days[day] = struct{}{}
	}

	agg.Dates = make([]time.Time, 0, len(days))
	for d := range days {
		agg.Dates = append(agg.Dates, d)
	}
	sort.Slice(agg.Dates, func(i, j int) bool { return agg.Dates[i].Before(agg.Dates[j]) })

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	agg.Series = make([]domain.CategorySeries, 0, len(keys))
	for _, k := range keys {
		values := make([]float64, len(agg.Dates))
		for i, d := range agg.Dates {
			values[i] = cells[cell{d, k}]
		}
		agg.Series = append(agg.Series, domain.CategorySeries{Key: k, Values: values})
	}

	agg.Breakdown = make([]domain.CategoryTotal, 0, len(keys))
	for _, k := range keys {
		agg.Breakdown = append(agg.Breakdown, domain.CategoryTotal{Key: k, Total: totals[k]})
	}
	sort.SliceStable(agg.Breakdown, func(i, j int) bool {
		return agg.Breakdown[i].Total > agg.Breakdown[j].Total
	})

	return agg
}

// MetricSample collects a numeric value from every record that carries it,
// in input order.
func MetricSample(records []recdomain.Record, name string) []float64 {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.Value(name); ok {
			out = append(out, v)
		}
	}
	return out
}
