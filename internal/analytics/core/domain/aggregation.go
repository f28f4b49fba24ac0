package domain

import "time"

// UnknownCategory collects records that lack the grouping attribute.
const UnknownCategory = "Unknown"

// CategorySeries is one stacked series, aligned positionally with
// Aggregation.Dates.
type CategorySeries struct {
	Key    string
	Values []float64
}

// CategoryTotal is one row of a ranked breakdown table.
type CategoryTotal struct {
	Key   string
	Total float64
}

type Aggregation struct {
	Dates     []time.Time      // distinct calendar days, ascending
	Series    []CategorySeries // one per category, keys ascending
	Breakdown []CategoryTotal  // total desc, key asc on ties

	Skipped int // records without a usable timestamp
	Unknown int // records bucketed under UnknownCategory
}

// DailyTotals sums all series per date.
func (a Aggregation) DailyTotals() []float64 {
	out := make([]float64, len(a.Dates))
	for _, s := range a.Series {
		for i, v := range s.Values {
			out[i] += v
		}
	}
	return out
}

// Total is the sum over every cell of the aggregation.
func (a Aggregation) Total() float64 {
	var sum float64
	for _, c := range a.Breakdown {
		sum += c.Total
	}
	return sum
}
