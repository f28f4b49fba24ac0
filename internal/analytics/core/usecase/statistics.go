package usecase

import (
	"errors"
	"math"
	"sort"

	"market-insights-service/internal/analytics/core/domain"
)

var ErrEmptySample = errors.New("statistics requested on an empty sample")

// ComputeStatistics describes sample. The input slice is not modified.
// An empty sample yields zero Statistics and ErrEmptySample.
func ComputeStatistics(sample []float64) (domain.Statistics, error) {
	n := len(sample)
	if n == 0 {
		return domain.Statistics{}, ErrEmptySample
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sample {
		total += v
	}
	mean := total / float64(n)

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	var sq float64
	for _, v := range sample {
		d := v - mean
		sq += d * d
	}

	return domain.Statistics{
		Count:             n,
		Total:             total,
		Average:           mean,
		Median:            median,
		Min:               sorted[0],
		Max:               sorted[n-1],
		StandardDeviation: math.Sqrt(sq / float64(n)),
	}, nil
}

// Summarize is ComputeStatistics for display: an empty sample reports zeros.
func Summarize(sample []float64) domain.Statistics {
	s, err := ComputeStatistics(sample)
	if err != nil {
		return domain.Statistics{}
	}
	return s
}
