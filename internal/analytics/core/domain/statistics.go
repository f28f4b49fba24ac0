package domain

// Statistics describes one numeric sample. Population standard deviation.
type Statistics struct {
	Count             int
	Total             float64
	Average           float64
	Median            float64
	Min               float64
	Max               float64
	StandardDeviation float64
}
