package domain

import "time"

// Dimensions a dashboard can be split by.
const (
	DimensionChannel      = "channel"
	DimensionProcessGroup = "process_group"
	DimensionMarketRole   = "market_role"
	DimensionErrorType    = "error_type"
	DimensionErrorClass   = "error_class"
)

// Dimensions lists the supported grouping attributes in display order.
var Dimensions = []string{
	DimensionChannel,
	DimensionProcessGroup,
	DimensionMarketRole,
	DimensionErrorType,
	DimensionErrorClass,
}

// Dashboard is everything one dashboard panel needs for a resolved window.
type Dashboard struct {
	Preset    string
	Dimension string
	Metric    string // "" -> statistics over daily totals

	Range     DateRange
	Available *DateRange
	Periods   []string

	Aggregation Aggregation
	Selection   Statistics // over the records inside Range
	Overall     Statistics // over every fetched record

	Fetched  int
	Filtered int
	Skipped  int

	GeneratedAt time.Time
}
