package ports

import (
	"context"
	"time"

	"market-insights-service/internal/analytics/core/domain"
	recdomain "market-insights-service/internal/records/core/domain"
)

// RecordReaderPort is the read side of the record store, keyed by
// reporting period ("YYYY-MM").
type RecordReaderPort interface {
	GetRecords(ctx context.Context, period string) ([]recdomain.Record, error)
	// AvailableRange returns the calendar days in loc of the oldest and
	// newest record, or nil when the store holds no records.
	AvailableRange(ctx context.Context, loc *time.Location) (*domain.DateRange, error)
}
