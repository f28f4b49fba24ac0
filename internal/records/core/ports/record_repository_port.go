package ports

import (
	"context"

	"market-insights-service/internal/records/core/domain"
)

type RecordRepositoryPort interface {
	// InsertRecord:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate (idempotent)
	//   created = false, err != nil -> DB error
	InsertRecord(ctx context.Context, r *domain.Record) (created bool, err error)
}
