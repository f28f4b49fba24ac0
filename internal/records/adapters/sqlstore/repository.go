package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	analyticsdomain "market-insights-service/internal/analytics/core/domain"
	analyticsports "market-insights-service/internal/analytics/core/ports"
	"market-insights-service/internal/records/core/domain"
	"market-insights-service/internal/records/core/ports"
)

type RecordRepository struct {
	db DB
}

func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

var (
	_ ports.RecordRepositoryPort      = (*RecordRepository)(nil)
	_ analyticsports.RecordReaderPort = (*RecordRepository)(nil)
)

const insertRecordSQL = `
INSERT INTO records (
    dedupe_key,
    period,
    ts,
    count,
    attributes,
    vals
) VALUES (
    $1, $2, $3, $4, $5, $6
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

const selectPeriodSQL = `
SELECT ts, count, attributes, vals, dedupe_key
FROM records
WHERE period = $1
ORDER BY ts, dedupe_key`

const selectBoundsSQL = `SELECT MIN(ts), MAX(ts) FROM records`

func (r *RecordRepository) InsertRecord(ctx context.Context, rec *domain.Record) (bool, error) {

	var count any
	if rec.Count != nil {
		count = *rec.Count
	}

	attrsJSON, err := json.Marshal(nonNilAttrs(rec.Attributes))
	if err != nil {
		return false, err
	}
	valsJSON, err := json.Marshal(nonNilVals(rec.Values))
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, insertRecordSQL,
		rec.DedupeKey,
		rec.Period,
		rec.Timestamp,
		count,
		string(attrsJSON),
		string(valsJSON),
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func (r *RecordRepository) GetRecords(ctx context.Context, period string) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectPeriodSQL, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			ts, attrs, vals, key string
			count                sql.NullFloat64
		)
		if err := rows.Scan(&ts, &count, &attrs, &vals, &key); err != nil {
			return nil, err
		}

		rec := domain.Record{Timestamp: ts, Period: period, DedupeKey: key}
		if count.Valid {
			c := count.Float64
			rec.Count = &c
		}
		if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes of %s: %w", key, err)
		}
		if err := json.Unmarshal([]byte(vals), &rec.Values); err != nil {
			return nil, fmt.Errorf("decode values of %s: %w", key, err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// AvailableRange reports the calendar days in loc of the oldest and newest
// stored record, or nil for an empty store.
func (r *RecordRepository) AvailableRange(ctx context.Context, loc *time.Location) (*analyticsdomain.DateRange, error) {
	rows, err := r.db.QueryContext(ctx, selectBoundsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var first, last sql.NullString
	if rows.Next() {
		if err := rows.Scan(&first, &last); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !first.Valid || !last.Valid {
		return nil, nil
	}
	return boundsToRange(first.String, last.String, loc)
}

func boundsToRange(first, last string, loc *time.Location) (*analyticsdomain.DateRange, error) {
	start, err := domain.ParseTimestampIn(first, loc)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimestampIn(last, loc)
	if err != nil {
		return nil, err
	}
	return &analyticsdomain.DateRange{
		Start: analyticsdomain.Day(start, loc),
		End:   analyticsdomain.Day(end, loc),
	}, nil
}

func nonNilAttrs(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilVals(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
