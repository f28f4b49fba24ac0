package usecase

import (
	"time"

	"market-insights-service/internal/analytics/core/domain"
	recdomain "market-insights-service/internal/records/core/domain"
)

type FilterResult struct {
	Records []recdomain.Record
	Skipped int // missing or unparseable timestamps
}

// FilterRecords keeps the records whose calendar day in loc falls inside r.
// Timestamps without an offset are wall clock time in loc. Input order is
// preserved.
func FilterRecords(records []recdomain.Record, r domain.DateRange, loc *time.Location) FilterResult {
	out := FilterResult{Records: make([]recdomain.Record, 0, len(records))}

	for _, rec := range records {
		t, err := rec.TimeIn(loc)
		if err != nil {
			out.Skipped++
			continue
		}
		if r.Contains(domain.Day(t, loc)) {
			out.Records = append(out.Records, rec)
		}
	}

	return out
}
