package usecase_test

import (
	"testing"
	"time"

	"market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/analytics/core/usecase"
	recdomain "market-insights-service/internal/records/core/domain"
)

func rec(ts string, attrs map[string]string, count *float64) recdomain.Record {
	return recdomain.Record{Timestamp: ts, Attributes: attrs, Count: count}
}

func TestFilterRecords_InclusiveBounds(t *testing.T) {
	records := []recdomain.Record{
		rec("2024-04-30T23:59:59Z", nil, nil),
		rec("2024-05-01T00:00:00Z", nil, nil),
		rec("2024-05-15T12:00:00Z", nil, nil),
		rec("2024-05-31T23:59:59Z", nil, nil),
		rec("2024-06-01T00:00:00Z", nil, nil),
	}
	r := mustRange(t, "2024-05-01", "2024-05-31")

	got := usecase.FilterRecords(records, r, time.UTC)

	if len(got.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got.Records))
	}
	if got.Records[0].Timestamp != "2024-05-01T00:00:00Z" || got.Records[2].Timestamp != "2024-05-31T23:59:59Z" {
		t.Fatalf("unexpected records: %+v", got.Records)
	}
	if got.Skipped != 0 {
		t.Fatalf("expected 0 skipped, got %d", got.Skipped)
	}
}

func TestFilterRecords_SubsetAndExclusionProperty(t *testing.T) {
	var records []recdomain.Record
	start := time.Date(2024, 4, 20, 5, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		records = append(records, rec(start.AddDate(0, 0, i).Format(time.RFC3339), nil, nil))
	}
	r := mustRange(t, "2024-05-01", "2024-05-20")

	got := usecase.FilterRecords(records, r, time.UTC)

	kept := map[string]bool{}
	for _, x := range got.Records {
		day := domain.Day(mustTime(t, x.Timestamp), time.UTC)
		if !r.Contains(day) {
			t.Fatalf("record %s outside %s", x.Timestamp, r)
		}
		kept[x.Timestamp] = true
	}
	for _, x := range records {
		if kept[x.Timestamp] {
			continue
		}
		day := domain.Day(mustTime(t, x.Timestamp), time.UTC)
		if r.Contains(day) {
			t.Fatalf("record %s inside %s was dropped", x.Timestamp, r)
		}
	}
	if len(got.Records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(got.Records))
	}
}

func TestFilterRecords_UsesLocalCalendarDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 22:30 UTC on 31 May is 1 June in Berlin
	records := []recdomain.Record{rec("2024-05-31T22:30:00Z", nil, nil)}
	r := mustRange(t, "2024-06-01", "2024-06-30")

	if got := usecase.FilterRecords(records, r, berlin); len(got.Records) != 1 {
		t.Fatalf("expected record on local day 2024-06-01, got %d", len(got.Records))
	}
	if got := usecase.FilterRecords(records, r, time.UTC); len(got.Records) != 0 {
		t.Fatalf("expected record excluded in UTC, got %d", len(got.Records))
	}
}

func TestFilterRecords_NaiveTimestampIsLocalWallClock(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	records := []recdomain.Record{
		rec("2024-01-01T23:30:00", nil, nil),
		rec("2024-01-02 00:15:00", nil, nil),
	}
	r := mustRange(t, "2024-01-01", "2024-01-01")

	got := usecase.FilterRecords(records, r, berlin)

	if len(got.Records) != 1 || got.Records[0].Timestamp != "2024-01-01T23:30:00" {
		t.Fatalf("expected only the 23:30 local record, got %+v", got.Records)
	}
}

func TestFilterRecords_SkipsMalformedTimestamps(t *testing.T) {
	records := []recdomain.Record{
		rec("", nil, nil),
		rec("not a date", nil, nil),
		rec("2024-05-10", nil, nil),
	}
	r := mustRange(t, "2024-05-01", "2024-05-31")

	got := usecase.FilterRecords(records, r, time.UTC)

	if len(got.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got.Records))
	}
	if got.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", got.Skipped)
	}
}

func TestFilterRecords_EmptyInput(t *testing.T) {
	got := usecase.FilterRecords(nil, mustRange(t, "2024-05-01", "2024-05-31"), time.UTC)

	if got.Records == nil || len(got.Records) != 0 {
		t.Fatalf("expected empty non-nil subset, got %#v", got.Records)
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := recdomain.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tt
}
