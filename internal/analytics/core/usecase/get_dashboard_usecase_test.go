package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/analytics/core/usecase"
	recdomain "market-insights-service/internal/records/core/domain"
)

// fakeRecordReader, RecordReaderPort test double.
type fakeRecordReader struct {
	GetFn       func(ctx context.Context, period string) ([]recdomain.Record, error)
	AvailableFn func(ctx context.Context, loc *time.Location) (*domain.DateRange, error)

	mu      sync.Mutex
	periods []string
}

func (f *fakeRecordReader) GetRecords(ctx context.Context, period string) ([]recdomain.Record, error) {
	f.mu.Lock()
	f.periods = append(f.periods, period)
	f.mu.Unlock()
	if f.GetFn != nil {
		return f.GetFn(ctx, period)
	}
	return nil, nil
}

func (f *fakeRecordReader) AvailableRange(ctx context.Context, loc *time.Location) (*domain.DateRange, error) {
	if f.AvailableFn != nil {
		return f.AvailableFn(ctx, loc)
	}
	return nil, nil
}

func (f *fakeRecordReader) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.periods...)
	sort.Strings(out)
	return out
}

func monthStore(t *testing.T) *fakeRecordReader {
	data := map[string][]recdomain.Record{
		"2024-04": {
			rec("2024-04-30T10:00:00Z", map[string]string{"channel": "as4"}, count(100)),
		},
		"2024-05": {
			rec("2024-05-30T10:00:00Z", map[string]string{"channel": "edifact"}, count(2)),
			rec("2024-05-31T10:00:00Z", map[string]string{"channel": "as4"}, count(4)),
			{Timestamp: "broken", Attributes: map[string]string{"channel": "as4"}},
		},
		"2024-06": {
			rec("2024-06-01T10:00:00Z", map[string]string{"channel": "edifact"}, count(6)),
		},
	}
	available := mustRange(t, "2024-04-30", "2024-06-01")

	return &fakeRecordReader{
		GetFn: func(ctx context.Context, period string) ([]recdomain.Record, error) {
			return data[period], nil
		},
		AvailableFn: func(ctx context.Context, loc *time.Location) (*domain.DateRange, error) {
			return &available, nil
		},
	}
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------
func TestGetDashboard_CustomRange(t *testing.T) {
	reader := monthStore(t)
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	custom := mustRange(t, "2024-05-30", "2024-06-01")
	out, err := uc.Execute(context.Background(), usecase.GetDashboardInput{
		Preset:    usecase.PresetCustom,
		Custom:    &custom,
		Dimension: domain.DimensionChannel,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := reader.requested(); !reflect.DeepEqual(got, []string{"2024-04", "2024-05", "2024-06"}) {
		t.Fatalf("expected every available period, got %v", got)
	}
	if out.Fetched != 5 || out.Filtered != 3 || out.Skipped != 1 {
		t.Fatalf("unexpected counters: fetched=%d filtered=%d skipped=%d", out.Fetched, out.Filtered, out.Skipped)
	}
	if out.Aggregation.Breakdown[0].Key != "edifact" || out.Aggregation.Breakdown[0].Total != 8 {
		t.Fatalf("unexpected breakdown: %+v", out.Aggregation.Breakdown)
	}

	// daily totals 2, 4, 6
	if out.Selection.Count != 3 || out.Selection.Total != 12 || out.Selection.Median != 4 {
		t.Fatalf("unexpected selection stats: %+v", out.Selection)
	}
}

func TestGetDashboard_PresetClampsToAvailableRange(t *testing.T) {
	reader := monthStore(t)
	reader.AvailableFn = func(ctx context.Context, loc *time.Location) (*domain.DateRange, error) {
		r := mustRange(t, "2024-05-31", "2024-06-01")
		return &r, nil
	}
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	out, err := uc.Execute(context.Background(), usecase.GetDashboardInput{
		Preset:    usecase.Preset30Days,
		Dimension: domain.DimensionChannel,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Range.String() != "2024-05-31..2024-06-01" {
		t.Fatalf("unexpected range: %s", out.Range)
	}
	if out.Selection.Total != 10 {
		t.Fatalf("unexpected selection: %+v", out.Selection)
	}
}

func TestGetDashboard_OverallCoversWholeDataset(t *testing.T) {
	reader := monthStore(t)
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	out, err := uc.Execute(context.Background(), usecase.GetDashboardInput{
		Preset:    usecase.Preset30Days,
		Dimension: domain.DimensionChannel,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Range.String() != "2024-05-02..2024-06-01" {
		t.Fatalf("unexpected range: %s", out.Range)
	}
	// the April record sits outside every month the window touches
	if out.Selection.Count != 3 || out.Selection.Total != 12 {
		t.Fatalf("unexpected selection: %+v", out.Selection)
	}
	if out.Overall.Count != 4 || out.Overall.Total != 112 {
		t.Fatalf("unexpected overall: %+v", out.Overall)
	}
	if got := reader.requested(); !reflect.DeepEqual(got, []string{"2024-04", "2024-05", "2024-06"}) {
		t.Fatalf("unexpected periods: %v", got)
	}
}

func TestGetDashboard_PassesLocationToAvailability(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	var got *time.Location
	reader := &fakeRecordReader{
		AvailableFn: func(ctx context.Context, loc *time.Location) (*domain.DateRange, error) {
			got = loc
			return nil, nil
		},
	}

	uc := usecase.NewGetDashboardUseCase(reader, nil, berlin)
	if _, err := uc.Execute(context.Background(), usecase.GetDashboardInput{Preset: usecase.Preset30Days, Dimension: domain.DimensionChannel}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != berlin {
		t.Fatalf("expected availability in %s, got %v", berlin, got)
	}
}

func TestGetDashboard_MetricSample(t *testing.T) {
	reader := &fakeRecordReader{
		GetFn: func(ctx context.Context, period string) ([]recdomain.Record, error) {
			return []recdomain.Record{
				{Timestamp: "2024-05-10T10:00:00Z", Values: map[string]float64{"response_time_ms": 100}},
				{Timestamp: "2024-05-11T10:00:00Z", Values: map[string]float64{"response_time_ms": 300}},
				{Timestamp: "2024-04-01T10:00:00Z", Values: map[string]float64{"response_time_ms": 900}},
			}, nil
		},
	}
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	custom := mustRange(t, "2024-05-10", "2024-05-11")
	out, err := uc.Execute(context.Background(), usecase.GetDashboardInput{
		Preset:    usecase.PresetCustom,
		Custom:    &custom,
		Dimension: domain.DimensionProcessGroup,
		Metric:    "response_time_ms",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Selection.Average != 200 {
		t.Fatalf("expected selection average 200, got %+v", out.Selection)
	}
	if out.Overall.Count != 3 {
		t.Fatalf("expected overall count 3, got %d", out.Overall.Count)
	}
	if out.Aggregation.Unknown != 2 {
		t.Fatalf("expected 2 unknown process groups, got %d", out.Aggregation.Unknown)
	}
}

// ------------------------------------------------------------
// VALIDATION
// ------------------------------------------------------------
func TestGetDashboard_InvalidDimension(t *testing.T) {
	reader := &fakeRecordReader{}
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	_, err := uc.Execute(context.Background(), usecase.GetDashboardInput{Preset: usecase.Preset30Days, Dimension: "colour"})
	if !errors.Is(err, usecase.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if len(reader.requested()) != 0 {
		t.Fatalf("reader should not be called")
	}
}

func TestGetDashboard_InvertedCustomRange(t *testing.T) {
	uc := usecase.NewGetDashboardUseCase(&fakeRecordReader{}, nil, time.UTC)

	custom := mustRange(t, "2024-06-01", "2024-05-01")
	_, err := uc.Execute(context.Background(), usecase.GetDashboardInput{
		Preset:    usecase.PresetCustom,
		Custom:    &custom,
		Dimension: domain.DimensionChannel,
	})
	if !errors.Is(err, usecase.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestGetDashboard_InvalidPreset(t *testing.T) {
	uc := usecase.NewGetDashboardUseCase(&fakeRecordReader{}, nil, time.UTC)

	_, err := uc.Execute(context.Background(), usecase.GetDashboardInput{Preset: "weekly", Dimension: domain.DimensionChannel})
	if !errors.Is(err, usecase.ErrInvalidPreset) {
		t.Fatalf("expected ErrInvalidPreset, got %v", err)
	}
}

// ------------------------------------------------------------
// READER ERRORS
// ------------------------------------------------------------
func TestGetDashboard_ReaderError(t *testing.T) {
	dbErr := errors.New("db failure")
	reader := &fakeRecordReader{
		GetFn: func(ctx context.Context, period string) ([]recdomain.Record, error) {
			if period == "2024-05" {
				return nil, dbErr
			}
			return nil, nil
		},
	}
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	custom := mustRange(t, "2024-05-10", "2024-05-11")
	_, err := uc.Execute(context.Background(), usecase.GetDashboardInput{
		Preset:    usecase.PresetCustom,
		Custom:    &custom,
		Dimension: domain.DimensionChannel,
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped db failure, got %v", err)
	}
}

func TestGetDashboard_AvailabilityError(t *testing.T) {
	reader := &fakeRecordReader{
		AvailableFn: func(ctx context.Context, loc *time.Location) (*domain.DateRange, error) {
			return nil, errors.New("boom")
		},
	}
	uc := usecase.NewGetDashboardUseCase(reader, nil, time.UTC)

	if _, err := uc.Execute(context.Background(), usecase.GetDashboardInput{Preset: usecase.Preset30Days, Dimension: domain.DimensionChannel}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
