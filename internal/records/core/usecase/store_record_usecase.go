package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"market-insights-service/internal/records/core/domain"
	"market-insights-service/internal/records/core/ports"
)

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrFutureTime    = errors.New("timestamp cannot be in the future")
)

type StoreRecordUseCase struct {
	repo ports.RecordRepositoryPort
	loc  *time.Location
	now  func() time.Time
}

type StoreOption func(*StoreRecordUseCase)

// WithLocation sets the zone that timestamps without an offset are read in.
// The default is UTC.
func WithLocation(loc *time.Location) StoreOption {
	return func(uc *StoreRecordUseCase) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

func NewStoreRecordUseCase(repo ports.RecordRepositoryPort, opts ...StoreOption) *StoreRecordUseCase {
	uc := &StoreRecordUseCase{repo: repo, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type StoreRecordInput struct {
	Timestamp  string
	Count      *float64
	Attributes map[string]string
	Values     map[string]float64
}

func (uc *StoreRecordUseCase) Execute(ctx context.Context, in StoreRecordInput) (bool, error) {

	t, err := uc.validateInput(in)
	if err != nil {
		return false, err
	}

	if in.Attributes == nil {
		in.Attributes = map[string]string{}
	}
	if in.Values == nil {
		in.Values = map[string]float64{}
	}

	r := &domain.Record{
		Timestamp:  t.UTC().Format(time.RFC3339Nano),
		Count:      in.Count,
		Attributes: in.Attributes,
		Values:     in.Values,
		Period:     domain.PeriodOf(t),
		DedupeKey:  buildDedupeKey(in, t),
	}

	created, err := uc.repo.InsertRecord(ctx, r)
	if err != nil {
		return false, err
	}

	return created, nil
}

func buildDedupeKey(in StoreRecordInput, t time.Time) string {
	// unix_nanos + sorted attributes + count
	keys := make([]string, 0, len(in.Attributes))
	for k := range in.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+2)
	parts = append(parts, fmt.Sprintf("%d", t.UnixNano()))
	for _, k := range keys {
		parts = append(parts, k+"="+in.Attributes[k])
	}
	if in.Count != nil {
		parts = append(parts, fmt.Sprintf("count=%g", *in.Count))
	}
	return strings.Join(parts, "|")
}

type BulkStoreRecordsInput struct {
	Records []StoreRecordInput
}

type BulkStoreRecordsResult struct {
	Created    int
	Duplicates int
}

func (uc *StoreRecordUseCase) BulkStore(ctx context.Context, in BulkStoreRecordsInput) (BulkStoreRecordsResult, error) {
	var res BulkStoreRecordsResult

	for i, r := range in.Records {
		if _, err := uc.validateInput(r); err != nil {
			return res, fmt.Errorf("record %d: %w", i, err)
		}
	}

	for _, r := range in.Records {
		ok, err := uc.Execute(ctx, r)
		if err != nil {
			return res, err
		}

		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *StoreRecordUseCase) validateInput(in StoreRecordInput) (time.Time, error) {

	t, err := domain.ParseTimestampIn(in.Timestamp, uc.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if in.Count != nil && *in.Count < 0 {
		return time.Time{}, fmt.Errorf("%w: negative count", ErrInvalidRecord)
	}

	if t.After(uc.now()) {
		return time.Time{}, ErrFutureTime
	}

	return t, nil
}
