package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/analytics/core/ports"
	recdomain "market-insights-service/internal/records/core/domain"
)

var (
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidTimeRange = errors.New("invalid time range")
)

type GetDashboardInput struct {
	Preset    string
	Custom    *domain.DateRange // preset=custom only
	Dimension string
	Metric    string // "" -> daily totals
}

type GetDashboardUseCase struct {
	reader   ports.RecordReaderPort
	resolver *Resolver
	loc      *time.Location
	now      func() time.Time

	// fetchLimit caps concurrent period reads; 0 means unlimited.
	fetchLimit int
}

func NewGetDashboardUseCase(reader ports.RecordReaderPort, resolver *Resolver, loc *time.Location) *GetDashboardUseCase {
	if resolver == nil {
		resolver = NewResolver(WithLocation(loc))
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GetDashboardUseCase{reader: reader, resolver: resolver, loc: loc, now: time.Now, fetchLimit: 4}
}

// Execute resolves the window and builds its series, breakdown and
// statistics. Every available month is read so the overall statistics
// cover the whole dataset.
func (uc *GetDashboardUseCase) Execute(ctx context.Context, in GetDashboardInput) (*domain.Dashboard, error) {

	if !validDimension(in.Dimension) {
		return nil, ErrInvalidDimension
	}

	if in.Preset == PresetCustom && in.Custom != nil && !in.Custom.Valid() {
		return nil, ErrInvalidTimeRange
	}

	available, err := uc.reader.AvailableRange(ctx, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("available range: %w", err)
	}

	rng, err := uc.resolver.Resolve(in.Preset, in.Custom, available)
	if err != nil {
		return nil, err
	}

	// one day either side: local days can straddle a UTC month boundary
	periods := rng.Pad(1).Periods()
	if available != nil {
		periods = unionPeriods(periods, available.Pad(1).Periods())
	}

	all, err := uc.fetch(ctx, periods)
	if err != nil {
		return nil, err
	}

	filtered := FilterRecords(all, rng, uc.loc)
	agg := Aggregate(filtered.Records, ByAttribute(in.Dimension), uc.loc)

	// overall covers the whole dataset, not just the selected window
	var selection, overall []float64
	if in.Metric == "" {
		selection = agg.DailyTotals()
		overall = Aggregate(all, ByAttribute(in.Dimension), uc.loc).DailyTotals()
	} else {
		selection = MetricSample(filtered.Records, in.Metric)
		overall = MetricSample(all, in.Metric)
	}

	return &domain.Dashboard{
		Preset:      in.Preset,
		Dimension:   in.Dimension,
		Metric:      in.Metric,
		Range:       rng,
		Available:   available,
		Periods:     periods,
		Aggregation: agg,
		Selection:   Summarize(selection),
		Overall:     Summarize(overall),
		Fetched:     len(all),
		Filtered:    len(filtered.Records),
		Skipped:     filtered.Skipped,
		GeneratedAt: uc.now().UTC(),
	}, nil
}

// fetch reads periods concurrently and concatenates them in period order.
func (uc *GetDashboardUseCase) fetch(ctx context.Context, periods []string) ([]recdomain.Record, error) {
	results := make([][]recdomain.Record, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	if uc.fetchLimit > 0 {
		g.SetLimit(uc.fetchLimit)
	}
	for i, p := range periods {
		g.Go(func() error {
			recs, err := uc.reader.GetRecords(gctx, p)
			if err != nil {
				return fmt.Errorf("get records %s: %w", p, err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, r := range results {
		n += len(r)
	}
	all := make([]recdomain.Record, 0, n)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// unionPeriods merges two sorted period lists without duplicates.
func unionPeriods(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var p string
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			p, i = a[i], i+1
		case i == len(a) || b[j] < a[i]:
			p, j = b[j], j+1
		default:
			p, i, j = a[i], i+1, j+1
		}
		if n := len(out); n == 0 || out[n-1] != p {
			out = append(out, p)
		}
	}
	return out
}

func validDimension(d string) bool {
	for _, v := range domain.Dimensions {
		if v == d {
			return true
		}
	}
	return false
}
