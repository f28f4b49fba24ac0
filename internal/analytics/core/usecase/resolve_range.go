package usecase

import (
	"errors"
	"fmt"
	"time"

	"market-insights-service/internal/analytics/core/domain"
)

var ErrInvalidPreset = errors.New("invalid date range preset")

const (
	PresetCustom = "custom"
	Preset30Days = "30days"
	Preset60Days = "60days"
	Preset90Days = "90days"
)

var presetDays = map[string]int{
	Preset30Days: 30,
	Preset60Days: 60,
	Preset90Days: 90,
}

// Presets lists the accepted preset keys.
func Presets() []string {
	return []string{Preset30Days, Preset60Days, Preset90Days, PresetCustom}
}

// Resolver turns a preset and the store's availability into a concrete
// date window. It has no state besides its clock.
type Resolver struct {
	now func() time.Time
	loc *time.Location
}

type ResolverOption func(*Resolver)

// WithNow fixes the clock used when no availability is known.
func WithNow(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// WithLocation sets the calendar used to derive "today".
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns custom unchanged for the custom preset. Fixed presets end
// at the last available day (or today) and never start before the first
// available day.
func (r *Resolver) Resolve(preset string, custom *domain.DateRange, available *domain.DateRange) (domain.DateRange, error) {
	if preset == PresetCustom {
		if custom == nil {
			return domain.DateRange{}, fmt.Errorf("%w: custom preset requires a range", ErrInvalidPreset)
		}
		return *custom, nil
	}

	days, ok := presetDays[preset]
	if !ok {
		return domain.DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPreset, preset)
	}

	end := domain.Day(r.now(), r.loc)
	if available != nil {
		end = available.End
	}
	start := end.AddDate(0, 0, -days)

	if available != nil && start.Before(available.Start) {
		start = available.Start
	}
	if start.After(end) {
		start = end
	}

	return domain.DateRange{Start: start, End: end}, nil
}
