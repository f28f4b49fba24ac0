package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire layout of a calendar date.
const DateLayout = "2006-01-02"

// DateRange is an inclusive window of calendar dates. Start and End are
// civil dates stored as midnight UTC; Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Day returns the calendar day of t as seen in loc, as midnight UTC.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	return t, nil
}

// NewDateRange builds a range from two "YYYY-MM-DD" strings.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Valid reports whether Start <= End and both dates are set.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.Start.After(r.End)
}

// Contains reports whether the calendar day lies inside the range.
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days is the number of calendar days covered, both ends included.
func (r DateRange) Days() int {
	if r.Start.After(r.End) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Pad widens the range by n days on each side.
func (r DateRange) Pad(n int) DateRange {
	return DateRange{Start: r.Start.AddDate(0, 0, -n), End: r.End.AddDate(0, 0, n)}
}

// Periods lists the "YYYY-MM" period keys the range touches, ascending.
func (r DateRange) Periods() []string {
	if r.Start.After(r.End) {
		return nil
	}
	var out []string
	cur := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(r.End.Year(), r.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		out = append(out, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
