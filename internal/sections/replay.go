package sections

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Trace event kinds.
const (
	TraceIntersection = "intersection"
	TraceScroll       = "scroll"
	TraceSelect       = "select"
)

// TraceEvent is one line of a recorded signal trace.
type TraceEvent struct {
	AtMS    int64               `json:"at_ms"`
	Type    string              `json:"type"`
	Entries []IntersectionEntry `json:"entries,omitempty"`
	Scroll  *ScrollSample       `json:"scroll,omitempty"`
	Section Section             `json:"section,omitempty"`
}

// Transition is an active-section change observed during a replay.
type Transition struct {
	At      time.Duration
	Section Section
}

type ReplayResult struct {
	Transitions []Transition
	Final       Section
	Degraded    bool
	Events      int
}

// ReadTrace decodes a JSON-lines trace. Blank lines are skipped and
// timestamps must not go backwards.
func ReadTrace(r io.Reader) ([]TraceEvent, error) {
	var (
		events []TraceEvent
		last   int64
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		raw := sc.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		var ev TraceEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		switch ev.Type {
		case TraceIntersection:
		case TraceScroll:
			if ev.Scroll == nil {
				return nil, fmt.Errorf("trace line %d: scroll event without sample", line)
			}
		case TraceSelect:
			if ev.Section == "" {
				return nil, fmt.Errorf("trace line %d: select event without section", line)
			}
		default:
			return nil, fmt.Errorf("trace line %d: unknown event type %q", line, ev.Type)
		}
		if ev.AtMS < last {
			return nil, fmt.Errorf("trace line %d: at_ms %d before %d", line, ev.AtMS, last)
		}
		last = ev.AtMS
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return events, nil
}

// traceSource feeds recorded signals to a tracker.
type traceSource struct {
	mu           sync.Mutex
	intersection func([]IntersectionEntry)
	scroll       func(ScrollSample)
}

func (s *traceSource) Observe(_ []Section, _ float64, emit func([]IntersectionEntry)) (func(), error) {
	s.mu.Lock()
	s.intersection = emit
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.intersection = nil
		s.mu.Unlock()
	}, nil
}

func (s *traceSource) Listen(emit func(ScrollSample)) (func(), error) {
	s.mu.Lock()
	s.scroll = emit
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.scroll = nil
		s.mu.Unlock()
	}, nil
}

// Replay runs a trace through a tracker driven by a virtual clock and
// reports every transition with its offset from the trace start. With
// withoutIntersection the tracker runs on scroll position only.
func Replay(ctx context.Context, events []TraceEvent, opts Options, withoutIntersection bool) (*ReplayResult, error) {
	start := time.Unix(0, 0).UTC()
	clock := NewManualClock(start)

	var (
		mu          sync.Mutex
		transitions []Transition
	)
	userChange := opts.OnChange
	opts.Clock = clock
	opts.OnChange = func(s Section) {
		mu.Lock()
		transitions = append(transitions, Transition{At: clock.Now().Sub(start), Section: s})
		mu.Unlock()
		if userChange != nil {
			userChange(s)
		}
	}

	tr, err := New(opts)
	if err != nil {
		return nil, err
	}
	defer tr.Close()

	src := &traceSource{}
	var is IntersectionSource = src
	if withoutIntersection {
		is = nil
	}
	if err := tr.Start(ctx, is, src); err != nil {
		return nil, err
	}

	// step through timer deadlines so transitions carry their own time
	advance := func(target time.Time) error {
		for {
			next, ok := clock.NextDeadline()
			if !ok || next.After(target) {
				break
			}
			clock.AdvanceTo(next)
			if err := tr.Sync(); err != nil {
				return err
			}
		}
		clock.AdvanceTo(target)
		return tr.Sync()
	}

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := advance(start.Add(time.Duration(ev.AtMS) * time.Millisecond)); err != nil {
			return nil, err
		}

		switch ev.Type {
		case TraceIntersection:
			src.mu.Lock()
			emit := src.intersection
			src.mu.Unlock()
			if emit != nil {
				emit(ev.Entries)
			}
		case TraceScroll:
			src.mu.Lock()
			emit := src.scroll
			src.mu.Unlock()
			if emit != nil {
				emit(*ev.Scroll)
			}
		case TraceSelect:
			if err := tr.Select(ev.Section); err != nil {
				return nil, err
			}
		}
		if err := tr.Sync(); err != nil {
			return nil, err
		}
	}

	// drain whatever is still pending
	for {
		next, ok := clock.NextDeadline()
		if !ok {
			break
		}
		if err := advance(next); err != nil {
			return nil, err
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return &ReplayResult{
		Transitions: transitions,
		Final:       tr.Current(),
		Degraded:    tr.Degraded(),
		Events:      len(events),
	}, nil
}
