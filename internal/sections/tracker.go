package sections

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Section names a dashboard region.
type Section string

const (
	Usage         Section = "usage"
	Errors        Section = "errors"
	ResponseTimes Section = "response_times"
)

// DefaultOrder is the presentation order of the dashboard sections.
var DefaultOrder = []Section{Usage, Errors, ResponseTimes}

var (
	ErrClosed         = errors.New("section tracker closed")
	ErrUnknownSection = errors.New("unknown section")
	ErrAlreadyStarted = errors.New("section tracker already started")
)

// IntersectionSource reports visibility batches for the observed sections.
// emit may be called from any goroutine until release is called.
type IntersectionSource interface {
	Observe(sections []Section, minRatio float64, emit func([]IntersectionEntry)) (release func(), err error)
}

// ScrollSource reports scroll geometry until release is called.
type ScrollSource interface {
	Listen(emit func(ScrollSample)) (release func(), err error)
}

// Scroller performs the scroll-to side effect of a manual selection.
type Scroller interface {
	ScrollTo(s Section)
}

type Options struct {
	Order            []Section
	Debounce         time.Duration // intersection quiet period, default 150ms
	MinRatio         float64       // default 0.25
	HeaderOffset     float64       // sticky header height in px, default 80
	ViewportFraction float64       // default 0.3
	FrameInterval    time.Duration // scroll coalescing window, default 16ms
	QueueSize        int           // default 64

	Clock    Clock
	Logger   *log.Logger
	Scroller Scroller

	// OnChange runs on the tracker goroutine after every transition. It
	// may call Current and Degraded. Calling Select, Sync or Close from
	// it blocks forever; hand those to another goroutine.
	OnChange func(Section)
}

func (o *Options) setDefaults() {
	if len(o.Order) == 0 {
		o.Order = DefaultOrder
	}
	if o.Debounce <= 0 {
		o.Debounce = 150 * time.Millisecond
	}
	if o.MinRatio <= 0 {
		o.MinRatio = 0.25
	}
	if o.HeaderOffset == 0 {
		o.HeaderOffset = 80
	}
	if o.ViewportFraction <= 0 {
		o.ViewportFraction = 0.3
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = 16 * time.Millisecond
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Tracker decides which section is active. Every signal is queued and
// applied by a single goroutine, so transitions happen in arrival order.
//
// Precedence: intersection is authoritative while it is available. A scroll
// candidate is applied only when no intersection transition is pending, or
// when the tracker runs without an intersection source.
type Tracker struct {
	opts  Options
	known map[Section]int

	events  chan event
	done    chan struct{}
	exited  chan struct{}
	closing sync.Once

	mu       sync.RWMutex
	current  Section
	degraded bool
	started  bool
	releases []func()

	// owned by the run goroutine
	pending     *Section
	debounceSeq uint64
	debounce    Timer
	frame       Timer
	lastScroll  *ScrollSample
}

type event interface{}

type (
	intersectionEvent struct{ entries []IntersectionEntry }
	scrollEvent       struct{ sample ScrollSample }
	frameEvent        struct{}
	debounceEvent     struct{ seq uint64 }
	selectEvent       struct {
		section Section
		ack     chan struct{}
	}
	syncEvent struct{ ack chan struct{} }
)

func New(opts Options) (*Tracker, error) {
	opts.setDefaults()

	known := make(map[Section]int, len(opts.Order))
	for i, s := range opts.Order {
		if _, dup := known[s]; dup {
			return nil, fmt.Errorf("duplicate section %q", s)
		}
		known[s] = i
	}

	return &Tracker{
		opts:    opts,
		known:   known,
		events:  make(chan event, opts.QueueSize),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		current: opts.Order[0],
	}, nil
}

// Start registers the signal sources and starts the reducer. A failing or
// nil intersection source leaves the tracker on scroll only. A failing
// scroll source is fatal: anything registered so far is released first.
func (t *Tracker) Start(ctx context.Context, is IntersectionSource, ss ScrollSource) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	select {
	case <-t.done:
		t.mu.Unlock()
		return ErrClosed
	default:
	}
	t.started = true
	t.mu.Unlock()

	go t.run()

	var releaseIntersection func()
	if is == nil {
		t.setDegraded("no intersection source")
	} else {
		release, err := is.Observe(t.opts.Order, t.opts.MinRatio, t.emitIntersection)
		if err != nil {
			t.setDegraded(err.Error())
		} else {
			releaseIntersection = release
		}
	}

	var releaseScroll func()
	if ss != nil {
		release, err := ss.Listen(t.emitScroll)
		if err != nil {
			if releaseIntersection != nil {
				releaseIntersection()
			}
			t.Close()
			return fmt.Errorf("scroll source: %w", err)
		}
		releaseScroll = release
	}

	t.mu.Lock()
	select {
	case <-t.done:
		// closed while registering
		t.mu.Unlock()
		for _, release := range []func(){releaseIntersection, releaseScroll} {
			if release != nil {
				release()
			}
		}
		return ErrClosed
	default:
	}
	t.releases = append(t.releases, releaseIntersection, releaseScroll)
	t.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			t.Close()
		case <-t.done:
		}
	}()

	return nil
}

func (t *Tracker) setDegraded(reason string) {
	t.mu.Lock()
	t.degraded = true
	t.mu.Unlock()
	t.opts.Logger.Printf("sections: intersection signal unavailable, using scroll position only: %s", reason)
}

// Current returns the active section.
func (t *Tracker) Current() Section {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Degraded reports whether the tracker runs on scroll position only.
func (t *Tracker) Degraded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.degraded
}

// Select makes s active once every earlier signal has been applied, then
// scrolls to it. Pending debounced transitions are left alone.
func (t *Tracker) Select(s Section) error {
	if _, ok := t.known[s]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}

	ack := make(chan struct{})
	if err := t.send(selectEvent{section: s, ack: ack}); err != nil {
		return err
	}
	select {
	case <-ack:
	case <-t.exited:
		return ErrClosed
	}

	if t.opts.Scroller != nil {
		t.opts.Scroller.ScrollTo(s)
	}
	return nil
}

// Sync returns once every signal queued before the call has been applied.
func (t *Tracker) Sync() error {
	ack := make(chan struct{})
	if err := t.send(syncEvent{ack: ack}); err != nil {
		return err
	}
	select {
	case <-ack:
		return nil
	case <-t.exited:
		return ErrClosed
	}
}

// Close stops the reducer, cancels both timers and releases both signal
// sources. It is safe to call more than once.
func (t *Tracker) Close() error {
	t.closing.Do(func() {
		close(t.done)

		t.mu.RLock()
		started := t.started
		t.mu.RUnlock()
		if started {
			<-t.exited
		} else {
			close(t.exited)
		}

		if t.debounce != nil {
			t.debounce.Stop()
		}
		if t.frame != nil {
			t.frame.Stop()
		}

		t.mu.Lock()
		releases := t.releases
		t.releases = nil
		t.mu.Unlock()
		for _, release := range releases {
			if release != nil {
				release()
			}
		}
	})
	return nil
}

func (t *Tracker) emitIntersection(entries []IntersectionEntry) {
	cp := make([]IntersectionEntry, len(entries))
	copy(cp, entries)
	_ = t.send(intersectionEvent{entries: cp})
}

func (t *Tracker) emitScroll(s ScrollSample) {
	_ = t.send(scrollEvent{sample: s})
}

func (t *Tracker) send(ev event) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	select {
	case t.events <- ev:
		return nil
	case <-t.done:
		return ErrClosed
	}
}

func (t *Tracker) run() {
	defer close(t.exited)
	for {
		select {
		case ev := <-t.events:
			t.handle(ev)
		case <-t.done:
			return
		}
	}
}

func (t *Tracker) handle(ev event) {
	switch ev := ev.(type) {
	case intersectionEvent:
		t.onIntersection(ev.entries)
	case scrollEvent:
		t.onScroll(ev.sample)
	case frameEvent:
		t.onFrame()
	case debounceEvent:
		t.onDebounce(ev.seq)
	case selectEvent:
		t.setCurrent(ev.section)
		close(ev.ack)
	case syncEvent:
		close(ev.ack)
	}
}

func (t *Tracker) onIntersection(entries []IntersectionEntry) {
	winner, ok := PickIntersection(entries, t.opts.MinRatio, t.opts.Order)
	if !ok {
		return
	}

	if winner == t.Current() {
		t.cancelPending()
		return
	}

	t.cancelPending()
	t.pending = &winner
	seq := t.debounceSeq
	t.debounce = t.opts.Clock.AfterFunc(t.opts.Debounce, func() {
		_ = t.send(debounceEvent{seq: seq})
	})
}

func (t *Tracker) cancelPending() {
	if t.debounce != nil {
		t.debounce.Stop()
		t.debounce = nil
	}
	t.pending = nil
	// a stopped timer may already have queued its event
	t.debounceSeq++
}

func (t *Tracker) onDebounce(seq uint64) {
	if seq != t.debounceSeq || t.pending == nil {
		return
	}
	next := *t.pending
	t.pending = nil
	t.debounce = nil
	t.debounceSeq++
	t.setCurrent(next)
}

func (t *Tracker) onScroll(s ScrollSample) {
	t.lastScroll = &s
	if t.frame != nil {
		return
	}
	t.frame = t.opts.Clock.AfterFunc(t.opts.FrameInterval, func() {
		_ = t.send(frameEvent{})
	})
}

func (t *Tracker) onFrame() {
	t.frame = nil
	if t.lastScroll == nil {
		return
	}
	sample := *t.lastScroll
	t.lastScroll = nil

	candidate, ok := PickScroll(sample, t.opts.HeaderOffset, t.opts.ViewportFraction, t.opts.Order)
	if !ok {
		return
	}
	if t.pending != nil && !t.Degraded() {
		return
	}
	t.setCurrent(candidate)
}

func (t *Tracker) setCurrent(s Section) {
	t.mu.Lock()
	changed := t.current != s
	t.current = s
	t.mu.Unlock()

	if changed && t.opts.OnChange != nil {
		t.opts.OnChange(s)
	}
}
