package sections

// IntersectionEntry is one section's visibility as reported by the host.
type IntersectionEntry struct {
	Section Section `json:"section"`
	Ratio   float64 `json:"ratio"`
	Top     float64 `json:"top"` // offset from the viewport top
}

// ScrollSample is the page geometry at one scroll notification.
type ScrollSample struct {
	ScrollY        float64             `json:"scroll_y"`
	ViewportHeight float64             `json:"viewport_height"`
	Tops           map[Section]float64 `json:"tops"` // section top edges in page coordinates
}

// PickIntersection returns the most visible section at or above minRatio.
// Ties go to the smaller top offset, then to presentation order.
func PickIntersection(entries []IntersectionEntry, minRatio float64, order []Section) (Section, bool) {
	rank := indexOf(order)

	var (
		best  IntersectionEntry
		found bool
	)
	for _, e := range entries {
		if _, known := rank[e.Section]; !known || e.Ratio < minRatio {
			continue
		}
		if !found || better(e, best, rank) {
			best, found = e, true
		}
	}
	return best.Section, found
}

func better(a, b IntersectionEntry, rank map[Section]int) bool {
	if a.Ratio != b.Ratio {
		return a.Ratio > b.Ratio
	}
	if a.Top != b.Top {
		return a.Top < b.Top
	}
	return rank[a.Section] < rank[b.Section]
}

// PickScroll returns the last section, in presentation order, whose top
// edge has been reached: scrollY + headerOffset >= top - fraction*viewport.
func PickScroll(s ScrollSample, headerOffset, fraction float64, order []Section) (Section, bool) {
	pos := s.ScrollY + headerOffset
	lead := fraction * s.ViewportHeight

	var (
		candidate Section
		found     bool
	)
	for _, sec := range order {
		top, ok := s.Tops[sec]
		if !ok {
			continue
		}
		if pos >= top-lead {
			candidate, found = sec, true
		}
	}
	return candidate, found
}

func indexOf(order []Section) map[Section]int {
	m := make(map[Section]int, len(order))
	for i, s := range order {
		m[s] = i
	}
	return m
}
