package tide

import (
	"math"
	"sort"
	"time"
)

// InterpolateHeights converts sparse extremes into a height for every
// requested timestamp using a cosine ease between the bracketing events:
//
//	h = h0 + (h1-h0) * (1 - cos(pi*u)) / 2
//
// which tracks a semidiurnal tide's non-linear rise and fall better than a
// straight line. A timestamp equal to an event's own time returns that
// event's height exactly; timestamps outside the covered span clamp to the
// nearest event. Also returns the global min/max over the requested set.
func InterpolateHeights(events []Event, times []time.Time) (map[time.Time]float64, float64, float64, error) {
	if len(events) == 0 {
		return nil, 0, 0, ErrNoData
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	heights := make(map[time.Time]float64, len(times))
	min := math.Inf(1)
	max := math.Inf(-1)

	for _, t := range times {
		h := heightAt(sorted, t)
		heights[t] = h
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}

	if len(times) == 0 {
		min, max = 0, 0
	}

	return heights, min, max, nil
}

// heightAt evaluates the cosine ease for one timestamp against a
// time-sorted event list.
func heightAt(sorted []Event, t time.Time) float64 {
	// Before the first or after the last known extreme: clamp.
	if !t.After(sorted[0].Time) {
		return sorted[0].Height
	}
	last := sorted[len(sorted)-1]
	if !t.Before(last.Time) {
		return last.Height
	}

	// Find the first event at or after t.
	i := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Time.Before(t)
	})

	next := sorted[i]
	if next.Time.Equal(t) {
		return next.Height
	}
	prev := sorted[i-1]

	span := next.Time.Sub(prev.Time).Seconds()
	if span <= 0 {
		return prev.Height
	}
	u := t.Sub(prev.Time).Seconds() / span

	return prev.Height + (next.Height-prev.Height)*(1-math.Cos(math.Pi*u))/2
}
