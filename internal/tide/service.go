package tide

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Robertodalfre/surfcheck-sub000/internal/store"
	"github.com/Robertodalfre/surfcheck-sub000/internal/upstream"
)

// DayEntry is one cached calendar day of tide extremes plus its derived
// min/max. Expiry is handled by the store; an expired or missing entry is
// always a cache miss.
type DayEntry struct {
	Events []Event
	Min    float64
	Max    float64
	Source string
}

// Service orchestrates tide fetching: per-(spot, day) caching, in-flight
// request deduplication, synthetic fallback, and interpolation.
type Service struct {
	provider Provider
	cache    *store.Memory[DayEntry]
	ttl      time.Duration

	// inflight guarantees at most one outbound fetch per (spot, day-range)
	// key. Completed calls leave the group immediately, so a later request
	// for the same key fetches again.
	inflight singleflight.Group
}

// NewService creates a tide Service. The cache is injected so its lifecycle
// (and TTL policy) belongs to the caller, not to this package.
func NewService(provider Provider, cache *store.Memory[DayEntry], ttl time.Duration) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
	}
}

func cacheKey(spotID, day string) string {
	return spotID + ":" + day
}

// fetchResult carries a ranged fetch through the singleflight group.
type fetchResult struct {
	events []Event
	source string
}

// FetchForTimes produces interpolated tide heights for exactly the given
// timestamps. Cached days are reused (unless force is set, which bypasses
// reads but still writes results back); the missing days are fetched as one
// ranged request; every fetched day is written back independently.
func (s *Service) FetchForTimes(ctx context.Context, lat, lon float64, times []time.Time, spotID string, force bool) (Series, error) {
	if len(times) == 0 {
		return Series{}, ErrNoData
	}

	// Distinct days spanned by the requested timestamps, oldest first.
	dayFirst := make(map[string]time.Time)
	var days []string
	for _, t := range times {
		k := dayKey(t)
		if existing, ok := dayFirst[k]; !ok || t.Before(existing) {
			if !ok {
				days = append(days, k)
			}
			dayFirst[k] = t
		}
	}
	sort.Strings(days)

	var (
		events  []Event
		source  = SourceProvider
		missing []string
	)

	if force {
		missing = days
	} else {
		for _, day := range days {
			entry, err := s.cache.Get(cacheKey(spotID, day))
			if err != nil {
				missing = append(missing, day)
				continue
			}
			events = append(events, entry.Events...)
			if entry.Source == SourceMock {
				source = SourceMock
			}
		}
	}

	if len(missing) > 0 {
		fetched, err := s.fetchMissing(ctx, lat, lon, spotID, missing, dayFirst)
		if err != nil {
			return Series{}, err
		}
		events = append(events, fetched.events...)
		if fetched.source == SourceMock {
			source = SourceMock
		}
	}

	heights, min, max, err := InterpolateHeights(events, times)
	if err != nil {
		return Series{}, err
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })

	return Series{
		Heights: heights,
		Min:     min,
		Max:     max,
		Source:  source,
		Events:  events,
	}, nil
}

// fetchMissing retrieves the missing days as a single ranged request,
// deduplicated so concurrent callers for the same (spot, day-range) share
// one outbound fetch, then writes each day's slice back to the cache.
func (s *Service) fetchMissing(ctx context.Context, lat, lon float64, spotID string, missing []string, dayFirst map[string]time.Time) (fetchResult, error) {
	firstDay := missing[0]
	lastDay := missing[len(missing)-1]

	ref := dayFirst[firstDay].UTC()
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	lastRef := dayFirst[lastDay].UTC()
	lastStart := time.Date(lastRef.Year(), lastRef.Month(), lastRef.Day(), 0, 0, 0, 0, time.UTC)
	rangeDays := int(lastStart.Sub(start).Hours()/24) + 1

	key := fmt.Sprintf("%s:%s:%d", spotID, firstDay, rangeDays)

	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		events, fetchErr := s.provider.FetchExtremes(ctx, lat, lon, start, rangeDays)
		res := fetchResult{events: events, source: SourceProvider}

		if fetchErr != nil {
			if errors.Is(fetchErr, ErrQuota) || errors.Is(fetchErr, upstream.ErrUpstream) {
				// Downstream scoring must never block on tide availability.
				log.Printf("tide: provider unavailable for %s, using synthetic pattern: %v", spotID, fetchErr)
				res = fetchResult{
					events: SyntheticExtremes(start, rangeDays),
					source: SourceMock,
				}
			} else {
				return nil, fetchErr
			}
		}

		s.writeBack(spotID, res, firstDay, lastDay)
		return res, nil
	})
	if err != nil {
		return fetchResult{}, err
	}

	return v.(fetchResult), nil
}

// writeBack stores each fetched day's slice independently so later requests
// hit per-day entries rather than refetching the whole range. Bracketing
// events outside [firstDay, lastDay] fold into the nearest fetched day so a
// cache hit sees the same event set as the fetch that produced it.
func (s *Service) writeBack(spotID string, res fetchResult, firstDay, lastDay string) {
	byDay := make(map[string][]Event)
	for _, e := range res.events {
		k := dayKey(e.Time)
		if k < firstDay {
			k = firstDay
		} else if k > lastDay {
			k = lastDay
		}
		byDay[k] = append(byDay[k], e)
	}

	for day, dayEvents := range byDay {
		min, max := dayEvents[0].Height, dayEvents[0].Height
		for _, e := range dayEvents[1:] {
			if e.Height < min {
				min = e.Height
			}
			if e.Height > max {
				max = e.Height
			}
		}
		s.cache.SetTTL(cacheKey(spotID, day), DayEntry{
			Events: dayEvents,
			Min:    min,
			Max:    max,
			Source: res.source,
		}, s.ttl)
	}
}
