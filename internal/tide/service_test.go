package tide

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Robertodalfre/surfcheck-sub000/internal/store"
)

type fakeProvider struct {
	calls  int32
	delay  time.Duration
	err    error
	events []Event
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchExtremes(ctx context.Context, lat, lon float64, start time.Time, days int) ([]Event, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func dayEvents() []Event {
	return []Event{
		{Time: mkTime(2, 0), Type: TypeLow, Height: -0.3},
		{Time: mkTime(8, 0), Type: TypeHigh, Height: 1.0},
		{Time: mkTime(14, 30), Type: TypeLow, Height: -0.2},
		{Time: mkTime(20, 45), Type: TypeHigh, Height: 0.9},
	}
}

func sampleTimes() []time.Time {
	return []time.Time{mkTime(6, 0), mkTime(9, 0), mkTime(12, 0)}
}

func TestConcurrentRequestsShareOneFetch(t *testing.T) {
	provider := &fakeProvider{events: dayEvents(), delay: 50 * time.Millisecond}
	svc := NewService(provider, store.NewMemory[DayEntry](time.Minute), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.FetchForTimes(context.Background(), -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&provider.calls); got != 1 {
		t.Fatalf("expected exactly one upstream fetch, got %d", got)
	}
}

func TestCacheHitSkipsFetch(t *testing.T) {
	provider := &fakeProvider{events: dayEvents()}
	svc := NewService(provider, store.NewMemory[DayEntry](time.Minute), time.Minute)

	ctx := context.Background()
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&provider.calls); got != 1 {
		t.Fatalf("second request should be served from cache, got %d fetches", got)
	}
}

func TestExpiredEntryIsRefetched(t *testing.T) {
	provider := &fakeProvider{events: dayEvents()}
	svc := NewService(provider, store.NewMemory[DayEntry](10*time.Millisecond), 10*time.Millisecond)

	ctx := context.Background()
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&provider.calls); got != 2 {
		t.Fatalf("expired day-cache entry must be a miss, got %d fetches", got)
	}
}

func TestForceBypassesCacheButWritesBack(t *testing.T) {
	provider := &fakeProvider{events: dayEvents()}
	cache := store.NewMemory[DayEntry](time.Minute)
	svc := NewService(provider, cache, time.Minute)

	ctx := context.Background()
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&provider.calls); got != 2 {
		t.Fatalf("force must bypass cache reads, got %d fetches", got)
	}

	// The forced fetch still wrote the day back.
	if _, err := cache.Get(cacheKey("praia-a", dayKey(mkTime(6, 0)))); err != nil {
		t.Fatalf("forced fetch should write back to cache: %v", err)
	}
}

func TestQuotaFailureFallsBackToSynthetic(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("wrapped: %w", ErrQuota)}
	svc := NewService(provider, store.NewMemory[DayEntry](time.Minute), time.Minute)

	series, err := svc.FetchForTimes(context.Background(), -8.0, -35.0, sampleTimes(), "praia-a", false)
	if err != nil {
		t.Fatalf("quota failure must not surface as an error: %v", err)
	}
	if series.Source != SourceMock {
		t.Fatalf("fallback series must be flagged, got source %q", series.Source)
	}
	for _, at := range sampleTimes() {
		if _, ok := series.HeightAt(at); !ok {
			t.Errorf("missing synthetic height for %v", at)
		}
	}
}

func TestDistinctSpotsDoNotShareCache(t *testing.T) {
	provider := &fakeProvider{events: dayEvents()}
	svc := NewService(provider, store.NewMemory[DayEntry](time.Minute), time.Minute)

	ctx := context.Background()
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FetchForTimes(ctx, -8.0, -35.0, sampleTimes(), "praia-b", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&provider.calls); got != 2 {
		t.Fatalf("cache keys are per spot, expected 2 fetches, got %d", got)
	}
}

func TestCacheHitMatchesFreshFetchAcrossZones(t *testing.T) {
	// Spot-local request times (UTC+10) against UTC-stamped provider events:
	// the cached entry must reproduce the fresh fetch exactly.
	loc := time.FixedZone("UTC+10", 10*3600)
	times := []time.Time{
		time.Date(2026, 3, 14, 6, 0, 0, 0, loc),
		time.Date(2026, 3, 14, 9, 0, 0, 0, loc),
	}
	provider := &fakeProvider{events: []Event{
		{Time: time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC), Type: TypeLow, Height: -0.2},
		{Time: time.Date(2026, 3, 13, 22, 0, 0, 0, time.UTC), Type: TypeHigh, Height: 1.0},
		{Time: time.Date(2026, 3, 14, 4, 0, 0, 0, time.UTC), Type: TypeLow, Height: -0.3},
	}}
	svc := NewService(provider, store.NewMemory[DayEntry](time.Minute), time.Minute)

	ctx := context.Background()
	fresh, err := svc.FetchForTimes(ctx, -16.9, 145.7, times, "praia-a", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cached, err := svc.FetchForTimes(ctx, -16.9, 145.7, times, "praia-a", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&provider.calls); got != 1 {
		t.Fatalf("second request should be served from cache, got %d fetches", got)
	}
	for _, at := range times {
		f, _ := fresh.HeightAt(at)
		c, ok := cached.HeightAt(at)
		if !ok {
			t.Fatalf("cached series is missing %v", at)
		}
		if f != c {
			t.Errorf("height at %v: fresh=%v cached=%v", at, f, c)
		}
	}
}
