package surf

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Robertodalfre/surfcheck-sub000/internal/tide"
)

type fakeForecasts struct {
	samples []HourlySample
	err     error
}

func (ff *fakeForecasts) Name() string { return "fake-forecasts" }

func (ff *fakeForecasts) FetchHourly(ctx context.Context, lat, lon float64, days int) ([]HourlySample, error) {
	return ff.samples, ff.err
}

type fakeTides struct {
	series tide.Series
	err    error
}

func (ft *fakeTides) FetchForTimes(ctx context.Context, lat, lon float64, times []time.Time, spotID string, force bool) (tide.Series, error) {
	return ft.series, ft.err
}

func TestScoredForecastAttachesTide(t *testing.T) {
	base := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	samples := []HourlySample{goodHour(base), goodHour(base.Add(time.Hour))}

	svc := NewService(
		&fakeForecasts{samples: samples},
		&fakeTides{series: tide.Series{
			Heights: map[time.Time]float64{
				base:                0.4,
				base.Add(time.Hour): 0.6,
			},
			Source: tide.SourceProvider,
		}},
	)

	scored, err := svc.ScoredForecast(context.Background(), testSpot(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored hours, got %d", len(scored))
	}
	if scored[0].Sample.TideHeight == nil || *scored[0].Sample.TideHeight != 0.4 {
		t.Errorf("tide height not attached: %+v", scored[0].Sample.TideHeight)
	}
}

func TestScoredForecastTideFailureNonFatal(t *testing.T) {
	base := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	svc := NewService(
		&fakeForecasts{samples: []HourlySample{goodHour(base)}},
		&fakeTides{err: tide.ErrNoData},
	)

	scored, err := svc.ScoredForecast(context.Background(), testSpot(), 1)
	if err != nil {
		t.Fatalf("tide failure must not fail scoring: %v", err)
	}
	if scored[0].Sample.TideHeight != nil {
		t.Errorf("tide height must stay nil on tide failure")
	}
	if scored[0].Score <= 0 {
		t.Errorf("scoring must proceed without tide, got %d", scored[0].Score)
	}
}

func TestAnalyzeSpotStatuses(t *testing.T) {
	spot := testSpot()
	tides := &fakeTides{err: tide.ErrNoData}

	// Empty series becomes no_data, not an error.
	svc := NewService(&fakeForecasts{samples: nil}, tides)
	result := svc.AnalyzeSpot(context.Background(), spot, DefaultPreferences())
	if result.Status != StatusNoData {
		t.Errorf("empty series status = %q, want no_data", result.Status)
	}

	// Provider errors fold into a structured error result.
	svc = NewService(&fakeForecasts{err: errors.New("connection refused")}, tides)
	result = svc.AnalyzeSpot(context.Background(), spot, DefaultPreferences())
	if result.Status != StatusError {
		t.Errorf("provider failure status = %q, want error", result.Status)
	}
	if result.Message == "" {
		t.Error("error result must carry a message")
	}
	if result.Windows == nil {
		t.Error("windows must be an empty list, not nil")
	}

	// Good data with no qualifying hours is still a success.
	night := goodHour(time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC))
	svc = NewService(&fakeForecasts{samples: []HourlySample{night}}, tides)
	result = svc.AnalyzeSpot(context.Background(), spot, DefaultPreferences())
	if result.Status != StatusSuccess {
		t.Errorf("empty window list status = %q, want success", result.Status)
	}
	if len(result.Windows) != 0 {
		t.Errorf("02:00 hour cannot produce a window, got %+v", result.Windows)
	}
}
