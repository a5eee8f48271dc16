package surf

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Robertodalfre/surfcheck-sub000/internal/tide"
)

// ErrNoData means a provider produced an empty series; it surfaces as a
// "no_data" status, never as an HTTP 500.
var ErrNoData = errors.New("no forecast data available")

// ForecastProvider abstracts the marine forecast source (e.g. Open-Meteo).
type ForecastProvider interface {
	Name() string
	FetchHourly(ctx context.Context, lat, lon float64, days int) ([]HourlySample, error)
}

// TideFetcher abstracts the tide service: dense heights for exactly the
// requested timestamps.
type TideFetcher interface {
	FetchForTimes(ctx context.Context, lat, lon float64, times []time.Time, spotID string, force bool) (tide.Series, error)
}

// Service orchestrates forecast fetching, tide enrichment, scoring, and
// the analysis pipelines on top.
type Service struct {
	forecasts ForecastProvider
	tides     TideFetcher
}

// NewService creates a new Service.
func NewService(forecasts ForecastProvider, tides TideFetcher) *Service {
	return &Service{
		forecasts: forecasts,
		tides:     tides,
	}
}

// ScoredForecast fetches the hourly forecast for a spot, enriches it with
// interpolated tide heights, and scores the series. Tide failure is
// non-fatal: scoring proceeds with nil tide heights.
func (s *Service) ScoredForecast(ctx context.Context, spot SpotProfile, days int) ([]ScoreResult, error) {
	samples, err := s.forecasts.FetchHourly(ctx, spot.Lat, spot.Lon, days)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	times := make([]time.Time, len(samples))
	for i, sample := range samples {
		times[i] = sample.Time
	}

	series, err := s.tides.FetchForTimes(ctx, spot.Lat, spot.Lon, times, spot.ID, false)
	if err != nil {
		log.Printf("tide fetch failed for %s, scoring without tide: %v", spot.ID, err)
	} else {
		for i := range samples {
			if h, ok := series.HeightAt(samples[i].Time); ok {
				height := h
				samples[i].TideHeight = &height
			}
		}
	}

	return ScoreSeries(samples, spot), nil
}

// GoodWindows scores the spot and run-length-encodes the strict-threshold
// windows.
func (s *Service) GoodWindows(ctx context.Context, spot SpotProfile, days, threshold int) ([]Window, error) {
	scored, err := s.ScoredForecast(ctx, spot, days)
	if err != nil {
		return nil, err
	}
	return GroupGoodWindows(scored, threshold), nil
}

// AnalyzeSpot runs the full preference pipeline for one spot. Errors never
// escape: they are folded into the result status. An empty window list is a
// success ("no good conditions now"), distinct from a fetch error.
func (s *Service) AnalyzeSpot(ctx context.Context, spot SpotProfile, prefs Preferences) AnalysisResult {
	scored, err := s.ScoredForecast(ctx, spot, prefs.DaysAhead)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return AnalysisResult{SpotID: spot.ID, Status: StatusNoData, Windows: []AnalyzerWindow{}}
		}
		return AnalysisResult{
			SpotID:  spot.ID,
			Status:  StatusError,
			Message: err.Error(),
			Windows: []AnalyzerWindow{},
		}
	}

	windows := AnalyzeHours(scored, spot, prefs)
	if windows == nil {
		windows = []AnalyzerWindow{}
	}
	return AnalysisResult{SpotID: spot.ID, Status: StatusSuccess, Windows: windows}
}

// CompareRegion ranks every spot of a region by its single best window.
func (s *Service) CompareRegion(ctx context.Context, region string, spots []SpotProfile, prefs Preferences, topK int) RegionRanking {
	return CompareSpots(ctx, region, spots, prefs, s, topK)
}
