package marine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Robertodalfre/surfcheck-sub000/internal/surf"
	"github.com/Robertodalfre/surfcheck-sub000/internal/upstream"
)

// OpenMeteoProvider implements Provider against the Open-Meteo marine and
// forecast APIs. No API key required. The two products (waves and 10 m
// wind) are fetched concurrently and merged by timestamp.
type OpenMeteoProvider struct {
	name      string
	marineURL string
	windURL   string
	httpCfg   upstream.ClientConfig
	circuit   *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-marine",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:      "openmeteo-marine",
		marineURL: "https://marine-api.open-meteo.com/v1/marine",
		windURL:   "https://api.open-meteo.com/v1/forecast",
		httpCfg: upstream.ClientConfig{
			Client: client,
			Backoff: upstream.BackoffConfig{
				MaxRetries:      1, // two attempts total
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// hourlyPayload matches the shape both Open-Meteo endpoints share. Nullable
// series decode into pointer slices so missing values stay distinguishable.
type hourlyPayload struct {
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Timezone         string `json:"timezone"`
	Hourly           struct {
		Time []string `json:"time"`

		WaveHeight    []*float64 `json:"wave_height"`
		WaveDirection []*float64 `json:"wave_direction"`
		WavePeriod    []*float64 `json:"wave_period"`

		SwellHeight     []*float64 `json:"swell_wave_height"`
		SwellDirection  []*float64 `json:"swell_wave_direction"`
		SwellPeriod     []*float64 `json:"swell_wave_period"`
		SwellPeakPeriod []*float64 `json:"swell_wave_peak_period"`

		WindWaveHeight []*float64 `json:"wind_wave_height"`

		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindDirection []*float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
}

// FetchHourly retrieves the wave and wind hourly series concurrently and
// merges them into normalized samples with spot-local timestamps.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, lat, lon float64, days int) ([]surf.HourlySample, error) {
	type result struct {
		samples []surf.HourlySample
		err     error
	}

	waveChan := make(chan result, 1)
	windChan := make(chan result, 1)

	go func() {
		samples, err := p.fetchWaves(ctx, lat, lon, days)
		waveChan <- result{samples, err}
	}()
	go func() {
		samples, err := p.fetchWind(ctx, lat, lon, days)
		windChan <- result{samples, err}
	}()

	waves := <-waveChan
	winds := <-windChan

	if waves.err != nil {
		return nil, waves.err
	}
	if len(waves.samples) == 0 {
		return nil, ErrNoData
	}
	if winds.err != nil {
		// Wind is degraded, not fatal: the wind sub-score goes to zero.
		return waves.samples, nil
	}

	return mergeByTime(waves.samples, winds.samples), nil
}

func (p *OpenMeteoProvider) fetchWaves(ctx context.Context, lat, lon float64, days int) ([]surf.HourlySample, error) {
	payload, err := p.fetchHourlyPayload(ctx, p.marineURL, lat, lon, days, url.Values{
		"hourly": []string{"wave_height,wave_direction,wave_period," +
			"swell_wave_height,swell_wave_direction,swell_wave_period,swell_wave_peak_period," +
			"wind_wave_height"},
	})
	if err != nil {
		return nil, err
	}

	loc := payloadLocation(payload)
	h := payload.Hourly

	samples := make([]surf.HourlySample, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", raw, loc)
		if err != nil {
			continue
		}

		// Peak period preferred over mean when both are present.
		swellPeriod := normalize(at(h.SwellPeakPeriod, i))
		if swellPeriod == nil {
			swellPeriod = normalize(at(h.SwellPeriod, i))
		}

		samples = append(samples, surf.HourlySample{
			Time:           ts,
			WaveHeight:     normalize(at(h.WaveHeight, i)),
			WaveDirection:  normalize(at(h.WaveDirection, i)),
			WavePeriod:     normalize(at(h.WavePeriod, i)),
			SwellHeight:    normalize(at(h.SwellHeight, i)),
			SwellDirection: normalize(at(h.SwellDirection, i)),
			SwellPeriod:    swellPeriod,
			WindWaveHeight: normalize(at(h.WindWaveHeight, i)),
		})
	}

	return samples, nil
}

func (p *OpenMeteoProvider) fetchWind(ctx context.Context, lat, lon float64, days int) ([]surf.HourlySample, error) {
	payload, err := p.fetchHourlyPayload(ctx, p.windURL, lat, lon, days, url.Values{
		"hourly":          []string{"wind_speed_10m,wind_direction_10m"},
		"wind_speed_unit": []string{"kmh"},
	})
	if err != nil {
		return nil, err
	}

	loc := payloadLocation(payload)
	h := payload.Hourly

	samples := make([]surf.HourlySample, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", raw, loc)
		if err != nil {
			continue
		}
		samples = append(samples, surf.HourlySample{
			Time:          ts,
			WindSpeed:     normalize(at(h.WindSpeed, i)),
			WindDirection: normalize(at(h.WindDirection, i)),
		})
	}

	return samples, nil
}

func (p *OpenMeteoProvider) fetchHourlyPayload(ctx context.Context, baseURL string, lat, lon float64, days int, extra url.Values) (*hourlyPayload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("forecast_days", fmt.Sprintf("%d", days))
		values.Set("timezone", "auto")
		for k, vs := range extra {
			for _, v := range vs {
				values.Set(k, v)
			}
		}

		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := upstream.DoWithResilience(ctx, p.httpCfg, p.circuit, buildRequest, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload hourlyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func payloadLocation(p *hourlyPayload) *time.Location {
	if p.UTCOffsetSeconds == 0 {
		return time.UTC
	}
	return time.FixedZone(p.Timezone, p.UTCOffsetSeconds)
}

// at indexes a nullable series; out-of-range reads as nil.
func at(arr []*float64, i int) *float64 {
	if i >= len(arr) {
		return nil
	}
	return arr[i]
}
