package tide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Robertodalfre/surfcheck-sub000/internal/upstream"
)

// Provider abstracts a tide-extremes source.
type Provider interface {
	Name() string
	FetchExtremes(ctx context.Context, lat, lon float64, start time.Time, days int) ([]Event, error)
}

// WorldTidesProvider implements Provider against the WorldTides v3 API.
type WorldTidesProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg upstream.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWorldTidesProvider(client *http.Client, apiKey string) *WorldTidesProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "worldtides",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &WorldTidesProvider{
		name:    "worldtides",
		apiKey:  apiKey,
		baseURL: "https://www.worldtides.info/api/v3",
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

func (p *WorldTidesProvider) Name() string {
	return p.name
}

// FetchExtremes retrieves sparse high/low events for a date range. When the
// provider rejects a request parameter, the offending optional parameter is
// stripped and the request retried once before giving up.
func (p *WorldTidesProvider) FetchExtremes(ctx context.Context, lat, lon float64, start time.Time, days int) ([]Event, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: worldtides api key is not configured", ErrQuota)
	}

	events, err := p.fetch(ctx, lat, lon, start, days, true)
	if errors.Is(err, upstream.ErrInvalidParameter) {
		// Recoverable path: drop the datum parameter and try once more.
		events, err = p.fetch(ctx, lat, lon, start, days, false)
	}
	return events, err
}

func (p *WorldTidesProvider) fetch(ctx context.Context, lat, lon float64, start time.Time, days int, withDatum bool) ([]Event, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("extremes", "")
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("start", fmt.Sprintf("%d", start.Unix()))
		values.Set("days", fmt.Sprintf("%d", days))
		values.Set("key", p.apiKey)
		if withDatum {
			values.Set("datum", "MSL")
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	classify := func(resp *http.Response) error {
		if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: status %d", ErrQuota, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusBadRequest {
			return nil
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.ToLower(string(body))
		if strings.Contains(msg, "datum") || strings.Contains(msg, "parameter") {
			return fmt.Errorf("%w: %s", upstream.ErrInvalidParameter, strings.TrimSpace(string(body)))
		}
		return nil
	}

	resp, err := upstream.DoWithResilience(ctx, p.httpCfg, p.circuit, buildRequest, classify)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Status   int    `json:"status"`
		Error    string `json:"error"`
		Extremes []struct {
			Dt     int64   `json:"dt"`
			Height float64 `json:"height"`
			Type   string  `json:"type"`
		} `json:"extremes"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if payload.Error != "" {
		if strings.Contains(strings.ToLower(payload.Error), "quota") {
			return nil, fmt.Errorf("%w: %s", ErrQuota, payload.Error)
		}
		return nil, fmt.Errorf("worldtides: %s", payload.Error)
	}
	if len(payload.Extremes) == 0 {
		return nil, ErrNoData
	}

	events := make([]Event, 0, len(payload.Extremes))
	for _, e := range payload.Extremes {
		t := TypeLow
		if strings.EqualFold(e.Type, "high") {
			t = TypeHigh
		}
		events = append(events, Event{
			Time:   time.Unix(e.Dt, 0).UTC(),
			Type:   t,
			Height: e.Height,
		})
	}

	return events, nil
}
