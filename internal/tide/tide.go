package tide

import (
	"errors"
	"time"
)

// Type marks a tide extreme as a high or a low.
type Type string

const (
	TypeHigh Type = "high"
	TypeLow  Type = "low"
)

// Event is one recorded tide extreme. Sparse: 2-4 per day.
type Event struct {
	Time   time.Time `json:"time"`
	Type   Type      `json:"type"`
	Height float64   `json:"height"` // m relative to mean sea level
}

// Source of a tide series.
const (
	SourceProvider = "provider"
	SourceMock     = "mock"
)

// Series is the dense per-timestamp view derived from sparse extremes.
type Series struct {
	Heights map[time.Time]float64 `json:"heights"`
	Min     float64               `json:"min"`
	Max     float64               `json:"max"`
	Source  string                `json:"source"`
	Events  []Event               `json:"events"`
}

// HeightAt returns the interpolated height for a requested timestamp.
func (s Series) HeightAt(t time.Time) (float64, bool) {
	h, ok := s.Heights[t]
	return h, ok
}

var (
	// ErrNoData means the provider returned an empty extremes list.
	ErrNoData = errors.New("no tide data available")

	// ErrQuota means the provider refused the request for quota or
	// availability reasons; callers fall back to the synthetic pattern.
	ErrQuota = errors.New("tide provider quota exceeded")
)

// dayKey is the calendar-day cache key fragment for a timestamp. Keys are
// normalized to UTC so that spot-local request times and provider event
// times (UTC) land on the same entries.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
