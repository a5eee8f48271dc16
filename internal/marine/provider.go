package marine

import (
	"math"
	"time"

	"github.com/Robertodalfre/surfcheck-sub000/internal/surf"
)

// ErrNoData aliases the core sentinel so callers can errors.Is against
// either package.
var ErrNoData = surf.ErrNoData

// normalize turns an absent or non-finite provider value into nil, so the
// scorer never sees NaN.
func normalize(v *float64) *float64 {
	if v == nil || isNonFinite(*v) {
		return nil
	}
	return v
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// mergeByTime joins wave and wind series on their timestamps. Hours present
// only on one side keep the other side's fields nil.
func mergeByTime(waves, winds []surf.HourlySample) []surf.HourlySample {
	windAt := make(map[time.Time]surf.HourlySample, len(winds))
	for _, w := range winds {
		windAt[w.Time] = w
	}

	merged := make([]surf.HourlySample, 0, len(waves))
	for _, s := range waves {
		if w, ok := windAt[s.Time]; ok {
			s.WindSpeed = w.WindSpeed
			s.WindDirection = w.WindDirection
		}
		merged = append(merged, s)
	}
	return merged
}
