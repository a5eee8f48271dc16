package tide

import "time"

// Synthetic fallback: when the provider is unavailable the scorer still
// needs a plausible tide curve, so we generate a deterministic semidiurnal
// pattern anchored to the Unix epoch. Roughly two highs (0.22-0.30 m) and
// two lows (-0.15 to -0.38 m) per day on the lunar 12h25m half-cycle.

const semidiurnalCycle = 12*time.Hour + 25*time.Minute

var syntheticEpoch = time.Unix(0, 0).UTC()

// SyntheticExtremes generates fallback tide extremes covering
// [start, start+days), with one extra leading event so the first requested
// hour always has a bracketing pair.
func SyntheticExtremes(start time.Time, days int) []Event {
	end := start.AddDate(0, 0, days)

	k := int64(start.Sub(syntheticEpoch) / semidiurnalCycle)
	if k > 0 {
		k--
	}

	var events []Event
	for {
		highTime := syntheticEpoch.Add(time.Duration(k) * semidiurnalCycle)
		if highTime.After(end) {
			break
		}

		highHeight := 0.22
		lowHeight := -0.15
		if k%2 == 0 {
			highHeight = 0.30
			lowHeight = -0.38
		}

		events = append(events, Event{Time: highTime, Type: TypeHigh, Height: highHeight})
		events = append(events, Event{
			Time:   highTime.Add(semidiurnalCycle / 2),
			Type:   TypeLow,
			Height: lowHeight,
		})

		k++
	}

	return events
}
