package surf

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// BucketForHour maps an hour of the day onto a coarse time-of-day bucket.
func BucketForHour(hour int) TimeBucket {
	switch {
	case hour >= bucketMorningStart && hour < bucketMiddayStart:
		return BucketMorning
	case hour >= bucketMiddayStart && hour < bucketAfternoonStart:
		return BucketMidday
	case hour >= bucketAfternoonStart && hour < bucketAfternoonEnd:
		return BucketAfternoon
	default:
		return BucketOther
	}
}

// hourEligible applies the filter pipeline in order: global hour-of-day
// bound, minimum score, minimum energy, time-bucket intersection, surf-style
// compatibility, wind-preference compatibility.
func hourEligible(hour ScoreResult, spot SpotProfile, prefs Preferences) bool {
	h := hour.Time.Hour()
	if h < dayStartHour || h >= dayEndHour {
		return false
	}

	if hour.Score < prefs.MinScore {
		return false
	}
	if hour.PowerKwM < prefs.MinEnergyKwM {
		return false
	}

	if len(prefs.TimeWindows) > 0 {
		bucket := BucketForHour(h)
		found := false
		for _, want := range prefs.TimeWindows {
			if want == bucket {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !styleCompatible(hour, prefs.Style) {
		return false
	}

	return windCompatible(hour, spot, prefs.Wind)
}

func styleCompatible(hour ScoreResult, style SurfStyle) bool {
	height, ok := val(hour.Sample.SwellHeight)
	switch style {
	case StyleLongboard:
		return ok && height >= longboardMinHeight && height <= longboardMaxHeight
	case StyleShortboard:
		return ok && height >= shortboardMinHeight && hour.PowerKwM >= shortboardMinPower
	default:
		return true
	}
}

func windCompatible(hour ScoreResult, spot SpotProfile, pref WindPreference) bool {
	speed, okSpeed := val(hour.Sample.WindSpeed)
	dir, okDir := val(hour.Sample.WindDirection)
	switch pref {
	case WindOffshore:
		return okDir && okSpeed && spot.IsOffshore(dir) && speed <= offshoreMaxWindKmh
	case WindLight:
		return okSpeed && speed <= lightMaxWindKmh
	default:
		return true
	}
}

// windowBuilder accumulates one gap-tolerant window incrementally.
type windowBuilder struct {
	hours     []ScoreResult
	sumScore  float64
	peak      int
	bestIdx   int
	sumHeight float64
	nHeight   int
	sumPower  float64
}

func (b *windowBuilder) add(hour ScoreResult) {
	if len(b.hours) == 0 || hour.Score > b.peak {
		b.peak = hour.Score
		b.bestIdx = len(b.hours)
	}
	b.hours = append(b.hours, hour)
	b.sumScore += float64(hour.Score)
	b.sumPower += hour.PowerKwM
	if h, ok := val(hour.Sample.SwellHeight); ok {
		b.sumHeight += h
		b.nHeight++
	}
}

func (b *windowBuilder) finish(style SurfStyle) AnalyzerWindow {
	n := float64(len(b.hours))
	avg := int(math.Round(b.sumScore / n))

	var avgHeight float64
	if b.nHeight > 0 {
		avgHeight = b.sumHeight / float64(b.nHeight)
	}
	avgPower := b.sumPower / n

	best := b.hours[b.bestIdx]

	return AnalyzerWindow{
		Start:          b.hours[0].Time,
		End:            b.hours[len(b.hours)-1].Time,
		AvgScore:       avg,
		Peak:           b.peak,
		Hours:          len(b.hours),
		BestHour:       &best,
		Description:    describeWindow(best, avgHeight, avgPower, style),
		QualityRating:  rateWindow(avg),
		RecommendedFor: recommendAudience(avgHeight, avgPower),
	}
}

// AnalyzeHours runs the preference pipeline over an already-scored series:
// filter, group with gap tolerance, enrich, rank, truncate, and re-sort
// chronologically for presentation.
func AnalyzeHours(scored []ScoreResult, spot SpotProfile, prefs Preferences) []AnalyzerWindow {
	var windows []AnalyzerWindow
	var builder *windowBuilder
	var lastIncluded time.Time

	flush := func() {
		if builder != nil {
			windows = append(windows, builder.finish(prefs.Style))
			builder = nil
		}
	}

	for _, hour := range scored {
		if !hourEligible(hour, spot, prefs) {
			continue
		}
		if builder != nil && hour.Time.Sub(lastIncluded) > analyzerGapHours*time.Hour {
			flush()
		}
		if builder == nil {
			builder = &windowBuilder{}
		}
		builder.add(hour)
		lastIncluded = hour.Time
	}
	flush()

	// Rank by average score, longer window on ties.
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].AvgScore != windows[j].AvgScore {
			return windows[i].AvgScore > windows[j].AvgScore
		}
		return windows[i].Hours > windows[j].Hours
	})

	limit := prefs.MaxWindows
	if limit <= 0 {
		limit = DefaultPreferences().MaxWindows
	}
	if len(windows) > limit {
		windows = windows[:limit]
	}

	// Present chronologically.
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})

	return windows
}

// rateWindow buckets a window's average score on the finer 5-level scale.
func rateWindow(avg int) QualityRating {
	switch {
	case avg >= ratingEpicMin:
		return RatingEpic
	case avg >= ratingExcellentMin:
		return RatingExcellent
	case avg >= ratingGoodMin:
		return RatingGood
	case avg >= ratingOKMin:
		return RatingOK
	default:
		return RatingRegular
	}
}

// recommendAudience derives rider bands from window-average height and
// power. A window may land in several bands.
func recommendAudience(avgHeight, avgPower float64) []string {
	var out []string
	if avgHeight <= beginnerMaxHeight && avgPower <= beginnerMaxPower {
		out = append(out, "beginner")
	}
	if avgHeight >= intermediateMinHeight && avgHeight <= intermediateMaxHeight {
		out = append(out, "intermediate")
	}
	if avgHeight >= advancedMinHeight || avgPower >= advancedMinPower {
		out = append(out, "advanced")
	}
	return out
}

// describeWindow concatenates the window's key numbers with a style-specific
// suffix. Presentation layers may rephrase; the core only concatenates data.
func describeWindow(best ScoreResult, avgHeight, avgPower float64, style SurfStyle) string {
	period, _ := val(best.Sample.SwellPeriod)
	wind, _ := val(best.Sample.WindSpeed)

	desc := fmt.Sprintf("%.1fm @ %.0fs, wind %.0f km/h, %.1f kW/m",
		avgHeight, period, wind, avgPower)

	switch style {
	case StyleLongboard:
		return desc + " - mellow walls for logging"
	case StyleShortboard:
		return desc + " - punchy enough for a shortboard"
	default:
		return desc
	}
}
