package surf

import (
	"math"

	"github.com/Robertodalfre/surfcheck-sub000/internal/geo"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// val unwraps a nullable sample field.
func val(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// WavePowerKwM approximates deep-water energy flux per meter of crest:
// P = 0.49 * H^2 * T. Zero when either input is not positive.
func WavePowerKwM(heightM, periodS float64) float64 {
	if heightM <= 0 || periodS <= 0 {
		return 0
	}
	return powerCoeff * heightM * heightM * periodS
}

// Steepness returns H / (1.56 * T^2), the deep-water height-to-wavelength
// ratio. Zero when either input is not positive.
func Steepness(heightM, periodS float64) float64 {
	if heightM <= 0 || periodS <= 0 {
		return 0
	}
	return heightM / (1.56 * periodS * periodS)
}

// scoreSwellAngle: 1 inside the ideal-approach sector, linear falloff over
// a pad on either side, 0 when swell direction is unknown.
func scoreSwellAngle(hour HourlySample, spot SpotProfile) float64 {
	dir, ok := val(hour.SwellDirection)
	if !ok {
		return 0
	}
	d := spot.IdealApproach.DistanceTo(dir)
	if d == 0 {
		return 1
	}
	if d >= swellAnglePadDeg {
		return 0
	}
	return 1 - d/swellAnglePadDeg
}

// scoreWindow: 0 outside the swell window, a diminished score inside a
// shadow-blocked sub-sector, else 1.
func scoreWindow(hour HourlySample, spot SpotProfile) float64 {
	dir, ok := val(hour.SwellDirection)
	if !ok {
		return 0
	}
	if !spot.SwellWindow.Contains(dir) {
		return 0
	}
	for _, shadow := range spot.ShadowSectors {
		if shadow.Contains(dir) {
			return shadowBlockScore
		}
	}
	return 1
}

// energyFromPower maps wave power through the piecewise anchor bands.
func energyFromPower(p float64, spot SpotProfile) float64 {
	var s float64
	switch {
	case p <= 0:
		return 0
	case p < powerLowKwM:
		s = p / powerLowKwM * energyLowCeil
	case p < powerMidKwM:
		s = energyLowCeil + (p-powerLowKwM)/(powerMidKwM-powerLowKwM)*(energyMidCeil-energyLowCeil)
	case p <= powerHighKwM:
		s = energyMidCeil + (p-powerMidKwM)/(powerHighKwM-powerMidKwM)*(energyHighCeil-energyMidCeil)
	default:
		s = energyMax
	}
	if p > powerHighKwM && spot.BottomType == BottomBeachbreak && spot.ShallowBottom {
		s -= shallowHeavyPenalty
	}
	return clamp01(s)
}

// scoreTexture: 1 minus the wind-sea to swell height ratio. Missing swell or
// wind-wave height means there is no basis to judge texture.
func scoreTexture(hour HourlySample) float64 {
	swell, ok := val(hour.SwellHeight)
	if !ok || swell <= 0 {
		return 0
	}
	windWave, ok := val(hour.WindWaveHeight)
	if !ok {
		return 0
	}
	if windWave < 0 {
		windWave = 0
	}
	return clamp01(1 - windWave/swell)
}

// windAlignScore bands the angular distance between the actual wind and a
// pure offshore wind.
func windAlignScore(windDir float64, spot SpotProfile) float64 {
	d := geo.AngularDistance(windDir, spot.OffshoreDirection())
	switch {
	case d <= windOffshoreDeg:
		return 1
	case d <= windSlightDeg:
		return windAlignSlight
	case d <= windCrossDeg:
		return windAlignCross
	default:
		return windAlignOnshore
	}
}

// windSpeedScore penalizes both too-light and too-strong wind.
func windSpeedScore(speedKmh float64) float64 {
	switch {
	case speedKmh < 0:
		return 0
	case speedKmh < windTooLightKmh:
		return windLightScore
	case speedKmh <= windIdealMaxKmh:
		return 1
	case speedKmh <= windTooStrongKmh:
		// Linear decay from full score down to the strong-wind floor.
		frac := (speedKmh - windIdealMaxKmh) / (windTooStrongKmh - windIdealMaxKmh)
		return 1 - frac*(1-windStrongFloor)
	default:
		return windGaleScore
	}
}

// scoreWind is the product of directional alignment and speed magnitude.
func scoreWind(hour HourlySample, spot SpotProfile) float64 {
	dir, ok := val(hour.WindDirection)
	if !ok {
		return 0
	}
	speed, ok := val(hour.WindSpeed)
	if !ok {
		speed = 0
	}
	return clamp01(windAlignScore(dir, spot) * windSpeedScore(speed))
}

// scoreSteepness compares wave steepness against the spot's bottom-type
// ranges: 1 inside the ideal sub-range, linear falloff to 0 at the hard
// boundary, 0 for degenerate inputs.
func scoreSteepness(hour HourlySample, spot SpotProfile) float64 {
	h, okH := val(hour.SwellHeight)
	t, okT := val(hour.SwellPeriod)
	if !okH || !okT {
		return 0
	}
	s := Steepness(h, t)
	if s == 0 {
		return 0
	}

	r, ok := steepnessRanges[spot.BottomType]
	if !ok {
		r = steepnessRanges[BottomBeachbreak]
	}

	switch {
	case s >= r.idealLo && s <= r.idealHi:
		return 1
	case s < r.hardLo || s > r.hardHi:
		return 0
	case s < r.idealLo:
		return (s - r.hardLo) / (r.idealLo - r.hardLo)
	default:
		return (r.hardHi - s) / (r.hardHi - r.idealHi)
	}
}

// scoreTide is reserved: it reports a neutral value until tide scoring is
// weighted in.
func scoreTide(hour HourlySample, spot SpotProfile) float64 {
	return 0.5
}

// ScoreHour turns one hourly sample and a spot profile into sub-scores and
// a combined 0-100 score. The consistency factor starts at full score and is
// refined over the whole series by RefineConsistency.
func ScoreHour(hour HourlySample, spot SpotProfile) ScoreResult {
	swellH, _ := val(hour.SwellHeight)
	swellT, _ := val(hour.SwellPeriod)
	power := WavePowerKwM(swellH, swellT)

	scores := map[string]float64{
		FactorSwellAngle:  scoreSwellAngle(hour, spot),
		FactorWindow:      scoreWindow(hour, spot),
		FactorEnergy:      energyFromPower(power, spot),
		FactorTexture:     scoreTexture(hour),
		FactorWind:        scoreWind(hour, spot),
		FactorSteepness:   scoreSteepness(hour, spot),
		FactorConsistency: 1,
		FactorTide:        scoreTide(hour, spot),
	}

	combined := Combine(scores)

	return ScoreResult{
		Time:     hour.Time,
		Scores:   scores,
		Score:    combined,
		Label:    ToLabel(combined),
		Reasons:  buildReasons(combined, scores, power),
		PowerKwM: power,
		Sample:   hour,
	}
}

// Combine blends sub-scores with the fixed weight vector and rounds to an
// integer 0-100 score.
func Combine(scores map[string]float64) int {
	var sum float64
	for factor, weight := range combineWeights {
		sum += weight * clamp01(scores[factor])
	}
	return int(math.Round(100 * sum))
}

// ToLabel buckets a combined score at the 40/60/80 boundaries.
func ToLabel(score int) Label {
	switch {
	case score >= labelEpicMin:
		return LabelEpic
	case score >= labelGoodMin:
		return LabelGood
	case score >= labelOKMin:
		return LabelOK
	default:
		return LabelBad
	}
}

// ScoreSeries scores every hour and applies the consistency refinement: a
// trailing moving average of combined scores feeds back into each hour so
// that single-hour spikes against the local trend are damped.
func ScoreSeries(hours []HourlySample, spot SpotProfile) []ScoreResult {
	results := make([]ScoreResult, 0, len(hours))
	for _, h := range hours {
		results = append(results, ScoreHour(h, spot))
	}
	RefineConsistency(results)
	return results
}

// RefineConsistency recombines each hour's score with
// consistency = clamp01(1 - |score - MA3| / 30), where MA3 is the trailing
// moving average over the last consistencyMASpan hours including the
// current one.
func RefineConsistency(results []ScoreResult) {
	if len(results) == 0 {
		return
	}

	raw := make([]float64, len(results))
	for i, r := range results {
		raw[i] = float64(r.Score)
	}

	for i := range results {
		lo := i - consistencyMASpan + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		for j := lo; j <= i; j++ {
			sum += raw[j]
		}
		ma := sum / float64(i-lo+1)

		consistency := clamp01(1 - math.Abs(raw[i]-ma)/consistencySpike)
		results[i].Scores[FactorConsistency] = consistency

		combined := Combine(results[i].Scores)
		results[i].Score = combined
		results[i].Label = ToLabel(combined)
		results[i].Reasons = buildReasons(combined, results[i].Scores, results[i].PowerKwM)
	}
}
