package surf

// Every tunable threshold of the scoring pipeline lives here so the bands
// can be adjusted (and tested) without touching scoring logic.

// Factor names used as keys in ScoreResult.Scores.
const (
	FactorSwellAngle  = "swell_angle"
	FactorWindow      = "window"
	FactorEnergy      = "energy"
	FactorTexture     = "texture"
	FactorWind        = "wind"
	FactorSteepness   = "steepness"
	FactorConsistency = "consistency"
	FactorTide        = "tide"
)

// Combine weights. The active weights sum to 1.00; tide is reserved at 0
// until tide scoring is tuned in.
var combineWeights = map[string]float64{
	FactorSwellAngle:  0.20,
	FactorWindow:      0.15,
	FactorEnergy:      0.20,
	FactorTexture:     0.15,
	FactorWind:        0.15,
	FactorSteepness:   0.10,
	FactorConsistency: 0.05,
	FactorTide:        0.00,
}

// Label thresholds (strictly increasing, non-overlapping buckets).
const (
	labelEpicMin = 80
	labelGoodMin = 60
	labelOKMin   = 40
)

// Swell angle: linear falloff pad outside the ideal-approach sector.
const swellAnglePadDeg = 15.0

// Window: score inside a shadow-blocked sub-sector (partial blocking).
const shadowBlockScore = 0.1

// Wave power P = powerCoeff * H^2 * T (kW/m).
const powerCoeff = 0.49

// Energy piecewise anchor bands over wave power.
const (
	powerLowKwM  = 3.0  // below: linear 0 - 0.2
	powerMidKwM  = 7.0  // 3-7: 0.2 - 0.5
	powerHighKwM = 12.0 // 7-12: 0.5 - 0.8; above: 0.95

	energyLowCeil  = 0.2
	energyMidCeil  = 0.5
	energyHighCeil = 0.8
	energyMax      = 0.95

	// Heavy surf overwhelms shallow beachbreaks.
	shallowHeavyPenalty = 0.1
)

// Wind: directional alignment bands relative to pure offshore, and speed
// magnitude bounds in km/h.
const (
	windOffshoreDeg = 30.0  // within: full score
	windSlightDeg   = 75.0  // 0.6
	windCrossDeg    = 105.0 // 0.3; beyond: 0.1

	windAlignSlight  = 0.6
	windAlignCross   = 0.3
	windAlignOnshore = 0.1

	windTooLightKmh  = 4.0
	windIdealMaxKmh  = 15.0
	windTooStrongKmh = 28.0

	windLightScore  = 0.7 // too light to groom the face
	windStrongFloor = 0.4 // score at the strong-wind boundary
	windGaleScore   = 0.15
)

// Steepness S = H / (1.56 * T^2): per-bottom ideal and hard ranges.
// Full score inside ideal, linear falloff to 0 at the hard boundary.
type steepnessRange struct {
	idealLo, idealHi float64
	hardLo, hardHi   float64
}

var steepnessRanges = map[BottomType]steepnessRange{
	BottomBeachbreak: {idealLo: 0.0040, idealHi: 0.0100, hardLo: 0.0020, hardHi: 0.0140},
	BottomPoint:      {idealLo: 0.0030, idealHi: 0.0080, hardLo: 0.0015, hardHi: 0.0120},
	BottomReef:       {idealLo: 0.0050, idealHi: 0.0120, hardLo: 0.0025, hardHi: 0.0160},
}

// Consistency refinement: trailing moving-average span and spike divisor.
const (
	consistencyMASpan = 3
	consistencySpike  = 30.0
)

// Window aggregation.
const (
	DefaultGoodThreshold = 60
	maxHighlights        = 5
)

// Analyzer filters.
const (
	dayStartHour = 6  // global eligibility bound, local time
	dayEndHour   = 16 // exclusive

	bucketMorningStart   = 5
	bucketMiddayStart    = 9
	bucketAfternoonStart = 14
	bucketAfternoonEnd   = 18

	analyzerGapHours = 2

	longboardMinHeight = 0.5
	longboardMaxHeight = 1.5

	shortboardMinHeight = 1.0
	shortboardMinPower  = 3.0

	offshoreMaxWindKmh = 25.0
	lightMaxWindKmh    = 10.0
)

// Analyzer quality rating thresholds over a window's average score.
const (
	ratingEpicMin      = 85
	ratingExcellentMin = 75
	ratingGoodMin      = 65
	ratingOKMin        = 55
)

// Recommended-audience bands over window-average height (m) and power (kW/m).
const (
	beginnerMaxHeight = 1.2
	beginnerMaxPower  = 4.0

	intermediateMinHeight = 0.8
	intermediateMaxHeight = 2.0

	advancedMinHeight = 1.5
	advancedMinPower  = 6.0
)
