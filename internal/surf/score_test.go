package surf

import (
	"math"
	"testing"
	"time"

	"github.com/Robertodalfre/surfcheck-sub000/internal/geo"
)

func f(v float64) *float64 { return &v }

func testSpot() SpotProfile {
	return SpotProfile{
		ID:            "praia-norte",
		Name:          "Praia Norte",
		Lat:           -8.08,
		Lon:           -34.88,
		BeachAzimuth:  180,
		IdealApproach: geo.Sector{Lo: 160, Hi: 200},
		SwellWindow:   geo.Sector{Lo: 120, Hi: 240},
		ShadowSectors: []geo.Sector{{Lo: 120, Hi: 135}},
		OffshoreSectors: []geo.Sector{
			{Lo: 330, Hi: 30},
		},
		BottomType: BottomBeachbreak,
	}
}

func goodHour(at time.Time) HourlySample {
	return HourlySample{
		Time:           at,
		SwellHeight:    f(1.5),
		SwellDirection: f(180),
		SwellPeriod:    f(11),
		WindWaveHeight: f(0.2),
		WindSpeed:      f(8),
		WindDirection:  f(0),
	}
}

func TestWeightVectorSumsToOne(t *testing.T) {
	var active float64
	for factor, w := range combineWeights {
		if factor == FactorTide {
			if w != 0 {
				t.Fatalf("tide weight is reserved at 0, got %v", w)
			}
			continue
		}
		active += w
	}
	if math.Abs(active-1.0) > 1e-9 {
		t.Fatalf("active weights sum to %v, want 1.00", active)
	}
}

func TestCombineBounds(t *testing.T) {
	allZero := map[string]float64{}
	if got := Combine(allZero); got != 0 {
		t.Errorf("Combine(all zero) = %d, want 0", got)
	}

	allMax := make(map[string]float64)
	for factor := range combineWeights {
		allMax[factor] = 1
	}
	if got := Combine(allMax); got != 100 {
		t.Errorf("Combine(all max) = %d, want 100", got)
	}

	// Out-of-range sub-scores are clamped, keeping the result in 0-100.
	wild := map[string]float64{FactorEnergy: 7, FactorWind: -3}
	if got := Combine(wild); got < 0 || got > 100 {
		t.Errorf("Combine must stay within 0-100, got %d", got)
	}
}

func TestToLabelBuckets(t *testing.T) {
	cases := []struct {
		score int
		want  Label
	}{
		{0, LabelBad}, {39, LabelBad},
		{40, LabelOK}, {59, LabelOK},
		{60, LabelGood}, {79, LabelGood},
		{80, LabelEpic}, {100, LabelEpic},
	}
	for _, c := range cases {
		if got := ToLabel(c.score); got != c.want {
			t.Errorf("ToLabel(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestWavePower(t *testing.T) {
	if got := WavePowerKwM(0, 10); got != 0 {
		t.Errorf("WavePowerKwM(0,10) = %v, want 0", got)
	}
	if got := WavePowerKwM(1.5, 0); got != 0 {
		t.Errorf("WavePowerKwM(1.5,0) = %v, want 0", got)
	}
	if got := WavePowerKwM(-1, 10); got != 0 {
		t.Errorf("WavePowerKwM(-1,10) = %v, want 0", got)
	}

	// Strictly increasing in both height and period.
	base := WavePowerKwM(1.0, 10)
	if WavePowerKwM(1.1, 10) <= base {
		t.Error("wave power must increase with height")
	}
	if WavePowerKwM(1.0, 11) <= base {
		t.Error("wave power must increase with period")
	}

	// P = 0.49 * H^2 * T.
	if got := WavePowerKwM(2, 10); math.Abs(got-19.6) > 1e-9 {
		t.Errorf("WavePowerKwM(2,10) = %v, want 19.6", got)
	}
}

func TestSwellAngleInsideSectorScoresFull(t *testing.T) {
	r := ScoreHour(goodHour(time.Now()), testSpot())
	if got := r.Scores[FactorSwellAngle]; got != 1 {
		t.Errorf("swell at 180 into ideal [160,200] = %v, want 1", got)
	}
}

func TestSwellAnglePadFalloff(t *testing.T) {
	spot := testSpot()
	hour := goodHour(time.Now())

	hour.SwellDirection = f(207.5) // 7.5 deg past the sector edge
	r := ScoreHour(hour, spot)
	if got := r.Scores[FactorSwellAngle]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("falloff at half pad = %v, want 0.5", got)
	}

	hour.SwellDirection = f(220) // beyond the 15 deg pad
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorSwellAngle]; got != 0 {
		t.Errorf("beyond pad = %v, want 0", got)
	}

	hour.SwellDirection = nil
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorSwellAngle]; got != 0 {
		t.Errorf("unknown direction = %v, want 0", got)
	}
}

func TestWindowShadowAndExclusion(t *testing.T) {
	spot := testSpot()
	hour := goodHour(time.Now())

	r := ScoreHour(hour, spot)
	if got := r.Scores[FactorWindow]; got != 1 {
		t.Errorf("inside window = %v, want 1", got)
	}

	hour.SwellDirection = f(128) // inside the shadow sub-sector
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorWindow]; got != shadowBlockScore {
		t.Errorf("shadowed = %v, want %v", got, shadowBlockScore)
	}

	hour.SwellDirection = f(90) // outside the swell window entirely
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorWindow]; got != 0 {
		t.Errorf("outside window = %v, want 0", got)
	}
}

func TestEnergyAnchorBands(t *testing.T) {
	spot := testSpot()
	cases := []struct {
		power float64
		want  float64
	}{
		{0, 0},
		{1.5, 0.1},
		{3, 0.2},
		{5, 0.35},
		{7, 0.5},
		{12, 0.8},
		{15, 0.95},
	}
	for _, c := range cases {
		if got := energyFromPower(c.power, spot); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("energyFromPower(%v) = %v, want %v", c.power, got, c.want)
		}
	}
}

func TestShallowBeachHeavyPenalty(t *testing.T) {
	spot := testSpot()
	spot.ShallowBottom = true
	if got := energyFromPower(15, spot); math.Abs(got-0.85) > 1e-9 {
		t.Errorf("heavy surf on a shallow beachbreak = %v, want 0.85", got)
	}

	reef := testSpot()
	reef.BottomType = BottomReef
	reef.ShallowBottom = true
	if got := energyFromPower(15, reef); got != 0.95 {
		t.Errorf("penalty only applies to shallow beachbreaks, got %v", got)
	}
}

func TestZeroSwellHeight(t *testing.T) {
	hour := goodHour(time.Now())
	hour.SwellHeight = f(0)

	r := ScoreHour(hour, testSpot())
	if got := r.Scores[FactorTexture]; got != 0 {
		t.Errorf("texture with zero swell = %v, want 0", got)
	}
	if r.PowerKwM != 0 {
		t.Errorf("power with zero swell = %v, want 0 regardless of period", r.PowerKwM)
	}
}

func TestTextureRatio(t *testing.T) {
	hour := goodHour(time.Now())
	hour.SwellHeight = f(2.0)
	hour.WindWaveHeight = f(0.5)

	r := ScoreHour(hour, testSpot())
	if got := r.Scores[FactorTexture]; math.Abs(got-0.75) > 1e-9 {
		t.Errorf("texture = %v, want 0.75", got)
	}

	hour.WindWaveHeight = f(3.0) // wind sea exceeds swell
	r = ScoreHour(hour, testSpot())
	if got := r.Scores[FactorTexture]; got != 0 {
		t.Errorf("texture clamps at 0, got %v", got)
	}

	hour.WindWaveHeight = nil
	r = ScoreHour(hour, testSpot())
	if got := r.Scores[FactorTexture]; got != 0 {
		t.Errorf("texture with unknown wind sea = %v, want 0", got)
	}
}

func TestWindScore(t *testing.T) {
	spot := testSpot()
	hour := goodHour(time.Now())

	// Pure offshore at a friendly speed.
	hour.WindDirection = f(0)
	hour.WindSpeed = f(10)
	r := ScoreHour(hour, spot)
	if got := r.Scores[FactorWind]; got != 1 {
		t.Errorf("offshore wind at 10 km/h = %v, want 1", got)
	}

	// Unknown direction zeroes the factor.
	hour.WindDirection = nil
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorWind]; got != 0 {
		t.Errorf("unknown wind direction = %v, want 0", got)
	}

	// Dead onshore caps at the onshore band.
	hour.WindDirection = f(180)
	hour.WindSpeed = f(10)
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorWind]; math.Abs(got-windAlignOnshore) > 1e-9 {
		t.Errorf("onshore wind = %v, want %v", got, windAlignOnshore)
	}

	// Gale-force offshore still penalized on magnitude.
	hour.WindDirection = f(0)
	hour.WindSpeed = f(40)
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorWind]; math.Abs(got-windGaleScore) > 1e-9 {
		t.Errorf("offshore gale = %v, want %v", got, windGaleScore)
	}
}

func TestSteepnessBands(t *testing.T) {
	spot := testSpot() // beachbreak: ideal 0.0040-0.0100, hard 0.0020-0.0140
	hour := goodHour(time.Now())

	// S = 1.5 / (1.56 * 11^2) ~= 0.0079 -> ideal.
	r := ScoreHour(hour, spot)
	if got := r.Scores[FactorSteepness]; got != 1 {
		t.Errorf("ideal steepness = %v, want 1", got)
	}

	// Tiny weak swell on a long period: S well below the hard floor.
	hour.SwellHeight = f(0.2)
	hour.SwellPeriod = f(18)
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorSteepness]; got != 0 {
		t.Errorf("below hard range = %v, want 0", got)
	}

	// Missing period zeroes the factor.
	hour.SwellPeriod = nil
	r = ScoreHour(hour, spot)
	if got := r.Scores[FactorSteepness]; got != 0 {
		t.Errorf("missing period = %v, want 0", got)
	}
}

func TestScoreHourStaysInRange(t *testing.T) {
	spots := []SpotProfile{testSpot()}
	hours := []HourlySample{
		goodHour(time.Now()),
		{Time: time.Now()}, // everything unknown
		{Time: time.Now(), SwellHeight: f(4), SwellPeriod: f(18), SwellDirection: f(180), WindDirection: f(0), WindSpeed: f(50)},
	}
	for _, spot := range spots {
		for _, hour := range hours {
			r := ScoreHour(hour, spot)
			if r.Score < 0 || r.Score > 100 {
				t.Errorf("score out of range: %d", r.Score)
			}
			for factor, v := range r.Scores {
				if v < 0 || v > 1 {
					t.Errorf("factor %s out of [0,1]: %v", factor, v)
				}
			}
			if len(r.Reasons) == 0 {
				t.Error("every scored hour carries at least the bucket reason")
			}
		}
	}
}

func TestConsistencyDampensSpikes(t *testing.T) {
	mkResult := func(level float64) ScoreResult {
		scores := make(map[string]float64)
		for factor := range combineWeights {
			scores[factor] = level
		}
		scores[FactorConsistency] = 1
		combined := Combine(scores)
		return ScoreResult{Scores: scores, Score: combined, Label: ToLabel(combined)}
	}

	results := []ScoreResult{mkResult(0), mkResult(0), mkResult(1)}
	// Raw combined scores: 5, 5, 100 (consistency weight alone is 5).
	RefineConsistency(results)

	if results[0].Score != 5 {
		t.Errorf("steady hour must keep its score, got %d", results[0].Score)
	}
	// MA3 at the spike is (5+5+100)/3 = 36.67; |100-36.67| > 30 drives
	// consistency to 0, so the spike drops by the consistency weight.
	if results[2].Score != 95 {
		t.Errorf("spiking hour = %d, want 95", results[2].Score)
	}
	if got := results[2].Scores[FactorConsistency]; got != 0 {
		t.Errorf("spike consistency = %v, want 0", got)
	}
}

func TestConsistencyStableSeriesUntouched(t *testing.T) {
	spot := testSpot()
	base := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)

	hours := make([]HourlySample, 5)
	for i := range hours {
		hours[i] = goodHour(base.Add(time.Duration(i) * time.Hour))
	}

	scored := ScoreSeries(hours, spot)
	for i, r := range scored {
		if got := r.Scores[FactorConsistency]; got != 1 {
			t.Errorf("hour %d: stable series consistency = %v, want 1", i, got)
		}
	}
}

func TestReasonsLeadWithBucket(t *testing.T) {
	r := ScoreHour(goodHour(time.Now()), testSpot())
	if len(r.Reasons) == 0 {
		t.Fatal("expected reasons")
	}
	switch r.Reasons[0] {
	case reasonEpic, reasonGood, reasonFair, reasonPoor:
	default:
		t.Errorf("leading reason must summarize the bucket, got %q", r.Reasons[0])
	}
}
