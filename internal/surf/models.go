package surf

import (
	"time"

	"github.com/Robertodalfre/surfcheck-sub000/internal/geo"
)

// BottomType categorizes what a wave breaks over.
type BottomType string

const (
	BottomBeachbreak BottomType = "beachbreak"
	BottomPoint      BottomType = "point"
	BottomReef       BottomType = "reef"
)

// Label is the coarse 4-bucket quality label attached to an hourly score.
type Label string

const (
	LabelEpic Label = "epic"
	LabelGood Label = "good"
	LabelOK   Label = "ok"
	LabelBad  Label = "bad"
)

// QualityRating is the finer 5-level scale attached to analyzer windows.
type QualityRating string

const (
	RatingEpic      QualityRating = "epic"
	RatingExcellent QualityRating = "excellent"
	RatingGood      QualityRating = "good"
	RatingOK        QualityRating = "ok"
	RatingRegular   QualityRating = "regular"
)

// HourlySample is one hour of raw marine/weather data. Numeric fields are
// pointers: absent or non-finite provider values are nil, never NaN.
// Samples are read-only once built.
type HourlySample struct {
	Time time.Time `json:"time"`

	WaveHeight    *float64 `json:"wave_height"`    // m
	WaveDirection *float64 `json:"wave_direction"` // deg
	WavePeriod    *float64 `json:"wave_period"`    // s

	SwellHeight    *float64 `json:"swell_height"`    // m
	SwellDirection *float64 `json:"swell_direction"` // deg
	SwellPeriod    *float64 `json:"swell_period"`    // s, peak preferred over mean

	WindWaveHeight *float64 `json:"wind_wave_height"` // m

	WindSpeed     *float64 `json:"wind_speed"`     // km/h at 10 m
	WindDirection *float64 `json:"wind_direction"` // deg

	TideHeight *float64 `json:"tide_height"` // m, filled by tide interpolation
}

// TidePreference describes a spot's preferred tide stage.
type TidePreference string

const (
	TideAny  TidePreference = "any"
	TideLow  TidePreference = "low"
	TideMid  TidePreference = "mid"
	TideHigh TidePreference = "high"
)

// SpotProfile is the static geometry of a surf spot. Read-only input; loaded
// from the spot registry at startup.
type SpotProfile struct {
	ID   string  `json:"id" yaml:"id" validate:"required"`
	Name string  `json:"name" yaml:"name" validate:"required"`
	Lat  float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`

	// BeachAzimuth is the compass direction the beach faces, looking out
	// to sea.
	BeachAzimuth float64 `json:"beach_azimuth" yaml:"beach_azimuth" validate:"gte=0,lt=360"`

	IdealApproach geo.Sector   `json:"ideal_approach" yaml:"ideal_approach"`
	SwellWindow   geo.Sector   `json:"swell_window" yaml:"swell_window"`
	ShadowSectors []geo.Sector `json:"shadow_sectors,omitempty" yaml:"shadow_sectors"`

	// OffshoreSectors: wind coming from these directions grooms the waves.
	// BadOnshoreSectors: directions that wreck the spot fastest.
	OffshoreSectors   []geo.Sector `json:"offshore_sectors,omitempty" yaml:"offshore_sectors"`
	BadOnshoreSectors []geo.Sector `json:"bad_onshore_sectors,omitempty" yaml:"bad_onshore_sectors"`

	BottomType    BottomType `json:"bottom_type" yaml:"bottom_type" validate:"oneof=beachbreak point reef"`
	ShallowBottom bool       `json:"shallow_bottom" yaml:"shallow_bottom"`

	TidePreference  TidePreference `json:"tide_preference" yaml:"tide_preference"`
	TideSensitivity float64        `json:"tide_sensitivity" yaml:"tide_sensitivity" validate:"gte=0,lte=1"`
}

// OffshoreDirection is the heading of a pure offshore wind for this spot:
// the midpoint of the first offshore shelter sector, or the reciprocal of
// the beach azimuth when no shelter sector is declared.
func (s SpotProfile) OffshoreDirection() float64 {
	if len(s.OffshoreSectors) > 0 {
		return s.OffshoreSectors[0].Midpoint()
	}
	return geo.Reciprocal(s.BeachAzimuth)
}

// IsOffshore reports whether wind from the given direction counts as
// offshore at this spot.
func (s SpotProfile) IsOffshore(windDir float64) bool {
	for _, sec := range s.OffshoreSectors {
		if sec.Contains(windDir) {
			return true
		}
	}
	if len(s.OffshoreSectors) == 0 {
		return geo.AngularDistance(windDir, geo.Reciprocal(s.BeachAzimuth)) <= 45
	}
	return false
}

// ScoreResult is the scored view of one (hour, spot) pair.
type ScoreResult struct {
	Time     time.Time          `json:"time"`
	Scores   map[string]float64 `json:"scores"` // each factor in [0,1]
	Score    int                `json:"score"`  // 0-100
	Label    Label              `json:"label"`
	Reasons  []string           `json:"reasons"`
	PowerKwM float64            `json:"power_kw_m"`

	// Sample keeps the raw hour alongside its score so downstream
	// filtering does not need a second lookup.
	Sample HourlySample `json:"-"`
}

// Window is a strict-threshold contiguous run of good hours.
type Window struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ScoreAvg   int       `json:"score_avg"`
	Hours      int       `json:"hours"`
	Highlights []string  `json:"highlights,omitempty"`
}

// AnalyzerWindow is the gap-tolerant, preference-filtered window variant,
// enriched with presentation metadata.
type AnalyzerWindow struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AvgScore int       `json:"avg_score"`
	Peak     int       `json:"peak_score"`
	Hours    int       `json:"hours"`

	BestHour       *ScoreResult  `json:"best_hour,omitempty"`
	Description    string        `json:"description"`
	QualityRating  QualityRating `json:"quality_rating"`
	RecommendedFor []string      `json:"recommended_for,omitempty"`
}

// SurfStyle narrows which waves a rider wants.
type SurfStyle string

const (
	StyleAny        SurfStyle = "any"
	StyleLongboard  SurfStyle = "longboard"
	StyleShortboard SurfStyle = "shortboard"
)

// WindPreference narrows acceptable wind states.
type WindPreference string

const (
	WindAny      WindPreference = "any"
	WindOffshore WindPreference = "offshore"
	WindLight    WindPreference = "light"
)

// TimeBucket buckets an hour of the day.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"   // 05-09
	BucketMidday    TimeBucket = "midday"    // 09-14
	BucketAfternoon TimeBucket = "afternoon" // 14-18
	BucketOther     TimeBucket = "other"
)

// Preferences is the validated analysis request. Defaulting and validation
// happen at the HTTP boundary; the core trusts what it receives.
type Preferences struct {
	DaysAhead    int            `json:"days_ahead" validate:"gte=1,lte=7"`
	TimeWindows  []TimeBucket   `json:"time_windows,omitempty" validate:"dive,oneof=morning midday afternoon other"`
	MinScore     int            `json:"min_score" validate:"gte=0,lte=100"`
	MinEnergyKwM float64        `json:"min_energy_kw_m" validate:"gte=0"`
	Style        SurfStyle      `json:"style" validate:"oneof=any longboard shortboard"`
	Wind         WindPreference `json:"wind" validate:"oneof=any offshore light"`
	MaxWindows   int            `json:"max_windows" validate:"gte=1,lte=20"`
}

// DefaultPreferences returns the baseline analysis request.
func DefaultPreferences() Preferences {
	return Preferences{
		DaysAhead:  3,
		MinScore:   55,
		Style:      StyleAny,
		Wind:       WindAny,
		MaxWindows: 5,
	}
}

// AnalysisStatus marks how an analysis ended.
type AnalysisStatus string

const (
	StatusSuccess AnalysisStatus = "success"
	StatusNoData  AnalysisStatus = "no_data"
	StatusError   AnalysisStatus = "error"
)

// AnalysisResult is what the Window Analyzer always returns; errors never
// escape past this shape.
type AnalysisResult struct {
	SpotID  string           `json:"spot_id"`
	Status  AnalysisStatus   `json:"status"`
	Message string           `json:"message,omitempty"`
	Windows []AnalyzerWindow `json:"windows"`
}

// SpotRank is one region-ranking entry.
type SpotRank struct {
	SpotID   string          `json:"spot_id"`
	SpotName string          `json:"spot_name"`
	AvgScore int             `json:"avg_score"`
	Peak     int             `json:"peak_score"`
	BestHour *ScoreResult    `json:"best_hour,omitempty"`
	Window   *AnalyzerWindow `json:"window,omitempty"`
}

// RegionRanking compares every analyzed spot of a region.
type RegionRanking struct {
	Region   string         `json:"region"`
	Status   AnalysisStatus `json:"status"`
	Message  string         `json:"message,omitempty"`
	BestSpot *SpotRank      `json:"best_spot,omitempty"`
	Rankings []SpotRank     `json:"rankings"`
}
