package geo

import "math"

// Sector is an angular range [Lo,Hi] in compass degrees. When Lo > Hi the
// sector wraps through north (e.g. [330,30]).
type Sector struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Normalize maps an angle in degrees onto [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// AngularDistance returns the shortest separation between two compass
// headings, always in [0,180].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Contains reports whether the heading lies inside the sector, handling
// wraparound through north.
func (s Sector) Contains(deg float64) bool {
	d := Normalize(deg)
	lo := Normalize(s.Lo)
	hi := Normalize(s.Hi)
	if lo <= hi {
		return d >= lo && d <= hi
	}
	return d >= lo || d <= hi
}

// Midpoint returns the heading at the center of the sector.
func (s Sector) Midpoint() float64 {
	lo := Normalize(s.Lo)
	hi := Normalize(s.Hi)
	if lo <= hi {
		return Normalize((lo + hi) / 2)
	}
	// Wrapped sector: walk half the wrapped width from Lo.
	width := 360 - lo + hi
	return Normalize(lo + width/2)
}

// DistanceTo returns 0 when the heading is inside the sector, otherwise the
// angular distance to the nearest sector edge.
func (s Sector) DistanceTo(deg float64) float64 {
	if s.Contains(deg) {
		return 0
	}
	dLo := AngularDistance(deg, s.Lo)
	dHi := AngularDistance(deg, s.Hi)
	return math.Min(dLo, dHi)
}

// Reciprocal returns the opposite compass heading.
func Reciprocal(deg float64) float64 {
	return Normalize(deg + 180)
}
