package spots

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelvins/geocoder"
	"gopkg.in/yaml.v3"

	"github.com/Robertodalfre/surfcheck-sub000/internal/geo"
	"github.com/Robertodalfre/surfcheck-sub000/internal/surf"
)

var validate = validator.New()

// Entry is one spot in the registry file. Coordinates may be omitted when a
// city/country pair is given; those are resolved through the geocoder at
// load time (requires a Google API key).
type Entry struct {
	surf.SpotProfile `yaml:",inline"`

	City    string `yaml:"city,omitempty"`
	Country string `yaml:"country,omitempty"`
}

// Region groups spot IDs for cross-spot comparison.
type Region struct {
	ID      string   `yaml:"id" validate:"required"`
	Name    string   `yaml:"name" validate:"required"`
	SpotIDs []string `yaml:"spots" validate:"required,min=1"`
}

type registryFile struct {
	Spots   []Entry  `yaml:"spots"`
	Regions []Region `yaml:"regions"`
}

// Registry is the read-only spot/region catalog loaded at startup.
type Registry struct {
	spots   map[string]surf.SpotProfile
	order   []string
	regions map[string]Region
}

// Load reads and validates the YAML registry. Spots declared without
// coordinates are geocoded when an API key is configured, and rejected
// otherwise.
func Load(path, geocoderAPIKey string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spots file: %w", err)
	}
	return Parse(raw, geocoderAPIKey)
}

// Parse builds a Registry from raw YAML.
func Parse(raw []byte, geocoderAPIKey string) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse spots file: %w", err)
	}
	if len(file.Spots) == 0 {
		return nil, fmt.Errorf("spots file declares no spots")
	}

	reg := &Registry{
		spots:   make(map[string]surf.SpotProfile, len(file.Spots)),
		regions: make(map[string]Region, len(file.Regions)),
	}

	for i, entry := range file.Spots {
		if entry.Lat == 0 && entry.Lon == 0 && entry.City != "" {
			lat, lon, err := resolveCoordinates(entry, geocoderAPIKey)
			if err != nil {
				return nil, fmt.Errorf("spot %q: %w", entry.ID, err)
			}
			entry.Lat, entry.Lon = lat, lon
		}

		if err := validate.Struct(entry.SpotProfile); err != nil {
			return nil, fmt.Errorf("spot %d (%q): %w", i, entry.ID, err)
		}
		if err := validateSectors(entry.SpotProfile); err != nil {
			return nil, fmt.Errorf("spot %q: %w", entry.ID, err)
		}
		if _, dup := reg.spots[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate spot id %q", entry.ID)
		}

		if entry.TidePreference == "" {
			entry.TidePreference = surf.TideAny
		}

		reg.spots[entry.ID] = entry.SpotProfile
		reg.order = append(reg.order, entry.ID)
	}

	for _, region := range file.Regions {
		if err := validate.Struct(region); err != nil {
			return nil, fmt.Errorf("region %q: %w", region.ID, err)
		}
		for _, id := range region.SpotIDs {
			if _, ok := reg.spots[id]; !ok {
				return nil, fmt.Errorf("region %q references unknown spot %q", region.ID, id)
			}
		}
		reg.regions[region.ID] = region
	}

	return reg, nil
}

func resolveCoordinates(entry Entry, apiKey string) (float64, float64, error) {
	if apiKey == "" {
		return 0, 0, fmt.Errorf("no coordinates and no geocoder api key configured")
	}

	geocoder.ApiKey = apiKey
	location, err := geocoder.Geocoding(geocoder.Address{
		City:    entry.City,
		Country: entry.Country,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %s, %s: %w", entry.City, entry.Country, err)
	}

	log.Printf("spots: resolved %q to %.4f,%.4f via geocoder", entry.ID, location.Latitude, location.Longitude)
	return location.Latitude, location.Longitude, nil
}

func validateSectors(spot surf.SpotProfile) error {
	check := func(name string, s geo.Sector) error {
		if s.Lo < 0 || s.Lo >= 360 || s.Hi < 0 || s.Hi >= 360 {
			return fmt.Errorf("%s sector [%v,%v] out of 0-360", name, s.Lo, s.Hi)
		}
		return nil
	}

	if err := check("ideal_approach", spot.IdealApproach); err != nil {
		return err
	}
	if err := check("swell_window", spot.SwellWindow); err != nil {
		return err
	}
	for _, s := range spot.ShadowSectors {
		if err := check("shadow", s); err != nil {
			return err
		}
	}
	for _, s := range spot.OffshoreSectors {
		if err := check("offshore", s); err != nil {
			return err
		}
	}
	for _, s := range spot.BadOnshoreSectors {
		if err := check("bad_onshore", s); err != nil {
			return err
		}
	}
	return nil
}

// Spot returns one profile by ID.
func (r *Registry) Spot(id string) (surf.SpotProfile, bool) {
	s, ok := r.spots[id]
	return s, ok
}

// Spots returns all profiles in file order.
func (r *Registry) Spots() []surf.SpotProfile {
	out := make([]surf.SpotProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.spots[id])
	}
	return out
}

// Region resolves a region to its name and member profiles, optionally
// restricted to a subset of spot IDs.
func (r *Registry) Region(id string, subset []string) (string, []surf.SpotProfile, bool) {
	region, ok := r.regions[id]
	if !ok {
		return "", nil, false
	}

	want := make(map[string]bool, len(subset))
	for _, s := range subset {
		want[s] = true
	}

	var members []surf.SpotProfile
	for _, spotID := range region.SpotIDs {
		if len(want) > 0 && !want[spotID] {
			continue
		}
		members = append(members, r.spots[spotID])
	}
	return region.Name, members, true
}
