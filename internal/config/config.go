package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the process configuration, read once at startup.
type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound provider attempt.
	HTTPTimeout time.Duration

	// WorldTidesAPIKey enables the live tide provider; without it the
	// synthetic fallback pattern serves all tide requests.
	WorldTidesAPIKey string

	// GeocoderAPIKey (Google) resolves spots declared by city instead of
	// coordinates.
	GeocoderAPIKey string

	// SpotsFile is the YAML spot/region registry path.
	SpotsFile string

	// TideCacheTTL is the per-(spot, day) tide cache entry lifetime.
	TideCacheTTL time.Duration

	// PrewarmInterval controls how often the scheduler refreshes tide
	// caches for configured spots. Zero disables prewarming.
	PrewarmInterval time.Duration

	// PrewarmDays is how many days ahead the scheduler prewarms.
	PrewarmDays int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.WorldTidesAPIKey = os.Getenv("WORLDTIDES_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.SpotsFile = getenvDefault("SPOTS_FILE", "spots.yaml")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.TideCacheTTL, err = getenvDuration("TIDE_CACHE_TTL", "6h"); err != nil {
		return nil, err
	}
	if cfg.PrewarmInterval, err = getenvDuration("PREWARM_INTERVAL", "1h"); err != nil {
		return nil, err
	}

	cfg.PrewarmDays = getenvInt("PREWARM_DAYS", 3)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
