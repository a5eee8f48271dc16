package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Robertodalfre/surfcheck-sub000/internal/spots"
	"github.com/Robertodalfre/surfcheck-sub000/internal/surf"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *surf.Service, registry *spots.Registry) {
	v1 := app.Group("/api/v1")

	v1.Get("/spots", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"spots": registry.Spots()})
	})

	v1.Get("/spots/:id/forecast", func(c *fiber.Ctx) error {
		spot, ok := registry.Spot(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown spot")
		}

		days, err := parseDays(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		scored, err := service.ScoredForecast(c.Context(), spot, days)
		if err != nil {
			return c.JSON(fiber.Map{
				"spot_id": spot.ID,
				"status":  fetchStatus(err),
				"message": err.Error(),
				"hours":   []surf.ScoreResult{},
			})
		}

		return c.JSON(fiber.Map{
			"spot_id": spot.ID,
			"status":  surf.StatusSuccess,
			"hours":   scored,
		})
	})

	v1.Get("/spots/:id/windows", func(c *fiber.Ctx) error {
		spot, ok := registry.Spot(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown spot")
		}

		days, err := parseDays(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		threshold := c.QueryInt("threshold", surf.DefaultGoodThreshold)
		if threshold < 0 || threshold > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "threshold must be 0-100")
		}

		windows, err := service.GoodWindows(c.Context(), spot, days, threshold)
		if err != nil {
			return c.JSON(fiber.Map{
				"spot_id": spot.ID,
				"status":  fetchStatus(err),
				"message": err.Error(),
				"windows": []surf.Window{},
			})
		}
		if windows == nil {
			windows = []surf.Window{}
		}

		return c.JSON(fiber.Map{
			"spot_id": spot.ID,
			"status":  surf.StatusSuccess,
			"windows": windows,
		})
	})

	v1.Get("/spots/:id/best", func(c *fiber.Ctx) error {
		spot, ok := registry.Spot(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown spot")
		}

		prefs, err := parsePreferences(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(service.AnalyzeSpot(c.Context(), spot, prefs))
	})

	v1.Get("/regions/:id/best", func(c *fiber.Ctx) error {
		var subset []string
		if raw := c.Query("spots"); raw != "" {
			subset = strings.Split(raw, ",")
		}

		name, members, ok := registry.Region(c.Params("id"), subset)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown region")
		}

		prefs, err := parsePreferences(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		topK := c.QueryInt("top", 3)
		if topK < 1 || topK > 20 {
			return fiber.NewError(fiber.StatusBadRequest, "top must be 1-20")
		}

		return c.JSON(service.CompareRegion(c.Context(), name, members, prefs, topK))
	})
}

// fetchStatus separates an empty upstream series from a genuine fetch
// failure, mirroring the analyzer's status folding.
func fetchStatus(err error) surf.AnalysisStatus {
	if errors.Is(err, surf.ErrNoData) {
		return surf.StatusNoData
	}
	return surf.StatusError
}

func parseDays(c *fiber.Ctx) (int, error) {
	days := c.QueryInt("days", 3)
	if days < 1 || days > 7 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "days must be 1-7")
	}
	return days, nil
}

// parsePreferences binds and validates the analysis preferences from query
// parameters, defaulting everything the caller leaves out.
func parsePreferences(c *fiber.Ctx) (surf.Preferences, error) {
	prefs := surf.DefaultPreferences()

	prefs.DaysAhead = c.QueryInt("days", prefs.DaysAhead)
	prefs.MinScore = c.QueryInt("min_score", prefs.MinScore)
	prefs.MaxWindows = c.QueryInt("limit", prefs.MaxWindows)

	if raw := c.Query("min_energy"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return prefs, fiber.NewError(fiber.StatusBadRequest, "invalid min_energy")
		}
		prefs.MinEnergyKwM = v
	}

	if raw := c.Query("style"); raw != "" {
		prefs.Style = surf.SurfStyle(raw)
	}
	if raw := c.Query("wind"); raw != "" {
		prefs.Wind = surf.WindPreference(raw)
	}
	if raw := c.Query("time_windows"); raw != "" {
		for _, bucket := range strings.Split(raw, ",") {
			prefs.TimeWindows = append(prefs.TimeWindows, surf.TimeBucket(strings.TrimSpace(bucket)))
		}
	}

	if err := validate.Struct(prefs); err != nil {
		return prefs, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return prefs, nil
}
