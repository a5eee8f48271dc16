package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/Robertodalfre/surfcheck-sub000/internal/api/http"
	"github.com/Robertodalfre/surfcheck-sub000/internal/config"
	"github.com/Robertodalfre/surfcheck-sub000/internal/marine"
	"github.com/Robertodalfre/surfcheck-sub000/internal/scheduler"
	"github.com/Robertodalfre/surfcheck-sub000/internal/spots"
	"github.com/Robertodalfre/surfcheck-sub000/internal/store"
	"github.com/Robertodalfre/surfcheck-sub000/internal/surf"
	"github.com/Robertodalfre/surfcheck-sub000/internal/tide"
)

func main() {
	// Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Spot registry. Spots without coordinates are geocoded at load time.
	registry, err := spots.Load(cfg.SpotsFile, cfg.GeocoderAPIKey)
	if err != nil {
		log.Fatalf("failed to load spot registry: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Tide pipeline: upstream extremes provider, per-day TTL cache,
	// interpolation service. Without an API key the provider degrades to
	// synthetic extremes.
	tideProvider := tide.NewWorldTidesProvider(httpClient, cfg.WorldTidesAPIKey)
	tideCache := store.NewMemory[tide.DayEntry](cfg.TideCacheTTL)
	tides := tide.NewService(tideProvider, tideCache, cfg.TideCacheTTL)

	// Forecast provider with resilience (backoff + circuit breaker).
	forecasts := marine.NewOpenMeteoProvider(httpClient)

	// Core service orchestrating forecasts, tides, and scoring.
	service := surf.NewService(forecasts, tides)

	// Scheduler that keeps tide day-caches warm for every spot.
	sched := scheduler.New(registry.Spots(), cfg.PrewarmInterval, cfg.PrewarmDays, tides)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "surfcheck",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "surfcheck",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, registry)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
