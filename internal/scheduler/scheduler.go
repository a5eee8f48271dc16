package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Robertodalfre/surfcheck-sub000/internal/surf"
	"github.com/Robertodalfre/surfcheck-sub000/internal/tide"
)

// Scheduler periodically prewarms the tide day-caches for configured spots
// so interactive requests mostly hit warm entries.
type Scheduler struct {
	scheduler *gocron.Scheduler
	tides     *tide.Service
	spots     []surf.SpotProfile
	interval  time.Duration
	days      int
}

// New creates a new Scheduler.
func New(spots []surf.SpotProfile, interval time.Duration, days int, tides *tide.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		tides:     tides,
		spots:     spots,
		interval:  interval,
		days:      days,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.spots) == 0 || s.interval <= 0 {
		log.Println("scheduler: prewarming disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running tide prewarm job")

		var wg sync.WaitGroup
		for _, spot := range s.spots {
			spot := spot
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.prewarmSpot(ctx, spot); err != nil {
					log.Printf("scheduler: prewarm failed for %s: %v", spot.ID, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed tide prewarm job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// prewarmSpot touches every upcoming day's cache entry for one spot.
func (s *Scheduler) prewarmSpot(ctx context.Context, spot surf.SpotProfile) error {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var times []time.Time
	for day := 0; day < s.days; day++ {
		for _, hour := range []int{0, 6, 12, 18} {
			times = append(times, start.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour))
		}
	}

	_, err := s.tides.FetchForTimes(ctx, spot.Lat, spot.Lon, times, spot.ID, false)
	return err
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
