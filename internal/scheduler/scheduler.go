package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// Scheduler periodically samples environmental data for all monitored regions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *env.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *env.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic sampling job and starts the underlying
// scheduler. The first run happens immediately so the service has data to
// answer questions against at startup.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: running sampling job")

		var wg sync.WaitGroup
		for _, region := range env.AllRegions() {
			region := region
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.service.SampleAndStore(ctx, region); err != nil {
					log.Printf("scheduler: sampling failed for %s: %v", region, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed sampling job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
