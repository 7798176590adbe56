package env

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service orchestrates fetching from providers and persisting snapshots.
type Service struct {
	store     Store
	providers []Provider
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider) *Service {
	return &Service{
		store:     store,
		providers: providers,
	}
}

// SampleAndStore fetches data from all providers concurrently for the given
// region, aggregates successful readings, and stores a snapshot.
func (s *Service) SampleAndStore(ctx context.Context, region Region) error {
	if len(s.providers) == 0 {
		return fmt.Errorf("no providers configured")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, region)
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), region, err)
				return
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(readings) == 0 {
		// No providers succeeded; do not overwrite the last good snapshot.
		log.Printf("no successful provider readings for %s; keeping last good snapshot if any", region)
		return nil
	}

	snapshot := AggregateReadings(region, readings)
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	return s.store.SaveSnapshot(region, snapshot)
}

// Latest delegates to the underlying store.
func (s *Service) Latest(region Region) (Snapshot, error) {
	return s.store.Latest(region)
}

// Range delegates to the underlying store.
func (s *Service) Range(region Region, from, to time.Time) ([]Snapshot, error) {
	return s.store.Range(region, from, to)
}

// LatestAll returns the most recent snapshot per region.
func (s *Service) LatestAll() ([]Snapshot, error) {
	return s.store.LatestAll()
}
