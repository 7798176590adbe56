package store

import (
	"errors"
	"sync"
	"time"

	"github.com/HassanBassiouny/AQLLM/internal/env"
)

var (
	// ErrNotFound is returned when no data is available for a given region.
	ErrNotFound = errors.New("no data for region")
)

// snapshotHistory holds a time-ordered list of snapshots for a region.
type snapshotHistory struct {
	snapshots []env.Snapshot
}

// MemoryStore is a concurrency-safe in-memory implementation of env.Store.
type MemoryStore struct {
	mu sync.RWMutex

	data map[env.Region]*snapshotHistory

	// retention configuration
	maxHistory int           // max number of snapshots per region
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[env.Region]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveSnapshot appends a new snapshot for a region and enforces retention.
func (s *MemoryStore) SaveSnapshot(region env.Region, snapshot env.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[region]
	if !ok {
		history = &snapshotHistory{}
		s.data[region] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}

	return nil
}

// Latest returns the most recent snapshot for a region.
func (s *MemoryStore) Latest(region env.Region) (env.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[region]
	if !ok || len(history.snapshots) == 0 {
		return env.Snapshot{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// Range returns all snapshots for a region between from and to (inclusive).
func (s *MemoryStore) Range(region env.Region, from, to time.Time) ([]env.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[region]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []env.Snapshot
	for _, snap := range history.snapshots {
		if !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// LatestAll returns the newest snapshot for every region that has data.
func (s *MemoryStore) LatestAll() ([]env.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []env.Snapshot
	for _, region := range env.AllRegions() {
		history, ok := s.data[region]
		if !ok || len(history.snapshots) == 0 {
			continue
		}
		result = append(result, history.snapshots[len(history.snapshots)-1])
	}
	return result, nil
}
