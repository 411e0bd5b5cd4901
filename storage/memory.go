package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"recipe-giving/types"
)

// MemoryStore keeps everything in process memory. Data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	locations map[string]types.LocationCacheEntry
	donations []types.Donation
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory backend
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locations: make(map[string]types.LocationCacheEntry),
		now:       time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, visitorID string) (*types.LocationCacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.locations[visitorID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Put(ctx context.Context, entry types.LocationCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations[entry.VisitorID] = entry
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, donation types.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.donations = append(s.donations, donation)
	return nil
}

func (s *MemoryStore) GetRecent(ctx context.Context, limit int) ([]types.Donation, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) GetAll(ctx context.Context) ([]types.Donation, error) {
	s.mu.RLock()
	out := make([]types.Donation, len(s.donations))
	copy(out, s.donations)
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Info(ctx context.Context) StorageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StorageInfo{
		Type:        "memory",
		Location:    "process",
		LastSync:    s.now(),
		RecordCount: len(s.donations),
	}
}

func (s *MemoryStore) Close() error { return nil }

// PruneLocations drops cached locations older than maxAge and returns how many were removed
func (s *MemoryStore) PruneLocations(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge).UnixMilli()
	removed := 0
	for id, entry := range s.locations {
		if entry.Timestamp < cutoff {
			delete(s.locations, id)
			removed++
		}
	}
	return removed
}

// RunCleanup prunes stale location records every interval until ctx is done
func (s *MemoryStore) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PruneLocations(maxAge); n > 0 {
				logrus.WithField("removed", n).Info("🧹 Pruned stale cached locations")
			}
		}
	}
}

func sortNewestFirst(donations []types.Donation) {
	sort.SliceStable(donations, func(i, j int) bool {
		return donations[i].Timestamp.After(donations[j].Timestamp)
	})
}
