package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps timings in process. It is used when no database URL is
// configured; timings are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	timings map[int64][]*Timing
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		timings: make(map[int64][]*Timing),
		now:     time.Now,
	}
}

func (s *MemoryStore) RecordTiming(_ context.Context, t *Timing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	cp := *t
	s.timings[t.RunID] = append(s.timings[t.RunID], &cp)
	return nil
}

func (s *MemoryStore) LatestTiming(_ context.Context, runID int64) (*Timing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Timing
	for _, t := range s.timings[runID] {
		if latest == nil || !t.CreatedAt.Before(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) ListTimings(_ context.Context, runID int64) ([]*Timing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Timing, 0, len(s.timings[runID]))
	for _, t := range s.timings[runID] {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) ClearTimings(_ context.Context, runID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timings, runID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
