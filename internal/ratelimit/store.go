// Package ratelimit implements fixed-window request limiting keyed by
// client IP. Counter state lives behind a small store interface so the
// gateway can run against an in-memory map, or Redis when the service is
// deployed with more than one replica.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore increments a counter with expiry. The first increment of
// a key opens its window; the count resets once the window elapses.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type entry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is the default in-process CounterStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Incr bumps the counter for key, opening a fresh window if none is
// active, and returns the count within the current window.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}
