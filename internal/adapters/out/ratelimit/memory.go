// Package ratelimit provides the in-memory limiter guarding the HTTP API.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"golang.org/x/time/rate"

	"github.com/bnema/virtdock/internal/boundaries/out"
)

var _ out.RateLimiter = (*MemoryStore)(nil)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per client key. Buckets idle for
// longer than the configured TTL are dropped by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	rps     float64
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	log     zerowrap.Logger
}

// NewMemoryStore creates a store granting rps requests per second with the
// given burst to every key.
func NewMemoryStore(rps float64, burst int, idleTTL time.Duration, log zerowrap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		rps:     rps,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		log:     log,
	}
}

// Allow consumes one token from the bucket of key.
func (s *MemoryStore) Allow(_ context.Context, key string) bool {
	now := s.now()

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	s.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops the buckets not used within the idle TTL and returns how many
// were removed.
func (s *MemoryStore) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug().
					Str(zerowrap.FieldLayer, "adapter").
					Str(zerowrap.FieldAdapter, "ratelimit").
					Int("removed", n).
					Int("tracked", s.Len()).
					Msg("swept idle rate limiters")
			}
		}
	}
}
