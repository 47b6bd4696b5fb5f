package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(rps float64, burst int) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(rps, burst, time.Minute, zerowrap.Default())
	store.now = clock.Now
	return store, clock
}

func TestMemoryStore_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		requests int
		want     int
	}{
		{name: "within burst", rps: 10, burst: 10, requests: 10, want: 10},
		{name: "burst exhausted", rps: 1, burst: 1, requests: 3, want: 1},
		{name: "partial burst", rps: 10, burst: 5, requests: 8, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(tt.rps, tt.burst)

			allowed := 0
			for i := 0; i < tt.requests; i++ {
				if store.Allow(context.Background(), "10.0.0.1") {
					allowed++
				}
			}
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestMemoryStore_Refill(t *testing.T) {
	store, clock := newTestStore(2, 1)
	ctx := context.Background()

	require.True(t, store.Allow(ctx, "10.0.0.1"))
	assert.False(t, store.Allow(ctx, "10.0.0.1"))

	clock.Advance(500 * time.Millisecond)
	assert.True(t, store.Allow(ctx, "10.0.0.1"))
}

func TestMemoryStore_IndependentKeys(t *testing.T) {
	store, _ := newTestStore(1, 1)
	ctx := context.Background()

	assert.True(t, store.Allow(ctx, "10.0.0.1"))
	assert.False(t, store.Allow(ctx, "10.0.0.1"))
	assert.True(t, store.Allow(ctx, "10.0.0.2"))
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	store, clock := newTestStore(1, 1)
	ctx := context.Background()

	store.Allow(ctx, "stale")
	clock.Advance(45 * time.Second)
	store.Allow(ctx, "fresh")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	// The swept key starts over with a full bucket.
	assert.True(t, store.Allow(ctx, "stale"))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store, _ := newTestStore(1, 100)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if store.Allow(ctx, "shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestMemoryStore_RunStopsWithContext(t *testing.T) {
	store, _ := newTestStore(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
