package out

import "context"

// RateLimiter throttles HTTP API callers.
type RateLimiter interface {
	// Allow reports whether one more request for key may proceed now.
	// Key is the client address.
	Allow(ctx context.Context, key string) bool
}
