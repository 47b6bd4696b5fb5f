package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/boundaries/out"
)

// RateLimit rejects requests with 429 once the client address has used up
// its budget. Paths listed in exempt bypass the limiter.
func RateLimit(limiter out.RateLimiter, log zerowrap.Logger, exempt ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if !limiter.Allow(r.Context(), key) {
				log.Warn().
					Str(zerowrap.FieldLayer, "adapter").
					Str(zerowrap.FieldAdapter, "http").
					Str(zerowrap.FieldClientIP, key).
					Str(zerowrap.FieldPath, r.URL.Path).
					Msg("rate limit exceeded")
				sendRateLimitError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func sendRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "rate limit exceeded",
		"kind":  "rate_limited",
	})
}

// clientIP returns the host part of the connection address. Forwarding
// headers are ignored.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
