package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"github.com/quimed/chemspace-api/metrics"
)

// Per-client rate limiting

type RateLimiter struct {
	clients map[string]*ratelimit.Bucket
	mu      sync.RWMutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*ratelimit.Bucket),
	}
}

func (rl *RateLimiter) getBucket(clientIP string) *ratelimit.Bucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[clientIP]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		if bucket, exists = rl.clients[clientIP]; !exists {
			// Create bucket: 3 tokens per second, max 1000 tokens
			bucket = ratelimit.NewBucketWithRate(3, 1000)
			rl.clients[clientIP] = bucket
		}
		rl.mu.Unlock()
	}

	return bucket
}

// cleanup removes clients with full buckets periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(30 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			for ip, bucket := range rl.clients {
				if bucket.Available() == bucket.Capacity() {
					delete(rl.clients, ip)
				}
			}
			metrics.RateLimiterBucketsTotal.Set(float64(len(rl.clients)))
			rl.mu.Unlock()
		}
	}()
}

var globalRateLimiter = NewRateLimiter()

func init() {
	globalRateLimiter.cleanup()
}

// getTokenCost weighs endpoints by how much work they trigger: PNG renders
// and the full table cost more than a single-record lookup.
func getTokenCost(r *http.Request) int64 {
	path := r.URL.Path

	switch path {
	case "/", "/overview", "/glossary", "/favicon.ico":
		return 0
	case "/health", "/metrics":
		return 0
	case "/drugs":
		return 50 // full table
	case "/plots/scatter":
		return 20 // server-side PNG render
	}

	switch {
	case strings.HasSuffix(path, "/structure"):
		return 20 // proxied depiction render
	case strings.HasPrefix(path, "/stats/periods/"):
		return 10 // all-pairs testing
	case strings.HasPrefix(path, "/drugs/search/"):
		return 5
	}

	return 2
}

// RateLimitHandler applies per-IP token-bucket rate limiting with
// path-dependent costs.
func RateLimitHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cost := getTokenCost(r)
		if cost == 0 {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := r.RemoteAddr
		if idx := strings.LastIndex(clientIP, ":"); idx != -1 {
			clientIP = clientIP[:idx]
		}

		bucket := globalRateLimiter.getBucket(clientIP)

		if bucket.TakeAvailable(cost) < cost {
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
