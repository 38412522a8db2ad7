package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiterConfig holds request rate limiting configuration.
// A RequestsPerMinute of 0 disables limiting.
type RateLimiterConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// tokenBucket is a standard token-bucket limiter. It is shared by the
// per-IP request limiter and the per-client WebSocket message limiter.
type tokenBucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity, refillRate float64) *tokenBucket {
	return &tokenBucket{
		tokens:     capacity,
		capacity:   capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// allow consumes one token if available.
func (b *tokenBucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	if b.tokens >= 1.0 {
		b.tokens--
		return true
	}
	return false
}

// remaining returns the whole tokens currently available.
func (b *tokenBucket) remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	return int(b.tokens)
}

// resetAt returns the time at which the bucket will be full again.
func (b *tokenBucket) resetAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)
	if b.tokens >= b.capacity {
		return now
	}
	secondsUntilFull := (b.capacity - b.tokens) / b.refillRate
	return now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
}

// refill credits tokens for the elapsed time. Callers hold b.mu.
func (b *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	b.lastRefill = now
}

// RateLimiter applies per-client-IP token-bucket rate limiting.
type RateLimiter struct {
	buckets map[string]*tokenBucket
	config  RateLimiterConfig
	mu      sync.RWMutex
}

// NewRateLimiter creates a rate limiter and starts its bucket cleanup
// loop. A zero BurstSize defaults to 10.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.BurstSize == 0 {
		config.BurstSize = 10
	}
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		config:  config,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) getBucket(ip string) *tokenBucket {
	rl.mu.RLock()
	bucket, ok := rl.buckets[ip]
	rl.mu.RUnlock()
	if ok {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if bucket, ok := rl.buckets[ip]; ok {
		return bucket
	}
	bucket = newTokenBucket(float64(rl.config.BurstSize), float64(rl.config.RequestsPerMinute)/60.0)
	rl.buckets[ip] = bucket
	return bucket
}

// cleanup drops buckets idle for more than five minutes.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-5 * time.Minute)
		rl.mu.Lock()
		for ip, bucket := range rl.buckets {
			bucket.mu.Lock()
			idle := bucket.lastRefill.Before(cutoff)
			bucket.mu.Unlock()
			if idle {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from ip should be allowed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.getBucket(ip).allow()
}

// Middleware applies rate limiting and sets the X-RateLimit headers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := rl.getBucket(getClientIP(r))
		reset := bucket.resetAt()

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RequestsPerMinute))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", bucket.remaining()))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

		if !bucket.allow() {
			retryAfter := int(time.Until(reset).Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			respondError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
				fmt.Sprintf("rate limit exceeded, try again in %d seconds", retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP, honoring X-Forwarded-For and
// X-Real-IP before falling back to RemoteAddr. Only well-formed IPs
// from the headers are trusted.
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// Leftmost entry is the originating client.
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if net.ParseIP(realIP) != nil {
			return realIP
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return "unknown"
}
