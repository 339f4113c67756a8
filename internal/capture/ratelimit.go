package capture

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces remote capture calls
type RateLimiter interface {
	// Wait blocks until the rate limiter allows the request
	Wait(ctx context.Context) error

	// GetLimit returns current rate limit info
	GetLimit() RateLimitInfo

	// UpdateLimit adjusts the pace from the target's rate limit headers
	UpdateLimit(limit, remaining int, resetTime time.Time)
}

// RateLimitInfo represents current rate limit status
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

// TokenBucketLimiter is a RateLimiter on golang.org/x/time/rate that slows
// down when the target reports few remaining requests
type TokenBucketLimiter struct {
	limiter   *rate.Limiter
	base      rate.Limit
	mu        sync.RWMutex
	limit     int
	remaining int
	resetTime time.Time
}

// NewTokenBucketLimiter creates a limiter allowing rps requests per second.
// rps <= 0 disables pacing.
func NewTokenBucketLimiter(rps float64, burst int) *TokenBucketLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(limit, burst),
		base:    limit,
		limit:   -1,
	}
}

// Wait blocks until the rate limiter allows the request
func (r *TokenBucketLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// GetLimit returns the last limit reported by the target. Limit is -1 until
// the target has sent rate limit headers.
func (r *TokenBucketLimiter) GetLimit() RateLimitInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RateLimitInfo{
		Limit:     r.limit,
		Remaining: r.remaining,
		ResetTime: r.resetTime,
	}
}

// UpdateLimit records the target's limit and throttles when it runs low
func (r *TokenBucketLimiter) UpdateLimit(limit, remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limit = limit
	r.remaining = remaining
	r.resetTime = resetTime

	switch {
	case remaining <= 0 && time.Until(resetTime) > 0:
		// spread one request over the wait until reset
		r.limiter.SetLimit(rate.Every(time.Until(resetTime)))
	case limit > 0 && remaining < limit/10:
		r.limiter.SetLimit(r.base / 4)
	default:
		r.limiter.SetLimit(r.base)
	}
}

// updateFromHeaders reads the X-RateLimit-* headers of a response
func updateFromHeaders(limiter RateLimiter, headers http.Header) {
	limit, err := strconv.Atoi(headers.Get("X-RateLimit-Limit"))
	if err != nil {
		return
	}
	remaining, err := strconv.Atoi(headers.Get("X-RateLimit-Remaining"))
	if err != nil {
		return
	}
	resetTime := time.Now().Add(time.Minute)
	if resetUnix, err := strconv.ParseInt(headers.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		resetTime = time.Unix(resetUnix, 0)
	}
	limiter.UpdateLimit(limit, remaining, resetTime)
}
