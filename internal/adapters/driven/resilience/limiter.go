// Package resilience provides rate limiting and retries for the HTTP
// model adapters.
package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimitConfig holds rate limiting configuration for a provider.
type LimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultLimits are conservative per-provider defaults.
var DefaultLimits = map[string]LimitConfig{
	"openai":      {RequestsPerSecond: 5.0, BurstSize: 10},
	"huggingface": {RequestsPerSecond: 2.0, BurstSize: 4},
	"ollama":      {RequestsPerSecond: 20.0, BurstSize: 20},
}

// defaultBackoff applies when a 429 response carries no Retry-After.
const defaultBackoff = 30 * time.Second

// Limiter throttles requests with a token bucket and honours server
// back-off after a 429 response.
type Limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

// NewLimiter creates a limiter for the named provider. Unknown providers
// get a moderate default.
func NewLimiter(provider string) *Limiter {
	cfg, ok := DefaultLimits[provider]
	if !ok {
		cfg = LimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	return NewLimiterWithConfig(cfg)
}

// NewLimiterWithConfig creates a limiter with a custom configuration.
func NewLimiterWithConfig(cfg LimitConfig) *Limiter {
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request may be sent, first sitting out any back-off
// recorded by Backoff.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.bucket.Wait(ctx)
}

// Backoff delays all requests by d. A non-positive d uses the default.
func (l *Limiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = defaultBackoff
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if at := time.Now().Add(d); at.After(l.retryAt) {
		l.retryAt = at
	}
}
