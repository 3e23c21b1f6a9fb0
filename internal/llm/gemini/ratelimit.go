package gemini

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultBackoff = 30 * time.Second

// limiter paces outgoing requests with a token bucket and honors a backoff
// window after the service answered 429. A limiter built with rpm <= 0 never
// blocks. The backoff only delays subsequent requests; a rate-limited call
// itself is not retried.
type limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

func newLimiter(requestsPerMinute float64, burst int) *limiter {
	if requestsPerMinute <= 0 {
		return &limiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiter{bucket: rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (l *limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if l.bucket == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}

// RecordRateLimitError opens a backoff window after a 429 response.
// retryAfter comes from the Retry-After header; zero falls back to a
// conservative default.
func (l *limiter) RecordRateLimitError(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = defaultBackoff
	}
	l.mu.Lock()
	l.retryAt = time.Now().Add(retryAfter)
	l.mu.Unlock()
}
