package ledger

import (
	"context"
	"sync"
	"time"
)

// RateLimiter paces requests per mirror table
type RateLimiter struct {
	limiters map[string]*tableLimiter
	mu       sync.RWMutex
}

// tableLimiter is a token bucket refilled evenly over a minute
type tableLimiter struct {
	tokens chan struct{}
	refill *time.Ticker
	stop   chan struct{}
	limit  int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*tableLimiter),
	}
}

// Wait blocks until a request to table is allowed. requestsPerMinute <= 0
// disables limiting.
func (rl *RateLimiter) Wait(ctx context.Context, table string, requestsPerMinute int) error {
	if requestsPerMinute <= 0 {
		return ctx.Err()
	}

	limiter := rl.getLimiter(table, requestsPerMinute)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-limiter.tokens:
		return nil
	}
}

// getLimiter gets or creates the limiter for a table
func (rl *RateLimiter) getLimiter(table string, requestsPerMinute int) *tableLimiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[table]
	rl.mu.RUnlock()

	if exists && limiter.limit == requestsPerMinute {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := rl.limiters[table]; exists && limiter.limit == requestsPerMinute {
		return limiter
	}

	if limiter, exists := rl.limiters[table]; exists {
		limiter.close()
	}

	tokens := make(chan struct{}, requestsPerMinute)
	for i := 0; i < requestsPerMinute; i++ {
		tokens <- struct{}{}
	}

	limiter = &tableLimiter{
		tokens: tokens,
		refill: time.NewTicker(time.Minute / time.Duration(requestsPerMinute)),
		stop:   make(chan struct{}),
		limit:  requestsPerMinute,
	}

	go limiter.startRefill()

	rl.limiters[table] = limiter
	return limiter
}

func (tl *tableLimiter) startRefill() {
	for {
		select {
		case <-tl.stop:
			return
		case <-tl.refill.C:
			select {
			case tl.tokens <- struct{}{}:
			default:
				// bucket full
			}
		}
	}
}

func (tl *tableLimiter) close() {
	tl.refill.Stop()
	close(tl.stop)
}

// Stop stops all refill goroutines
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for table, limiter := range rl.limiters {
		limiter.close()
		delete(rl.limiters, table)
	}
}
