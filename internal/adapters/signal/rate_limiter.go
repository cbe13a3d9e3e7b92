package signal

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/dkeye/Meet/internal/domain"
)

// RateLimiter keeps one token bucket per connection. A non-positive limit
// disables limiting.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[domain.ConnectionID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[domain.ConnectionID]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) Allow(cid domain.ConnectionID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	l, ok := rl.limiters[cid]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[cid] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}

// Forget drops the bucket of a closed connection.
func (rl *RateLimiter) Forget(cid domain.ConnectionID) {
	rl.mu.Lock()
	delete(rl.limiters, cid)
	rl.mu.Unlock()
}

func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
