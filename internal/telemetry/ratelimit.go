package telemetry

import (
	"sync"

	"golang.org/x/time/rate"
)

// connLimiter throttles how many snapshot broadcasts a single websocket
// connection receives, independent of how fast the hub itself produces
// them — a slow or malicious client can't make the hub buffer unbounded
// backlog for it. Grounded on `r3e-network-service_layer`'s
// infrastructure/middleware RateLimiter: one rate.Limiter per key, built
// lazily, guarded by a mutex.
type connLimiter struct {
	mu       sync.Mutex
	limiters map[*connection]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newConnLimiter(perSecond float64, burst int) *connLimiter {
	return &connLimiter{
		limiters: make(map[*connection]*rate.Limiter),
		r:        rate.Limit(perSecond),
		burst:    burst,
	}
}

func (cl *connLimiter) allow(c *connection) bool {
	cl.mu.Lock()
	lim, ok := cl.limiters[c]
	if !ok {
		lim = rate.NewLimiter(cl.r, cl.burst)
		cl.limiters[c] = lim
	}
	cl.mu.Unlock()
	return lim.Allow()
}

func (cl *connLimiter) forget(c *connection) {
	cl.mu.Lock()
	delete(cl.limiters, c)
	cl.mu.Unlock()
}
