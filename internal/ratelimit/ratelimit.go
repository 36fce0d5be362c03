package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outbound media downloads per remote host so a run never
// hammers a single CDN endpoint.
type Limiter interface {
	Wait(ctx context.Context, host string) error
}

// PerHostLimiter keeps one token bucket per remote host.
type PerHostLimiter struct {
	hosts map[string]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

// NewPerHostLimiter creates a limiter allowing `requests` per `per` with the
// given burst for each distinct host.
func NewPerHostLimiter(requests int, per time.Duration, burst int) *PerHostLimiter {
	return &PerHostLimiter{
		hosts: make(map[string]*rate.Limiter),
		r:     rate.Every(per / time.Duration(requests)),
		b:     burst,
	}
}

var _ Limiter = (*PerHostLimiter)(nil)

func (l *PerHostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, exists := l.hosts[host]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.hosts[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
