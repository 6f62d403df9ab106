package downloader

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// SlotLimiter provides per-slot request pacing using token buckets.
// Each slot gets its own limiter with a burst of 1, so concurrent
// dispatches to different slots proceed while dispatches within a slot
// are spaced out.
type SlotLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewSlotLimiter creates a SlotLimiter allowing rps dispatches per second
// per slot.
func NewSlotLimiter(rps float64) *SlotLimiter {
	return &SlotLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a dispatch to the slot.
// Returns an error if the context is canceled before the wait completes.
func (l *SlotLimiter) Wait(ctx context.Context, slot string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[slot]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[slot] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
