// Package ratelimit paces outbound calls to the upstream metadata API.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval keeps the service at roughly 3 upstream requests per second.
const DefaultInterval = 340 * time.Millisecond

// Pacer enforces a minimum interval between successive operations,
// measured start-to-start, across the whole process. A caller that waits
// and then fails still consumes its slot: the reservation is taken before
// the operation runs.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer creates a Pacer with the given minimum spacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pacer{interval: interval}
}

// Wait blocks until the caller's slot opens, then records it as taken.
// The read-then-write of the last slot time happens under the lock, so
// concurrent callers queue up with full spacing between them.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	var delay time.Duration
	if now.Before(next) {
		delay = next.Sub(now)
		p.last = next
	} else {
		p.last = now
	}
	p.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Interval reports the configured minimum spacing.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
