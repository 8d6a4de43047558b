package usecase

import (
	"context"
	"sync"
	"time"
)

// DefaultMinDelay is the spacing between outbound search requests. Public
// engines throttle or block clients that query faster than a human would.
const DefaultMinDelay = 2 * time.Second

// Pacer enforces a minimum spacing between outbound requests. It is a pacing
// mechanism, not a token bucket: only the single most recent request
// timestamp matters. One Pacer is shared by everything that talks to the
// search engines.
type Pacer struct {
	minDelay time.Duration

	// now and sleep are injection points for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	last time.Time
}

// NewPacer creates a Pacer with the given minimum spacing. Non-positive
// delays fall back to DefaultMinDelay.
func NewPacer(minDelay time.Duration) *Pacer {
	if minDelay <= 0 {
		minDelay = DefaultMinDelay
	}
	return &Pacer{
		minDelay: minDelay,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until at least the minimum delay has elapsed since the previous
// recorded request, then records now as the new timestamp. The lock is held
// for the full wait so concurrent callers leave spaced out one after another
// instead of bursting when the delay expires. Returns the context's error if
// it is cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if remaining := p.minDelay - p.now().Sub(p.last); remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.last = p.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
