package fetcher

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Throttle enforces a minimum gap between the end of one request and the
// start of the next. A random jitter is added whenever a wait is needed.
type Throttle struct {
	minDelay  time.Duration
	jitterMin time.Duration
	jitterMax time.Duration

	mu      sync.Mutex
	lastEnd time.Time

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(lo, hi time.Duration) time.Duration
}

// NewThrottle creates a Throttle. A zero minDelay disables waiting.
func NewThrottle(minDelay, jitterMin, jitterMax time.Duration) *Throttle {
	return &Throttle{
		minDelay:  minDelay,
		jitterMin: jitterMin,
		jitterMax: jitterMax,
		now:       time.Now,
		sleep:     sleepContext,
		jitter:    randomBetween,
	}
}

// Do waits for the gap to elapse, then runs fn. Calls are serialized.
func (t *Throttle) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if wait := t.pending(); wait > 0 {
		if err := t.sleep(ctx, wait+t.jitter(t.jitterMin, t.jitterMax)); err != nil {
			return err
		}
	}

	defer func() { t.lastEnd = t.now() }()

	return fn(ctx)
}

// pending returns how much of the minimum gap is still outstanding.
func (t *Throttle) pending() time.Duration {
	if t.minDelay <= 0 || t.lastEnd.IsZero() {
		return 0
	}
	return t.minDelay - t.now().Sub(t.lastEnd)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// Throttled serializes a Fetcher behind a Throttle.
type Throttled struct {
	next     Fetcher
	throttle *Throttle
}

// NewThrottled wraps next with throttle.
func NewThrottled(next Fetcher, throttle *Throttle) *Throttled {
	return &Throttled{next: next, throttle: throttle}
}

// Fetch implements Fetcher.
func (t *Throttled) Fetch(ctx context.Context, rawURL string) (string, error) {
	var html string
	err := t.throttle.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		html, fetchErr = t.next.Fetch(ctx, rawURL)
		return fetchErr
	})
	if err != nil {
		return "", err
	}
	return html, nil
}
