package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	// networkQuietWindow is how long a tab must have no request in flight to count as idle.
	networkQuietWindow = 500 * time.Millisecond
	networkIdlePoll    = 50 * time.Millisecond
)

// inflightTracker counts a tab's outstanding network requests from CDP events.
type inflightTracker struct {
	mu         sync.Mutex
	active     map[network.RequestID]struct{}
	lastChange time.Time
	now        func() time.Time
}

func newInflightTracker() *inflightTracker {
	t := &inflightTracker{
		active: make(map[network.RequestID]struct{}),
		now:    time.Now,
	}
	t.lastChange = t.now()
	return t
}

// observe is registered with chromedp.ListenTarget and must not block.
func (t *inflightTracker) observe(ev any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.active[e.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(t.active, e.RequestID)
	case *network.EventLoadingFailed:
		delete(t.active, e.RequestID)
	default:
		return
	}
	t.lastChange = t.now()
}

// idle reports whether nothing has been in flight for at least quiet.
func (t *inflightTracker) idle(quiet time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active) == 0 && t.now().Sub(t.lastChange) >= quiet
}

// waitIdle blocks until the tab is idle or limit passes. Pages that never go
// quiet (long polling, streaming) are read once the limit is reached.
func (t *inflightTracker) waitIdle(ctx context.Context, quiet, limit time.Duration) error {
	deadline := time.NewTimer(limit)
	defer deadline.Stop()
	tick := time.NewTicker(networkIdlePoll)
	defer tick.Stop()

	for !t.idle(quiet) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-tick.C:
		}
	}
	return nil
}

// waitNetworkIdle is the chromedp action form of waitIdle.
func (t *inflightTracker) waitNetworkIdle(limit time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		return t.waitIdle(ctx, networkQuietWindow, limit)
	}
}
