package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrozenTracker(now *time.Time) *inflightTracker {
	t := newInflightTracker()
	t.now = func() time.Time { return *now }
	t.lastChange = *now
	return t
}

func TestInflightTracker_IdleAfterQuietWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	tracker := newFrozenTracker(&now)

	tracker.observe(&network.EventRequestWillBeSent{RequestID: "doc"})
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "xhr"})
	now = now.Add(time.Second)
	assert.False(t, tracker.idle(networkQuietWindow), "two requests in flight")

	tracker.observe(&network.EventLoadingFinished{RequestID: "doc"})
	tracker.observe(&network.EventLoadingFailed{RequestID: "xhr"})
	assert.False(t, tracker.idle(networkQuietWindow), "quiet window not elapsed")

	now = now.Add(networkQuietWindow)
	assert.True(t, tracker.idle(networkQuietWindow))
}

func TestInflightTracker_IgnoresUnrelatedEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	tracker := newFrozenTracker(&now)
	now = now.Add(time.Second)

	tracker.observe(&network.EventResponseReceived{RequestID: "doc"})
	assert.True(t, tracker.idle(networkQuietWindow))
}

func TestInflightTracker_WaitIdleStopsAtLimit(t *testing.T) {
	t.Parallel()

	tracker := newInflightTracker()
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "long-poll"})

	start := time.Now()
	require.NoError(t, tracker.waitIdle(context.Background(), networkQuietWindow, 150*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestInflightTracker_WaitIdleCanceled(t *testing.T) {
	t.Parallel()

	tracker := newInflightTracker()
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "long-poll"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, tracker.waitIdle(ctx, networkQuietWindow, time.Minute), context.Canceled)
}

func TestInflightTracker_WaitIdleReturnsOnceQuiet(t *testing.T) {
	t.Parallel()

	tracker := newInflightTracker()
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "doc"})
	tracker.observe(&network.EventLoadingFinished{RequestID: "doc"})

	start := time.Now()
	require.NoError(t, tracker.waitIdle(context.Background(), 100*time.Millisecond, time.Minute))
	assert.Less(t, time.Since(start), 10*time.Second)
}
