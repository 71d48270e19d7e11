package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func newFakeThrottle(minDelay time.Duration) (*Throttle, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	t := NewThrottle(minDelay, 100*time.Millisecond, 500*time.Millisecond)
	t.now = clock.Now
	t.sleep = clock.Sleep
	t.jitter = func(lo, _ time.Duration) time.Duration { return lo }
	return t, clock
}

func TestThrottle_FirstRequestDoesNotWait(t *testing.T) {
	t.Parallel()

	th, clock := newFakeThrottle(2 * time.Second)

	require.NoError(t, th.Do(context.Background(), func(context.Context) error { return nil }))
	assert.Empty(t, clock.sleeps)
}

func TestThrottle_BackToBackWaitsGapPlusJitter(t *testing.T) {
	t.Parallel()

	th, clock := newFakeThrottle(2 * time.Second)
	noop := func(context.Context) error { return nil }

	require.NoError(t, th.Do(context.Background(), noop))
	require.NoError(t, th.Do(context.Background(), noop))

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 2*time.Second+100*time.Millisecond, clock.sleeps[0])
}

func TestThrottle_GapMeasuredFromEndOfPreviousRequest(t *testing.T) {
	t.Parallel()

	th, clock := newFakeThrottle(2 * time.Second)

	slow := func(context.Context) error {
		clock.now = clock.now.Add(5 * time.Second)
		return nil
	}
	require.NoError(t, th.Do(context.Background(), slow))

	clock.now = clock.now.Add(500 * time.Millisecond)
	require.NoError(t, th.Do(context.Background(), func(context.Context) error { return nil }))

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 1500*time.Millisecond+100*time.Millisecond, clock.sleeps[0])
}

func TestThrottle_NoWaitAfterGapElapsed(t *testing.T) {
	t.Parallel()

	th, clock := newFakeThrottle(time.Second)
	noop := func(context.Context) error { return nil }

	require.NoError(t, th.Do(context.Background(), noop))
	clock.now = clock.now.Add(3 * time.Second)
	require.NoError(t, th.Do(context.Background(), noop))

	assert.Empty(t, clock.sleeps)
}

func TestThrottle_FailedRequestStillCountsAsRequest(t *testing.T) {
	t.Parallel()

	th, clock := newFakeThrottle(time.Second)
	boom := errors.New("boom")

	err := th.Do(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	require.NoError(t, th.Do(context.Background(), func(context.Context) error { return nil }))
	assert.Len(t, clock.sleeps, 1)
}

func TestThrottle_CanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	th := NewThrottle(time.Hour, 0, 0)
	noop := func(context.Context) error { return nil }
	require.NoError(t, th.Do(context.Background(), noop))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := th.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRandomBetween(t *testing.T) {
	t.Parallel()

	for range 100 {
		d := randomBetween(100*time.Millisecond, 500*time.Millisecond)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 500*time.Millisecond)
	}
	assert.Equal(t, 100*time.Millisecond, randomBetween(100*time.Millisecond, 100*time.Millisecond))
}
