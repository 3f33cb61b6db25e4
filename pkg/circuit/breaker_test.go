package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errDown    = errors.New("connection refused")
	errMissing = errors.New("not found")
)

func newTestBreaker(clock *time.Time) *Breaker {
	b := New("sessions", Config{
		Threshold:        3,
		Cooldown:         time.Second,
		SuccessThreshold: 2,
		MaxProbes:        1,
		Ignore:           []error{errMissing},
	}, nil)
	b.now = func() time.Time { return *clock }
	return b
}

func fail(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(ctx, fail(errDown)), errDown)
	}
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)
	ctx := context.Background()

	b.Do(ctx, fail(errDown))
	b.Do(ctx, fail(errDown))
	b.Do(ctx, fail(nil))
	b.Do(ctx, fail(errDown))
	b.Do(ctx, fail(errDown))

	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerIgnoresAnswersAndCancellation(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		b.Do(ctx, fail(errMissing))
		b.Do(ctx, fail(context.Canceled))
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b.Do(ctx, fail(errDown))
	}
	require.Equal(t, StateOpen, b.State())

	clock = clock.Add(2 * time.Second)
	require.NoError(t, b.Do(ctx, fail(nil)))
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(ctx, fail(nil)))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b.Do(ctx, fail(errDown))
	}
	clock = clock.Add(2 * time.Second)

	assert.ErrorIs(t, b.Do(ctx, fail(errDown)), errDown)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Do(ctx, fail(nil)), ErrOpen)
}

func TestBreakerLimitsConcurrentProbes(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b.Do(ctx, fail(errDown))
	}
	clock = clock.Add(2 * time.Second)

	err := b.Do(ctx, func(ctx context.Context) error {
		// A second caller arrives while the probe is in flight.
		return b.Do(ctx, fail(nil))
	})
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreakerSnapshot(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	b := newTestBreaker(&clock)

	snapshot := b.Snapshot()
	assert.Equal(t, "sessions", snapshot["name"])
	assert.Equal(t, "closed", snapshot["state"])
	assert.NotContains(t, snapshot, "opened_at")

	for i := 0; i < 3; i++ {
		b.Do(context.Background(), fail(errDown))
	}
	snapshot = b.Snapshot()
	assert.Equal(t, "open", snapshot["state"])
	assert.Equal(t, clock, snapshot["opened_at"])
}
