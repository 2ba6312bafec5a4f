package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	t.Parallel()
	calls := 0

	err := Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	calls := 0

	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, InitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	calls := 0

	err := Do(context.Background(), func() error {
		calls++
		return errors.New("connection refused")
	}, Attempts(3), InitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	t.Parallel()
	calls := 0
	authErr := errors.New("unable to authenticate")

	err := Do(context.Background(), func() error {
		calls++
		return Permanent(authErr)
	}, InitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, authErr)
	assert.True(t, IsPermanent(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("no route to host")
	}, InitialDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_DelayIsCapped(t *testing.T) {
	t.Parallel()
	var stamps []time.Time

	err := Do(context.Background(), func() error {
		stamps = append(stamps, time.Now())
		return errors.New("still booting")
	}, Attempts(4), InitialDelay(5*time.Millisecond), MaxDelay(5*time.Millisecond))

	require.Error(t, err)
	require.Len(t, stamps, 4)
	for i := 1; i < len(stamps); i++ {
		assert.Less(t, stamps[i].Sub(stamps[i-1]), time.Second)
	}
}

func TestPermanent_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Permanent(nil))
	assert.False(t, IsPermanent(errors.New("plain")))
}
