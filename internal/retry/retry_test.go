package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	attempts := 0
	err := p.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}

	attempts := 0
	boom := errors.New("still broken")
	err := p.Do(context.Background(), func() error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	p := Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		Retryable:   func(err error) bool { return false },
	}

	attempts := 0
	err := p.Do(context.Background(), func() error {
		attempts++
		return errors.New("fatal")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 10, BaseDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := p.Do(ctx, func() error {
		attempts++
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts, "no retry once the context is gone")
}

func TestZeroValuePolicyRunsOnce(t *testing.T) {
	var p Policy

	attempts := 0
	err := p.Do(context.Background(), func() error {
		attempts++
		return errors.New("nope")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("connection refused")))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(context.DeadlineExceeded))
}
