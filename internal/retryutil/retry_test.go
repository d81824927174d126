package retryutil

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts uint) Policy {
	return Policy{
		Name:        "test",
		MaxAttempts: attempts,
		Backoff:     LinearBackoff(time.Millisecond),
		RetryIf:     func(err error) bool { return true },
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetrySurfacesLastErrorUnchanged(t *testing.T) {
	lastErr := errors.New("final failure")
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("earlier failure")
		}
		return lastErr
	})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, lastErr)
}

func TestWithRetryRespectsPredicate(t *testing.T) {
	policy := fastPolicy(5)
	policy.RetryIf = func(err error) bool { return false }
	calls := 0
	err := WithRetry(context.Background(), policy, func() error {
		calls++
		return errors.New("terminal")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryNeverRetriesCancellation(t *testing.T) {
	// The predicate claims everything is retryable; cancellation must still
	// short-circuit.
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(5), func() error {
		calls++
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetryCancellationMidBackoffStopsAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := fastPolicy(3)
	policy.Backoff = LinearBackoff(time.Hour)

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- WithRetry(ctx, policy, func() error {
			calls++
			return errors.New("transient")
		})
	}()

	// Let the first attempt fail and the backoff delay start, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation did not abort the backoff delay")
	}
}

func TestWithRetryAlreadyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := WithRetry(ctx, fastPolicy(3), func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestLinearBackoffIsMonotonic(t *testing.T) {
	backoff := LinearBackoff(2 * time.Second)
	assert.Equal(t, 2*time.Second, backoff(0))
	assert.Equal(t, 4*time.Second, backoff(1))
	assert.Equal(t, 6*time.Second, backoff(2))
}
