// Package retryutil wraps units of work so that only transient failures are
// retried. Policies are plain values: max attempts, an attempt-indexed
// backoff, and a predicate. Two policies exist in practice, a coarse one
// around a whole per-server flow and a fine one around a single worker
// process launch; both honour cancellation at every point.
package retryutil

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// Policy describes how a unit of work is retried.
type Policy struct {
	// Name identifies the policy in attempt logs, e.g. "flow" or "instance".
	Name string
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts uint
	// Backoff returns the delay before attempt n+1, given that attempt n
	// (zero-based) just failed. Must be monotonic non-decreasing in n.
	Backoff func(attempt uint) time.Duration
	// RetryIf reports whether err is worth retrying. Cancellation is never
	// retried regardless of what this predicate returns.
	RetryIf func(err error) bool
}

// FlowPolicy returns the coarse policy applied around a whole per-server
// synchronization and dispatch sequence: few attempts, multi-second backoff.
func FlowPolicy() Policy {
	return Policy{
		Name:        "flow",
		MaxAttempts: 3,
		Backoff:     LinearBackoff(2 * time.Second),
		RetryIf:     vcerrors.IsRetryable,
	}
}

// InstancePolicy returns the fine policy applied around a single worker
// process launch.
func InstancePolicy() Policy {
	return Policy{
		Name:        "instance",
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Second),
		RetryIf:     vcerrors.IsRetryable,
	}
}

// LinearBackoff returns an attempt-proportional backoff: unit, 2*unit, ...
func LinearBackoff(unit time.Duration) func(attempt uint) time.Duration {
	return func(attempt uint) time.Duration {
		return time.Duration(attempt+1) * unit
	}
}

// WithRetry runs operation under the given policy. The last observed error is
// surfaced unchanged after attempts are exhausted. Cancellation of ctx aborts
// any in-progress backoff delay immediately, suppresses further attempts, and
// surfaces ctx.Err().
func WithRetry(ctx context.Context, policy Policy, operation func() error) error {
	return retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return operation()
		},
		retry.Context(ctx),
		retry.Attempts(policy.MaxAttempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if vcerrors.IsCancelled(err) {
				return false
			}
			return policy.RetryIf == nil || policy.RetryIf(err)
		}),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return policy.Backoff(n)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.WithFields(log.Fields{
				"policy":  policy.Name,
				"attempt": n + 1,
				"backoff": policy.Backoff(n),
			}).Warnf("attempt failed, retrying: %s", err)
		}),
	)
}
