// Package vcerrors contains the error types returned by the benchmark
// coordinator. Errors are classified so that the retry layers can decide
// whether an attempt is worth repeating and so that a failed run reports
// which stage (synchronization, dispatch, or parsing) went wrong.
package vcerrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSynchronizationTimeout indicates that a heartbeat or application-online
// probe against a server instance did not succeed within its budget.
// Recoverable via flow-level retry.
type ErrSynchronizationTimeout struct {
	// Name of the instance being probed.
	Instance string
	// Probe stage that timed out, e.g. "heartbeat" or "online".
	Stage string
	// The budget that elapsed.
	Timeout time.Duration
}

func (err *ErrSynchronizationTimeout) Error() string {
	return fmt.Sprintf("%s probe against instance %q did not succeed within %s", err.Stage, err.Instance, err.Timeout)
}

// ErrUnexpectedServerState indicates that a state fetch succeeded at the
// transport level but returned no usable state, e.g. a missing key or an
// empty port set. Distinct from a transport failure; retryable at the flow
// level only.
type ErrUnexpectedServerState struct {
	Instance string
	Message  string
}

func (err *ErrUnexpectedServerState) Error() string {
	return fmt.Sprintf("instance %q returned unexpected server state: %s", err.Instance, err.Message)
}

// ErrExecutionLaunchFailure indicates that a worker process could not start
// or exited with a disallowed status. Recoverable via instance-level retry;
// after exhaustion it is that worker's terminal failure.
type ErrExecutionLaunchFailure struct {
	Command  string
	ExitCode int
	Message  string
}

func (err *ErrExecutionLaunchFailure) Error() string {
	return fmt.Sprintf("command %q failed with exit code %d: %s", err.Command, err.ExitCode, err.Message)
}

// ErrResultsParsingFailed indicates output was captured but could not be
// interpreted by the results parser. Never retried: re-running the process
// does not fix a parse-incompatible output format.
type ErrResultsParsingFailed struct {
	// A fragment of the output that failed to parse, for triage.
	Output  string
	Message string
}

func (err *ErrResultsParsingFailed) Error() string {
	return fmt.Sprintf("failed to parse benchmark results: %s", err.Message)
}

// ErrInvalidResults indicates captured output was empty or whitespace.
// Never retried.
type ErrInvalidResults struct {
	Message string
}

func (err *ErrInvalidResults) Error() string {
	return fmt.Sprintf("invalid benchmark results: %s", err.Message)
}

// ErrInvalidArgument indicates a configuration value that fails validation.
type ErrInvalidArgument struct {
	Name    string // Name of the field, e.g. "CommandTemplate".
	Value   any    // The invalid value.
	Message string // An optional message to include in the error message.
}

func (err *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("value %v is invalid for argument %s; %s", err.Value, err.Name, err.Message)
}

// IsCancelled returns true if err represents cooperative cancellation.
// Cancellation always short-circuits retries and is never classified as a
// failure for alerting purposes.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsRetryable returns true for transient failures worth repeating.
// Cancellation and parse-stage failures are terminal.
func IsRetryable(err error) bool {
	if err == nil || IsCancelled(err) {
		return false
	}
	var parseErr *ErrResultsParsingFailed
	var invalidErr *ErrInvalidResults
	var argErr *ErrInvalidArgument
	if errors.As(err, &parseErr) || errors.As(err, &invalidErr) || errors.As(err, &argErr) {
		return false
	}
	return true
}
