package vcerrors

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(context.Canceled))
	assert.True(t, IsCancelled(context.DeadlineExceeded))
	assert.True(t, IsCancelled(errors.Wrap(context.Canceled, "wrapped")))
	assert.False(t, IsCancelled(nil))
	assert.False(t, IsCancelled(errors.New("boom")))
}

func TestIsRetryable(t *testing.T) {
	tests := map[string]struct {
		err       error
		retryable bool
	}{
		"nil":          {nil, false},
		"cancellation": {context.Canceled, false},
		"deadline":     {context.DeadlineExceeded, false},
		"transport":    {errors.New("connection refused"), true},
		"syncTimeout": {
			errors.WithStack(&ErrSynchronizationTimeout{Instance: "server01", Stage: "heartbeat", Timeout: time.Minute}),
			true,
		},
		"unexpectedState": {
			errors.WithStack(&ErrUnexpectedServerState{Instance: "server01", Message: "no ports"}),
			true,
		},
		"launchFailure": {
			errors.WithStack(&ErrExecutionLaunchFailure{Command: "memtier_benchmark", ExitCode: 1}),
			true,
		},
		"parseFailure": {
			errors.WithStack(&ErrResultsParsingFailed{Message: "no totals table"}),
			false,
		},
		"invalidResults": {
			errors.WithStack(&ErrInvalidResults{Message: "empty output"}),
			false,
		},
		"invalidArgument": {
			errors.WithStack(&ErrInvalidArgument{Name: "Protocol", Value: "foo"}),
			false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, IsRetryable(tc.err))
		})
	}
}

func TestErrorMessagesNameTheStage(t *testing.T) {
	err := &ErrSynchronizationTimeout{Instance: "server01", Stage: "online", Timeout: 10 * time.Minute}
	assert.Contains(t, err.Error(), "online")
	assert.Contains(t, err.Error(), "server01")

	stateErr := &ErrUnexpectedServerState{Instance: "server02", Message: "state contains no ports"}
	assert.Contains(t, stateErr.Error(), "server02")
	assert.Contains(t, stateErr.Error(), "no ports")
}
