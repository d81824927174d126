package execution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	runner := &ExecRunner{}
	handle, err := runner.Launch(context.Background(), LaunchSpec{
		Command: "sh",
		Args:    []string{"-c", "echo hello; echo oops >&2"},
	})
	require.NoError(t, err)

	outcome, err := handle.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Contains(t, outcome.Output, "hello")
	assert.Contains(t, outcome.Output, "oops")
	assert.False(t, outcome.EndTime.Before(outcome.StartTime))
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	runner := &ExecRunner{}
	handle, err := runner.Launch(context.Background(), LaunchSpec{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
	})
	require.NoError(t, err)

	outcome, err := handle.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.ExitCode)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	runner := &ExecRunner{}
	_, err := runner.Launch(context.Background(), LaunchSpec{Command: "definitely-not-a-real-binary"})
	require.Error(t, err)
	var launchErr *vcerrors.ErrExecutionLaunchFailure
	assert.ErrorAs(t, err, &launchErr)
}

func TestExecRunnerCancellationTerminatesProcess(t *testing.T) {
	runner := &ExecRunner{}
	handle, err := runner.Launch(context.Background(), LaunchSpec{
		Command: "sleep",
		Args:    []string{"3600"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := handle.Await(ctx)
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("await did not return after cancellation")
	}
}
