// Package execution spawns and awaits OS-level benchmark processes.
// The coordinator depends only on the Runner interface; ExecRunner is the
// production implementation and tests substitute a scripted runner.
package execution

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// LaunchSpec describes one process invocation.
type LaunchSpec struct {
	Command          string
	Args             []string
	WorkingDirectory string
	// Elevated runs the command via sudo. Username, if set, selects the
	// run-as user.
	Elevated bool
	Username string
}

// Outcome is the result of one completed process.
type Outcome struct {
	ExitCode  int
	Output    string
	StartTime time.Time
	EndTime   time.Time
}

// Handle is a started process that can be awaited or terminated.
type Handle interface {
	// Await blocks until the process exits or ctx is cancelled. On
	// cancellation the process is terminated best-effort and ctx.Err() is
	// returned.
	Await(ctx context.Context) (Outcome, error)
	// Terminate requests the process stop: signal first, then best-effort
	// kill.
	Terminate()
}

// Runner starts processes.
type Runner interface {
	Launch(ctx context.Context, spec LaunchSpec) (Handle, error)
}

// ExecRunner runs processes via os/exec with captured combined output.
type ExecRunner struct{}

func (r *ExecRunner) Launch(ctx context.Context, spec LaunchSpec) (Handle, error) {
	name := spec.Command
	args := spec.Args
	if spec.Elevated {
		sudoArgs := []string{}
		if spec.Username != "" {
			sudoArgs = append(sudoArgs, "-u", spec.Username)
		}
		args = append(append(sudoArgs, name), args...)
		name = "sudo"
	}

	output := &bytes.Buffer{}
	cmd := exec.Command(name, args...)
	cmd.Dir = spec.WorkingDirectory
	cmd.Stdout = output
	cmd.Stderr = output

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.WithStack(&vcerrors.ErrExecutionLaunchFailure{
			Command: spec.Command,
			Message: err.Error(),
		})
	}
	return &execHandle{cmd: cmd, output: output, start: start}, nil
}

type execHandle struct {
	cmd    *exec.Cmd
	output *bytes.Buffer
	start  time.Time
}

func (h *execHandle) Await(ctx context.Context) (Outcome, error) {
	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()

	select {
	case <-ctx.Done():
		h.Terminate()
		// Reap the process so it doesn't leak, but don't wait for a natural
		// exit beyond the kill.
		<-done
		return Outcome{}, ctx.Err()
	case err := <-done:
		outcome := Outcome{
			Output:    h.output.String(),
			StartTime: h.start,
			EndTime:   time.Now(),
		}
		if err != nil {
			exitErr := &exec.ExitError{}
			if !errors.As(err, &exitErr) {
				return outcome, errors.WithStack(err)
			}
			outcome.ExitCode = exitErr.ExitCode()
		}
		return outcome, nil
	}
}

func (h *execHandle) Terminate() {
	if h.cmd.Process == nil {
		return
	}
	_ = h.cmd.Process.Signal(syscall.SIGTERM)
	_ = h.cmd.Process.Kill()
}
