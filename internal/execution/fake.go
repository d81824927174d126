package execution

import (
	"context"
	"sync"
	"time"
)

// FakeRunner returns scripted outcomes without spawning processes.
type FakeRunner struct {
	// Output returned by every launched process.
	Output string
	// ExitCode returned by every launched process.
	ExitCode int
	// LaunchErr, if set, makes Launch itself fail.
	LaunchErr error
	// RunTime delays Await to simulate process runtime.
	RunTime time.Duration

	mu       sync.Mutex
	launches []LaunchSpec
}

// Launches returns every LaunchSpec seen so far.
func (r *FakeRunner) Launches() []LaunchSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LaunchSpec{}, r.launches...)
}

func (r *FakeRunner) Launch(ctx context.Context, spec LaunchSpec) (Handle, error) {
	r.mu.Lock()
	r.launches = append(r.launches, spec)
	r.mu.Unlock()
	if r.LaunchErr != nil {
		return nil, r.LaunchErr
	}
	return &fakeHandle{runner: r}, nil
}

type fakeHandle struct {
	runner     *FakeRunner
	terminated bool
}

func (h *fakeHandle) Await(ctx context.Context) (Outcome, error) {
	start := time.Now()
	if h.runner.RunTime > 0 {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-time.After(h.runner.RunTime):
		}
	} else if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		ExitCode:  h.runner.ExitCode,
		Output:    h.runner.Output,
		StartTime: start,
		EndTime:   time.Now(),
	}, nil
}

func (h *fakeHandle) Terminate() {
	h.terminated = true
}
