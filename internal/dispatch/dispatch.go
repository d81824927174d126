// Package dispatch fans worker benchmark processes out across a server's
// published endpoints and awaits them jointly. One worker's terminal failure
// is isolated: siblings already mid-execution run to completion and the
// failure surfaces in the aggregate error.
package dispatch

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Shobhakumari0502/VirtualClient/internal/execution"
	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
	"github.com/Shobhakumari0502/VirtualClient/internal/peer"
	"github.com/Shobhakumari0502/VirtualClient/internal/results"
	"github.com/Shobhakumari0502/VirtualClient/internal/retryutil"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// WorkloadTask is one worker's process invocation. Rebuilt per retry
// attempt; never persisted.
type WorkloadTask struct {
	ServerAddress    string
	Port             int
	WorkerIndex      int
	CommandLine      string
	WorkingDirectory string
}

// Dispatcher launches the configured concurrency of worker processes against
// a ready server.
type Dispatcher struct {
	Runner     execution.Runner
	Aggregator *results.Aggregator
	// Policy wraps each worker's launch+await+validate cycle.
	Policy retryutil.Policy
	// CommandTemplate with {server}, {port} and {duration} placeholders.
	CommandTemplate  string
	WorkingDirectory string
	// Duration substituted into the command template, in whole seconds.
	Duration time.Duration
	// Elevated and Username control how worker processes are launched.
	Elevated bool
	Username string
}

// Dispatch launches instancesPerEndpoint workers per port (exactly one per
// port when warmUp is set; values <= 0 are treated as 1) and waits for all
// of them to complete or fail terminally. Ports must be validated non-empty
// by the synchronization stage before this is called.
func (d *Dispatcher) Dispatch(ctx context.Context, server layout.ClientInstance, state peer.ServerState, instancesPerEndpoint int, warmUp bool) error {
	if instancesPerEndpoint <= 0 {
		instancesPerEndpoint = 1
	}
	if warmUp {
		instancesPerEndpoint = 1
	}

	log.WithFields(log.Fields{
		"server":  server.Name,
		"ports":   state.Ports,
		"workers": instancesPerEndpoint * len(state.Ports),
		"warmUp":  warmUp,
	}).Info("dispatching workload")

	var wg sync.WaitGroup
	workerErrs := make([]error, instancesPerEndpoint*len(state.Ports))
	worker := 0
	for _, port := range state.Ports {
		for i := 0; i < instancesPerEndpoint; i++ {
			task := WorkloadTask{
				ServerAddress:    server.Address,
				Port:             port,
				WorkerIndex:      worker,
				CommandLine:      d.buildCommandLine(server.Address, port),
				WorkingDirectory: d.WorkingDirectory,
			}
			errSlot := &workerErrs[worker]
			wg.Add(1)
			go func() {
				defer wg.Done()
				*errSlot = d.runWorker(ctx, task, warmUp)
			}()
			worker++
		}
	}
	wg.Wait()

	var result *multierror.Error
	for _, err := range workerErrs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// runWorker executes one worker's full cycle: a retried launch+await+validate
// step, then a single non-retried parse-and-emit step. Re-running a process
// does not fix parse-incompatible output, so parsing sits outside the retry.
func (d *Dispatcher) runWorker(ctx context.Context, task WorkloadTask, warmUp bool) error {
	var outcome execution.Outcome
	err := retryutil.WithRetry(ctx, d.Policy, func() error {
		var err error
		outcome, err = d.runProcess(ctx, task)
		return err
	})
	if err != nil {
		if vcerrors.IsCancelled(err) {
			return err
		}
		log.WithFields(log.Fields{
			"server": task.ServerAddress,
			"port":   task.Port,
			"worker": task.WorkerIndex,
		}).Errorf("worker failed terminally: %s", err)
		return err
	}
	if warmUp {
		return nil
	}
	return d.Aggregator.Capture(outcome.Output, task.CommandLine, outcome.StartTime, outcome.EndTime)
}

func (d *Dispatcher) runProcess(ctx context.Context, task WorkloadTask) (execution.Outcome, error) {
	fields := strings.Fields(task.CommandLine)
	if len(fields) == 0 {
		return execution.Outcome{}, errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "CommandLine",
			Value:   task.CommandLine,
			Message: "command line is empty",
		})
	}
	handle, err := d.Runner.Launch(ctx, execution.LaunchSpec{
		Command:          fields[0],
		Args:             fields[1:],
		WorkingDirectory: task.WorkingDirectory,
		Elevated:         d.Elevated,
		Username:         d.Username,
	})
	if err != nil {
		return execution.Outcome{}, err
	}
	outcome, err := handle.Await(ctx)
	if err != nil {
		return execution.Outcome{}, err
	}
	if outcome.ExitCode != 0 {
		return execution.Outcome{}, errors.WithStack(&vcerrors.ErrExecutionLaunchFailure{
			Command:  task.CommandLine,
			ExitCode: outcome.ExitCode,
			Message:  "process exited with disallowed status",
		})
	}
	return outcome, nil
}

func (d *Dispatcher) buildCommandLine(serverAddress string, port int) string {
	replacer := strings.NewReplacer(
		"{server}", serverAddress,
		"{port}", strconv.Itoa(port),
		"{duration}", strconv.Itoa(int(d.Duration/time.Second)),
	)
	return replacer.Replace(d.CommandTemplate)
}
