// Package installer runs the one-shot elevated installation of a benchmark
// dependency (e.g. the memtier driver package) before the first pass.
// Installation is sequential and idempotent: the installer exits zero if the
// dependency is already present.
package installer

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Shobhakumari0502/VirtualClient/internal/execution"
	"github.com/Shobhakumari0502/VirtualClient/internal/retryutil"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// Installer runs a single install command via the process runner.
type Installer struct {
	Runner execution.Runner
	// Command and Args of the installer, run elevated.
	Command string
	Args    []string
	// Username is the run-as user for the elevated launch.
	Username string
}

// Install runs the installer once, retried under the instance policy.
func (i *Installer) Install(ctx context.Context) error {
	if i.Command == "" {
		return nil
	}
	log.WithField("command", i.Command).Info("installing benchmark dependency")
	return retryutil.WithRetry(ctx, retryutil.InstancePolicy(), func() error {
		handle, err := i.Runner.Launch(ctx, execution.LaunchSpec{
			Command:  i.Command,
			Args:     i.Args,
			Elevated: true,
			Username: i.Username,
		})
		if err != nil {
			return err
		}
		outcome, err := handle.Await(ctx)
		if err != nil {
			return err
		}
		if outcome.ExitCode != 0 {
			return errors.WithStack(&vcerrors.ErrExecutionLaunchFailure{
				Command:  i.Command,
				ExitCode: outcome.ExitCode,
				Message:  "installer exited with disallowed status",
			})
		}
		return nil
	})
}
