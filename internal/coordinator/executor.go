package coordinator

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Shobhakumari0502/VirtualClient/internal/dispatch"
	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
	"github.com/Shobhakumari0502/VirtualClient/internal/retryutil"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// State of one Execute pass.
type State string

const (
	StateNotStarted    State = "NotStarted"
	StateSynchronizing State = "Synchronizing"
	StateDispatching   State = "Dispatching"
	StateCompleted     State = "Completed"
	StateFailed        State = "Failed"
)

// Executor drives one benchmark pass: it synchronizes with every server role
// instance concurrently and dispatches workers against each. A successful
// warm-up pass sets a latch so later warm-up passes complete immediately.
//
// The latch deliberately does not re-validate synchronization state: a server
// that restarts after warm-up is caught by the next measured pass, which
// always re-synchronizes.
type Executor struct {
	Layout     layout.Provider
	Sync       *Synchronizer
	Dispatcher *dispatch.Dispatcher
	// FlowPolicy wraps each server's whole synchronize+dispatch sequence, so
	// a mid-dispatch failure causes a full re-synchronize.
	FlowPolicy retryutil.Policy
	// ClientInstances is the worker count per endpoint.
	ClientInstances int
	// WarmUp restricts each endpoint to one worker and skips aggregation.
	WarmUp bool

	warmed atomic.Bool
	state  atomic.Value
}

// State returns the executor's current lifecycle state.
func (e *Executor) State() State {
	if s, ok := e.state.Load().(State); ok {
		return s
	}
	return StateNotStarted
}

// Warmed reports whether a warm-up pass has completed.
func (e *Executor) Warmed() bool {
	return e.warmed.Load()
}

// Execute runs one full pass. Warm-up passes latch on success; measured
// passes always re-synchronize and re-dispatch. Any server's unretried error
// fails the whole run: all server tasks are awaited jointly and the first
// unhandled error is surfaced.
func (e *Executor) Execute(ctx context.Context) error {
	if e.WarmUp && e.warmed.Load() {
		log.Info("servers already warmed up, skipping pass")
		e.state.Store(StateCompleted)
		return nil
	}

	runID := uuid.New().String()
	servers := e.Layout.ListInstances(layout.RoleServer)
	if len(servers) == 0 {
		e.state.Store(StateFailed)
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "layout",
			Value:   layout.RoleServer,
			Message: "no instances hold the server role",
		})
	}
	log.WithFields(log.Fields{"run": runID, "servers": len(servers)}).Info("starting benchmark pass")

	e.state.Store(StateSynchronizing)
	g, ctx := errgroup.WithContext(ctx)
	for _, server := range servers {
		server := server
		g.Go(func() error {
			return retryutil.WithRetry(ctx, e.FlowPolicy, func() error {
				return e.runServer(ctx, server)
			})
		})
	}
	if err := g.Wait(); err != nil {
		if vcerrors.IsCancelled(err) {
			log.WithField("run", runID).Info("benchmark pass cancelled")
		} else {
			e.state.Store(StateFailed)
		}
		return err
	}

	if e.WarmUp {
		e.warmed.Store(true)
	}
	e.state.Store(StateCompleted)
	log.WithField("run", runID).Info("benchmark pass completed")
	return nil
}

// runServer is one flow attempt for one server: full synchronization
// followed by dispatch. Retried as a unit by the flow policy.
func (e *Executor) runServer(ctx context.Context, server layout.ClientInstance) error {
	state, err := e.Sync.Synchronize(ctx, server)
	if err != nil {
		return err
	}
	e.state.Store(StateDispatching)
	return e.Dispatcher.Dispatch(ctx, server, state, e.ClientInstances, e.WarmUp)
}
