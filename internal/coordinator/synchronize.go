// Package coordinator establishes readiness of remote server instances and
// drives the benchmark run across all of them concurrently.
package coordinator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
	"github.com/Shobhakumari0502/VirtualClient/internal/peer"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// Synchronizer establishes, for one target server, that the peer is alive,
// its application layer is ready, and it has published a usable state,
// strictly in that order. Synchronization has no side effects beyond network
// calls and is safe to retry as a whole unit.
type Synchronizer struct {
	Control          peer.ControlClient
	HeartbeatTimeout time.Duration
	OnlineTimeout    time.Duration
}

// Synchronize runs the readiness sequence: heartbeat probe, then
// application-online probe, then state fetch. A probe that exhausts its
// budget yields ErrSynchronizationTimeout; a state fetch that succeeds at
// the transport level but returns no usable ports yields
// ErrUnexpectedServerState.
func (s *Synchronizer) Synchronize(ctx context.Context, server layout.ClientInstance) (peer.ServerState, error) {
	entry := log.WithField("server", server.Name)

	entry.Info("waiting for heartbeat")
	if err := s.Control.PollHeartbeat(ctx, server, s.HeartbeatTimeout); err != nil {
		if vcerrors.IsCancelled(err) {
			return peer.ServerState{}, err
		}
		return peer.ServerState{}, errors.WithStack(&vcerrors.ErrSynchronizationTimeout{
			Instance: server.Name,
			Stage:    "heartbeat",
			Timeout:  s.HeartbeatTimeout,
		})
	}

	entry.Info("waiting for application online signal")
	if err := s.Control.PollApplicationOnline(ctx, server, s.OnlineTimeout); err != nil {
		if vcerrors.IsCancelled(err) {
			return peer.ServerState{}, err
		}
		return peer.ServerState{}, errors.WithStack(&vcerrors.ErrSynchronizationTimeout{
			Instance: server.Name,
			Stage:    "online",
			Timeout:  s.OnlineTimeout,
		})
	}

	entry.Info("fetching server state")
	state, found, err := s.Control.GetServerState(ctx, server)
	if err != nil {
		return peer.ServerState{}, err
	}
	if !found {
		return peer.ServerState{}, errors.WithStack(&vcerrors.ErrUnexpectedServerState{
			Instance: server.Name,
			Message:  "no state published",
		})
	}
	if len(state.Ports) == 0 {
		return peer.ServerState{}, errors.WithStack(&vcerrors.ErrUnexpectedServerState{
			Instance: server.Name,
			Message:  "state contains no ports",
		})
	}
	entry.WithField("ports", state.Ports).Info("server ready")
	return state, nil
}
