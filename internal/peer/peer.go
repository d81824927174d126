// Package peer exposes the control-plane contract the coordinator uses to
// talk to remote instances: transport-level liveness, application-level
// readiness, and typed state retrieval. The coordinator depends only on the
// ControlClient interface so transports and fakes can be swapped freely.
package peer

import (
	"context"
	"time"

	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
)

// ServerState is the set of listening endpoints a server instance has
// published. Fetched once per synchronization cycle and treated as an opaque
// snapshot for that cycle.
type ServerState struct {
	Ports []int `json:"ports"`
}

// ControlClient is the per-instance control-plane contract.
type ControlClient interface {
	// PollHeartbeat blocks until the instance responds alive at the
	// transport level, the timeout elapses, or ctx is cancelled.
	PollHeartbeat(ctx context.Context, instance layout.ClientInstance, timeout time.Duration) error
	// PollApplicationOnline blocks until the instance's application layer
	// reports ready, the timeout elapses, or ctx is cancelled.
	PollApplicationOnline(ctx context.Context, instance layout.ClientInstance, timeout time.Duration) error
	// GetServerState fetches the instance's published state. The bool is
	// false if the instance holds no state for the key; an error indicates a
	// transport failure.
	GetServerState(ctx context.Context, instance layout.ClientInstance) (ServerState, bool, error)
}
