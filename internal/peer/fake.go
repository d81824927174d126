package peer

import (
	"context"
	"sync"
	"time"

	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
)

// Fake is a scripted ControlClient for tests. Each probe can be delayed or
// made to fail; calls are recorded per instance so tests can assert probe
// ordering.
type Fake struct {
	// State returned by GetServerState, per instance name.
	States map[string]ServerState
	// If set for an instance name, heartbeat probes fail with this error.
	HeartbeatErr map[string]error
	// If set for an instance name, online probes fail with this error.
	OnlineErr map[string]error
	// Transport error returned by GetServerState, per instance name.
	StateErr map[string]error
	// ProbeLatency delays every call, to make concurrency observable.
	ProbeLatency time.Duration

	mu    sync.Mutex
	calls []string
}

func NewFake() *Fake {
	return &Fake{
		States:       map[string]ServerState{},
		HeartbeatErr: map[string]error{},
		OnlineErr:    map[string]error{},
		StateErr:     map[string]error{},
	}
}

// Calls returns the recorded calls in order, formatted "<instance>/<call>".
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *Fake) record(instance layout.ClientInstance, call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, instance.Name+"/"+call)
}

func (f *Fake) wait(ctx context.Context) error {
	if f.ProbeLatency == 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.ProbeLatency):
		return nil
	}
}

func (f *Fake) PollHeartbeat(ctx context.Context, instance layout.ClientInstance, timeout time.Duration) error {
	f.record(instance, "heartbeat")
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.HeartbeatErr[instance.Name]
}

func (f *Fake) PollApplicationOnline(ctx context.Context, instance layout.ClientInstance, timeout time.Duration) error {
	f.record(instance, "online")
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.OnlineErr[instance.Name]
}

func (f *Fake) GetServerState(ctx context.Context, instance layout.ClientInstance) (ServerState, bool, error) {
	f.record(instance, "state")
	if err := f.wait(ctx); err != nil {
		return ServerState{}, false, err
	}
	if err := f.StateErr[instance.Name]; err != nil {
		return ServerState{}, false, err
	}
	state, ok := f.States[instance.Name]
	return state, ok, nil
}
