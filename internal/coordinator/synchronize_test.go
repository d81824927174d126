package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
	"github.com/Shobhakumari0502/VirtualClient/internal/peer"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

var server01 = layout.ClientInstance{Name: "server01", Role: layout.RoleServer, Address: "10.0.0.2"}

func newSynchronizer(control peer.ControlClient) *Synchronizer {
	return &Synchronizer{
		Control:          control,
		HeartbeatTimeout: time.Minute,
		OnlineTimeout:    30 * time.Second,
	}
}

func TestSynchronizeProbeOrder(t *testing.T) {
	fake := peer.NewFake()
	fake.States["server01"] = peer.ServerState{Ports: []int{6379}}

	state, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.NoError(t, err)
	assert.Equal(t, []int{6379}, state.Ports)

	// Heartbeat before online, both before state, always.
	assert.Equal(t, []string{"server01/heartbeat", "server01/online", "server01/state"}, fake.Calls())
}

func TestSynchronizeHeartbeatTimeout(t *testing.T) {
	fake := peer.NewFake()
	fake.HeartbeatErr["server01"] = errors.New("no route to host")

	_, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.Error(t, err)
	var timeoutErr *vcerrors.ErrSynchronizationTimeout
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "heartbeat", timeoutErr.Stage)

	// The online probe and state fetch must never run after a heartbeat
	// failure.
	assert.Equal(t, []string{"server01/heartbeat"}, fake.Calls())
}

func TestSynchronizeOnlineTimeout(t *testing.T) {
	fake := peer.NewFake()
	fake.OnlineErr["server01"] = errors.New("application not ready")

	_, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.Error(t, err)
	var timeoutErr *vcerrors.ErrSynchronizationTimeout
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "online", timeoutErr.Stage)
	assert.Equal(t, []string{"server01/heartbeat", "server01/online"}, fake.Calls())
}

func TestSynchronizeMissingState(t *testing.T) {
	fake := peer.NewFake()
	// No state published for server01.

	_, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.Error(t, err)
	var stateErr *vcerrors.ErrUnexpectedServerState
	assert.ErrorAs(t, err, &stateErr)
}

func TestSynchronizeEmptyPortsIsUnexpectedState(t *testing.T) {
	fake := peer.NewFake()
	fake.States["server01"] = peer.ServerState{Ports: []int{}}

	_, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.Error(t, err)
	var stateErr *vcerrors.ErrUnexpectedServerState
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, stateErr.Error(), "no ports")
}

func TestSynchronizeTransportErrorIsNotUnexpectedState(t *testing.T) {
	fake := peer.NewFake()
	fake.StateErr["server01"] = errors.New("connection reset")

	_, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.Error(t, err)
	var stateErr *vcerrors.ErrUnexpectedServerState
	assert.False(t, errors.As(err, &stateErr))
}

func TestSynchronizeCancellationIsNotTimeout(t *testing.T) {
	fake := peer.NewFake()
	fake.HeartbeatErr["server01"] = context.Canceled

	_, err := newSynchronizer(fake).Synchronize(context.Background(), server01)
	require.Error(t, err)
	assert.True(t, vcerrors.IsCancelled(err))
	var timeoutErr *vcerrors.ErrSynchronizationTimeout
	assert.False(t, errors.As(err, &timeoutErr))
}
