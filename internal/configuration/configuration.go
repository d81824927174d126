/*
Package configuration defines the input configuration for the benchmark
coordinator.

# Example YAML Configuration

	scenario: memtier_redis
	protocol: redis
	clientInstances: 8
	duration: 60s
	warmUp: false
	commandTemplate: "memtier_benchmark --server {server} --port {port} --test-time {duration} --json-out"
	workingDirectory: /opt/memtier
	username: benchuser
	installerCommand: /opt/virtualclient/install-memtier.sh
	installerArgs: ["--quiet"]
	layoutFile: /etc/virtualclient/layout.yaml
	heartbeatTimeout: 20m
	onlineTimeout: 10m
	pollInterval: 2s

Config has a Validate() method that checks all fields before a run starts; an
unrecognised protocol token fails validation rather than being mapped to a
default family.
*/
package configuration

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Shobhakumari0502/VirtualClient/internal/family"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// Config holds all user-customizable parameters of a benchmark run.
type Config struct {
	// Scenario names the run in emitted metric records.
	Scenario string
	// Protocol is the protocol family hint token, e.g. "redis" or
	// "memcached". Must classify to a known family.
	Protocol string
	// ClientInstances is the number of worker processes launched per server
	// endpoint. Values <= 0 are treated as 1.
	ClientInstances int
	// Duration of the benchmark run, substituted into the command template.
	Duration time.Duration
	// WarmUp restricts dispatch to one worker per endpoint and skips result
	// aggregation.
	WarmUp bool
	// CommandTemplate is the benchmark command line with {server}, {port}
	// and {duration} placeholders.
	CommandTemplate string
	// WorkingDirectory for launched processes.
	WorkingDirectory string
	// Username, if set, is the run-as user for elevated launches.
	Username string
	// InstallerCommand, if set, is run elevated once before the first pass
	// to install the benchmark dependency (e.g. the memtier driver package).
	InstallerCommand string
	// InstallerArgs are passed to the installer command.
	InstallerArgs []string
	// LayoutFile is the path to the instance layout YAML file.
	LayoutFile string
	// ControlPort is the port of the remote state service on each instance.
	ControlPort int
	// HeartbeatTimeout is the budget for the transport-level liveness probe.
	HeartbeatTimeout time.Duration
	// OnlineTimeout is the budget for the application-level readiness probe.
	OnlineTimeout time.Duration
	// PollInterval is the delay between consecutive probe attempts.
	PollInterval time.Duration
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.ClientInstances <= 0 {
		c.ClientInstances = 1
	}
	if c.ControlPort == 0 {
		c.ControlPort = 4500
	}
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = 20 * time.Minute
	}
	if c.OnlineTimeout == 0 {
		c.OnlineTimeout = 10 * time.Minute
	}
	if c.PollInterval == 0 {
		c.PollInterval = 2 * time.Second
	}
}

func (c *Config) Validate() error {
	if c.Scenario == "" {
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "Scenario",
			Value:   c.Scenario,
			Message: "not provided",
		})
	}
	if family.Classify(c.Protocol) == family.Unknown {
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "Protocol",
			Value:   c.Protocol,
			Message: "does not classify to a known protocol family",
		})
	}
	if strings.TrimSpace(c.CommandTemplate) == "" {
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "CommandTemplate",
			Value:   c.CommandTemplate,
			Message: "not provided",
		})
	}
	if c.LayoutFile == "" {
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "LayoutFile",
			Value:   c.LayoutFile,
			Message: "not provided",
		})
	}
	if len(c.InstallerArgs) > 0 && c.InstallerCommand == "" {
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "InstallerArgs",
			Value:   c.InstallerArgs,
			Message: "provided without an installer command",
		})
	}
	if c.Duration < 0 {
		return errors.WithStack(&vcerrors.ErrInvalidArgument{
			Name:    "Duration",
			Value:   c.Duration,
			Message: "must not be negative",
		})
	}
	return nil
}

// Family returns the protocol family the configured token classifies to.
func (c *Config) Family() family.Family {
	return family.Classify(c.Protocol)
}
