package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Shobhakumari0502/VirtualClient/internal/build"
	"github.com/Shobhakumari0502/VirtualClient/internal/common"
	"github.com/Shobhakumari0502/VirtualClient/internal/configuration"
	"github.com/Shobhakumari0502/VirtualClient/internal/coordinator"
	"github.com/Shobhakumari0502/VirtualClient/internal/dispatch"
	"github.com/Shobhakumari0502/VirtualClient/internal/execution"
	"github.com/Shobhakumari0502/VirtualClient/internal/installer"
	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
	"github.com/Shobhakumari0502/VirtualClient/internal/peer"
	"github.com/Shobhakumari0502/VirtualClient/internal/results"
	"github.com/Shobhakumari0502/VirtualClient/internal/retryutil"
	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "virtualclient",
		Short: "virtualclient coordinates distributed benchmark runs against remote server instances.",
		Long: `virtualclient coordinates distributed benchmark runs against remote server instances.

It synchronizes with every server role instance defined in the layout file,
fans benchmark worker processes out across each server's published endpoints,
and aggregates the results into metric records.`,
	}

	cmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	return cmd
}

// Print version info and exit.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 1, 1, 1, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Version:\t%s\n", build.ReleaseVersion)
			fmt.Fprintf(w, "Commit:\t%s\n", build.GitCommit)
			fmt.Fprintf(w, "Go version:\t%s\n", build.GoVersion)
			fmt.Fprintf(w, "Built:\t%s\n", build.BuildTime)
			return nil
		},
	}
}

// Run the benchmark described by the config file, optionally as a warm-up
// pass.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured benchmark against all server role instances.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			warmUp, err := cmd.Flags().GetBool("warm-up")
			if err != nil {
				return err
			}

			config := &configuration.Config{}
			if err := common.LoadConfig(config, configFile); err != nil {
				return err
			}
			config.ApplyDefaults()
			if warmUp {
				config.WarmUp = true
			}
			if err := config.Validate(); err != nil {
				return err
			}

			// Create a context that is cancelled on SIGINT/SIGTERM, so that
			// in-flight benchmark processes are terminated on ctrl-C.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			stopSignal := make(chan os.Signal, 1)
			signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				select {
				case <-ctx.Done():
					return
				case <-stopSignal:
					cancel()
				}
			}()

			start := time.Now()
			err = runBenchmark(ctx, config)
			if vcerrors.IsCancelled(err) {
				log.Info("run cancelled")
				return nil
			}
			if err != nil {
				fmt.Printf("RUN FAILED after %s: %s\n", time.Since(start), err)
				return err
			}
			fmt.Printf("RUN SUCCEEDED in %s\n", time.Since(start))
			return nil
		},
	}

	cmd.Flags().String("config", "config.yaml", "Path to the benchmark config file.")
	cmd.Flags().Bool("warm-up", false, "Run a warm-up pass: one worker per endpoint, no metrics emitted.")

	return cmd
}

func newInstaller(config *configuration.Config, runner execution.Runner) *installer.Installer {
	return &installer.Installer{
		Runner:   runner,
		Command:  config.InstallerCommand,
		Args:     config.InstallerArgs,
		Username: config.Username,
	}
}

func runBenchmark(ctx context.Context, config *configuration.Config) error {
	instanceLayout, err := layout.LoadStaticLayout(config.LayoutFile)
	if err != nil {
		return err
	}

	runner := &execution.ExecRunner{}

	// Install the benchmark driver before the first pass. A no-op when no
	// installer is configured.
	if err := newInstaller(config, runner).Install(ctx); err != nil {
		return err
	}

	sink, err := results.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	aggregator := results.NewAggregator(
		"virtualclient",
		config.Scenario,
		map[string]string{"protocolFamily": string(config.Family())},
		results.MultiSink{sink, &results.LogSink{}},
	)

	executor := &coordinator.Executor{
		Layout: instanceLayout,
		Sync: &coordinator.Synchronizer{
			Control:          peer.NewHTTPControlClient(config.ControlPort, config.PollInterval),
			HeartbeatTimeout: config.HeartbeatTimeout,
			OnlineTimeout:    config.OnlineTimeout,
		},
		Dispatcher: &dispatch.Dispatcher{
			Runner:           runner,
			Aggregator:       aggregator,
			Policy:           retryutil.InstancePolicy(),
			CommandTemplate:  config.CommandTemplate,
			WorkingDirectory: config.WorkingDirectory,
			Duration:         config.Duration,
			Elevated:         config.Username != "",
			Username:         config.Username,
		},
		FlowPolicy:      retryutil.FlowPolicy(),
		ClientInstances: config.ClientInstances,
		WarmUp:          config.WarmUp,
	}
	return executor.Execute(ctx)
}
