package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/finlock/finlock-agent/internal/agent"
	"github.com/finlock/finlock-agent/internal/agent/config"
	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/internal/agent/device/identity"
	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/finlock/finlock-agent/pkg/version"
	"github.com/spf13/cobra"
)

func main() {
	command := NewAgentCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finlock-agent",
		Short: "finlock-agent runs the device-side management core",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(NewCmdRun())
	cmd.AddCommand(NewCmdEnroll())
	cmd.AddCommand(NewCmdVersion())
	return cmd
}

func NewCmdRun() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the agent until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.InitLogs()

			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("loading agent config: %w", err)
			}
			logger.Infof("Effective config: %s", cfg)

			ctx, cancel := context.WithCancel(context.Background())
			sigShutdown := make(chan os.Signal, 1)
			signal.Notify(sigShutdown, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigShutdown
				signal.Stop(sigShutdown)
				logger.Infof("Shutdown signal received (%v)", sig)
				cancel()
			}()

			return agent.New(logger, cfg, agent.Platform{}).Run(ctx)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configFile, "config", config.DefaultConfigFile, "path to the agent configuration file")
	return cmd
}

type EnrollOptions struct {
	DeviceID   string
	Serial     string
	IMEI       string
	TenantID   string
	Credential string
}

func NewCmdEnroll() *cobra.Command {
	o := &EnrollOptions{}
	var configFile string

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "provision this device against a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.InitLogs()

			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("loading agent config: %w", err)
			}

			readWriter := fileio.NewReadWriter()
			if cfg.GetTestRootDir() != "" {
				readWriter.SetRootdir(cfg.GetTestRootDir())
			}
			stateStore := store.NewStore(cfg.DataDir, readWriter, log.NewPrefixLogger("store"))
			if err := stateStore.Ensure(); err != nil {
				return fmt.Errorf("ensuring device state: %w", err)
			}

			manager := identity.NewManager(stateStore, nil, log.NewPrefixLogger("identity"))
			result, err := manager.Provision(identity.ProvisionRequest{
				DeviceID:             o.DeviceID,
				Serial:               o.Serial,
				IMEI:                 o.IMEI,
				TenantID:             o.TenantID,
				EnrollmentCredential: o.Credential,
			})
			if err != nil {
				return err
			}

			logger.Infof("Enrolled device %s for tenant %s", result.DeviceID, result.TenantID)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configFile, "config", config.DefaultConfigFile, "path to the agent configuration file")
	cmd.Flags().StringVar(&o.DeviceID, "device-id", "", "device identifier, generated when omitted")
	cmd.Flags().StringVar(&o.Serial, "serial", "", "device serial number")
	cmd.Flags().StringVar(&o.IMEI, "imei", "", "device IMEI")
	cmd.Flags().StringVar(&o.TenantID, "tenant", "", "tenant identifier (required)")
	cmd.Flags().StringVar(&o.Credential, "credential", "", "enrollment credential presented to the backend")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Printf("finlock-agent %s (commit %s, built %s, %s)\n",
				info.GitVersion, info.GitCommit, info.BuildDate, info.Platform)
		},
	}
}
