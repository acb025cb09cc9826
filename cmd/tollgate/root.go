package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/config"
	"mercator-hq/tollgate/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tollgate",
	Short: "Tollgate - pay-per-event metering and budget enforcement",
	Long: `Tollgate is a metering and budget enforcement engine for workloads
billed per event occurrence.

It keeps a committed charge ledger for each run, truncates charges that
would exceed the spend cap instead of overdrawing it, and records every
local charge in an audit log:
  - Pay-per-event pricing with a hard spend cap
  - Charge truncation instead of overdraft
  - Local simulation of platform pricing for development
  - SQLite-backed audit trail and resumable charge counts`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = logging.SetDefault(logging.Config{
			Level:     cfg.Telemetry.Logging.Level,
			Format:    cfg.Telemetry.Logging.Format,
			AddSource: cfg.Telemetry.Logging.AddSource,
		})
		return err
	},
}

// loadConfig loads the configuration file named by the --config flag. A
// missing file is not an error: defaults plus environment overrides apply.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		cfg := &config.Config{}
		config.ApplyDefaults(cfg)
		config.SetConfig(cfg)
		return cfg, nil
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, err
	}
	return config.MustGetConfig(), nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tollgate.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
}
