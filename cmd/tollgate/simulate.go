package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/charging"
	"mercator-hq/tollgate/pkg/cli"
	"mercator-hq/tollgate/pkg/config"
	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/telemetry/metrics"
)

// simulationReport is the printed outcome of a simulate run.
type simulationReport struct {
	RunID           string                          `json:"run_id"`
	Charges         []charging.Result               `json:"charges"`
	Ledger          map[string]charging.LedgerEntry `json:"ledger"`
	TotalChargedUSD string                          `json:"total_charged_usd"`
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [event=count ...]",
	Short: "Charge a sequence of events against the local pricing config",
	Long: `Simulate charges a sequence of events against the pricing and spend
cap from the configuration file, then prints the resulting ledger.

Each argument is an event name and occurrence count joined by '='.
Charges that would exceed the spend cap are truncated, exactly as they
would be in a real run.

Examples:
  # Charge 5 page-scraped and 2 record-saved events
  tollgate simulate page-scraped=5 record-saved=2

  # Inspect the outcome as JSON
  tollgate simulate --format json page-scraped=100`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()
	if !cfg.Metering.PayPerEvent {
		return cli.NewCommandError("simulate", fmt.Errorf("metering.pay_per_event is disabled in configuration"))
	}

	type chargeArg struct {
		event string
		count int64
	}
	charges := make([]chargeArg, 0, len(args))
	for _, arg := range args {
		event, countStr, ok := strings.Cut(arg, "=")
		if !ok || event == "" {
			return cli.NewCommandError("simulate", fmt.Errorf("argument %q is not of the form event=count", arg))
		}
		count, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil || count < 0 {
			return cli.NewCommandError("simulate", fmt.Errorf("argument %q has an invalid count", arg))
		}
		charges = append(charges, chargeArg{event: event, count: count})
	}

	ctx := cli.SetupSignalHandler()

	var chargeMetrics *charging.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		chargeMetrics = charging.NewMetrics()
		server := metrics.NewServer(metrics.ServerConfig{
			ListenAddress: cfg.Telemetry.Metrics.ListenAddress,
			Path:          cfg.Telemetry.Metrics.Path,
		}, nil)
		server.Start()
		defer server.Stop(context.Background())
	}

	engine, cleanup, err := buildEngine(cfg, chargeMetrics)
	if err != nil {
		return cli.NewCommandError("simulate", err)
	}
	defer cleanup()

	if err := engine.Enter(ctx); err != nil {
		return cli.NewCommandError("simulate", err)
	}
	defer engine.Exit(context.Background())

	report := simulationReport{RunID: engine.RunID()}
	for _, c := range charges {
		res, err := engine.Charge(ctx, c.event, c.count)
		if err != nil {
			return cli.NewCommandError("simulate", err)
		}
		report.Charges = append(report.Charges, res)
	}

	ledger, err := engine.LedgerSnapshot()
	if err != nil {
		return cli.NewCommandError("simulate", err)
	}
	report.Ledger = ledger

	total := money.Zero()
	for _, entry := range ledger {
		total = total.Add(entry.TotalCharged)
	}
	report.TotalChargedUSD = total.String()

	if cli.OutputFormat(outputFormat) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report)
	}
	printSimulationReport(report)
	return nil
}

func printSimulationReport(report simulationReport) {
	fmt.Printf("Run: %s\n\n", report.RunID)
	for _, res := range report.Charges {
		status := "ok"
		if res.LimitReached {
			status = "limit reached"
		}
		fmt.Printf("  %-24s charged %d  [%s]\n", res.EventName, res.ChargedCount, status)
	}
	fmt.Println("\nLedger:")
	for event, entry := range report.Ledger {
		fmt.Printf("  %-24s count %-6d total $%s\n", event, entry.ChargedCount, entry.TotalCharged)
	}
	fmt.Printf("\nTotal charged: $%s\n", report.TotalChargedUSD)
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
