package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/audit"
	"mercator-hq/tollgate/pkg/cli"
	"mercator-hq/tollgate/pkg/config"
)

var auditFlags struct {
	runID     string
	limit     int
	olderThan int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the local charge audit log",
	Long: `Audit provides access to the local charge audit log for inspecting
and pruning recorded charges.

Subcommands:
  list  - List recorded charges, newest first
  purge - Delete recorded charges for a run (or all runs)
  prune - Delete charges older than a number of days
  sweep - Run the scheduled retention sweeper until interrupted

Examples:
  # List the last 20 charges of a run
  tollgate audit list --run local-abc123 --limit 20

  # Delete everything recorded for a run
  tollgate audit purge --run local-abc123

  # Drop entries older than 30 days
  tollgate audit prune --older-than 30

  # Prune on the configured cron schedule until Ctrl-C
  tollgate audit sweep`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded charges",
	RunE:  runAuditList,
}

var auditPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete recorded charges",
	RunE:  runAuditPurge,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete charges older than a number of days",
	RunE:  runAuditPrune,
}

var auditSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Prune old charges on the configured schedule",
	Long: `Sweep runs the retention sweeper in the foreground, pruning entries
older than audit.retention_days on the audit.sweep_schedule cron
expression, until interrupted.`,
	RunE: runAuditSweep,
}

func runAuditList(cmd *cobra.Command, args []string) error {
	log, err := openAuditLog(config.MustGetConfig())
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}
	defer log.Close()

	entries, err := log.List(context.Background(), auditFlags.runID, auditFlags.limit)
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}

	if cli.OutputFormat(outputFormat) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("no recorded charges")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-20s %-24s count %-6d unit $%s\n",
			e.ChargedAt.Format(time.RFC3339), e.RunID, e.EventName, e.ChargedCount, e.UnitPrice)
	}
	return nil
}

func runAuditPurge(cmd *cobra.Command, args []string) error {
	log, err := openAuditLog(config.MustGetConfig())
	if err != nil {
		return cli.NewCommandError("audit purge", err)
	}
	defer log.Close()

	if err := log.Purge(context.Background(), auditFlags.runID); err != nil {
		return cli.NewCommandError("audit purge", err)
	}
	if auditFlags.runID == "" {
		fmt.Println("purged all recorded charges")
	} else {
		fmt.Printf("purged recorded charges for run %s\n", auditFlags.runID)
	}
	return nil
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	if auditFlags.olderThan <= 0 {
		return cli.NewCommandError("audit prune", fmt.Errorf("--older-than must be a positive number of days"))
	}

	log, err := openAuditLog(config.MustGetConfig())
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	defer log.Close()

	cutoff := time.Now().AddDate(0, 0, -auditFlags.olderThan)
	removed, err := log.PruneOlderThan(context.Background(), cutoff)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	fmt.Printf("removed %d entries older than %s\n", removed, cutoff.Format(time.RFC3339))
	return nil
}

// newRetentionSweeper builds the sweeper from the audit section of the
// configuration. Retention and schedule come straight from config, so a
// run with retention_days: 0 or an empty schedule yields a sweeper whose
// Start is a no-op.
func newRetentionSweeper(cfg *config.Config, log audit.Log) *audit.Sweeper {
	return audit.NewSweeper(log, audit.RetentionConfig{
		RetentionDays: cfg.Audit.RetentionDays,
		Schedule:      cfg.Audit.SweepSchedule,
	})
}

func runAuditSweep(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	log, err := openAuditLog(cfg)
	if err != nil {
		return cli.NewCommandError("audit sweep", err)
	}
	defer log.Close()

	ctx := cli.SetupSignalHandler()

	sweeper := newRetentionSweeper(cfg, log)
	if err := sweeper.Start(ctx); err != nil {
		return cli.NewCommandError("audit sweep", err)
	}
	if !sweeper.IsRunning() {
		return cli.NewCommandError("audit sweep",
			fmt.Errorf("retention not configured: set audit.retention_days and audit.sweep_schedule"))
	}
	defer sweeper.Stop()

	if next := sweeper.NextRun(); next != nil {
		fmt.Printf("sweeping entries older than %d days, next run %s\n",
			cfg.Audit.RetentionDays, next.Format(time.RFC3339))
	}

	<-ctx.Done()
	return nil
}

func init() {
	auditListCmd.Flags().StringVar(&auditFlags.runID, "run", "", "filter by run ID (empty for all runs)")
	auditListCmd.Flags().IntVar(&auditFlags.limit, "limit", 50, "maximum entries to list (0 for all)")
	auditPurgeCmd.Flags().StringVar(&auditFlags.runID, "run", "", "run ID to purge (empty for all runs)")
	auditPruneCmd.Flags().IntVar(&auditFlags.olderThan, "older-than", 0, "delete entries older than this many days")

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditPurgeCmd)
	auditCmd.AddCommand(auditPruneCmd)
	auditCmd.AddCommand(auditSweepCmd)
	rootCmd.AddCommand(auditCmd)
}
