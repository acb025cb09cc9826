package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/cli"
	"mercator-hq/tollgate/pkg/config"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show the pricing configuration a run would see",
	Long: `Pricing prints the effective pricing mode, event price list, and
spend cap derived from the configuration file.

Examples:
  tollgate pricing
  tollgate pricing --format json`,
	RunE: runPricing,
}

func runPricing(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	engine, cleanup, err := buildEngine(cfg, nil)
	if err != nil {
		return cli.NewCommandError("pricing", err)
	}
	defer cleanup()

	ctx := context.Background()
	if err := engine.Enter(ctx); err != nil {
		return cli.NewCommandError("pricing", err)
	}
	defer engine.Exit(ctx)

	info, err := engine.PricingInfo()
	if err != nil {
		return cli.NewCommandError("pricing", err)
	}

	if cli.OutputFormat(outputFormat) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, info)
	}

	fmt.Printf("Mode: %s\n", info.Mode)
	if !info.IsPerEvent {
		return nil
	}
	if info.MaxTotalChargeUSD != nil {
		fmt.Printf("Spend cap: $%s\n", info.MaxTotalChargeUSD)
	} else {
		fmt.Println("Spend cap: unbounded")
	}

	names := make([]string, 0, len(info.PerEventPrices))
	for name := range info.PerEventPrices {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nEvents:")
	for _, name := range names {
		ep := info.PerEventPrices[name]
		fmt.Printf("  %-24s $%-10s %s\n", name, ep.Price, ep.Title)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(pricingCmd)
}
