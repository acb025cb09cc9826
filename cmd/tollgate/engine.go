package main

import (
	"context"
	"fmt"

	"mercator-hq/tollgate/pkg/audit"
	"mercator-hq/tollgate/pkg/charging"
	"mercator-hq/tollgate/pkg/config"
	"mercator-hq/tollgate/pkg/platform"
	"mercator-hq/tollgate/pkg/pricing"
	"mercator-hq/tollgate/pkg/statestore"
)

// buildEngine assembles a charging engine from configuration for local
// commands. Managed runs are detected from the environment; the CLI has no
// platform clients, so commands that need the engine fail at Enter under
// platform management. The returned cleanup function releases the state
// backend; the engine closes its own audit log on Exit.
func buildEngine(cfg *config.Config, metrics *charging.Metrics) (*charging.Engine, func(), error) {
	opts := charging.Options{
		RunID:   cfg.Run.ID,
		Managed: platform.IsManagedRun(),
		Metrics: metrics,
	}

	if cfg.Metering.PayPerEvent {
		events := make(map[string]pricing.EventPrice, len(cfg.Metering.Events))
		for _, e := range cfg.Metering.Events {
			events[e.Name] = pricing.EventPrice{Title: e.Title, Price: e.PriceUSD}
		}
		opts.Local = &charging.LocalPricing{Events: events}
		opts.MaxTotalChargeUSD = cfg.Metering.MaxTotalChargeUSD
	}

	if cfg.Audit.IsEnabled() {
		auditPath := cfg.Audit.Path
		opts.OpenAudit = func(ctx context.Context) (audit.Log, error) {
			return audit.NewSQLiteLog(audit.DefaultSQLiteConfig(auditPath))
		}
		opts.PurgeAuditOnStart = cfg.Audit.PurgeOnStart
	}

	cleanup := func() {}
	switch cfg.State.Backend {
	case "sqlite":
		backend, err := statestore.NewSQLiteBackend(cfg.State.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open state store: %w", err)
		}
		opts.States = backend
		cleanup = func() { backend.Close() }
	case "memory":
		opts.States = statestore.NewMemoryBackend()
	}

	return charging.NewEngine(opts), cleanup, nil
}

// openAuditLog opens the configured audit log for direct inspection
// commands.
func openAuditLog(cfg *config.Config) (audit.Log, error) {
	if !cfg.Audit.IsEnabled() {
		return nil, fmt.Errorf("audit log is disabled in configuration")
	}
	return audit.NewSQLiteLog(audit.DefaultSQLiteConfig(cfg.Audit.Path))
}
