package config

import (
	"mercator-hq/tollgate/pkg/money"
)

// Config is the root configuration structure for Tollgate.
// It contains all configuration sections for run identity, metering,
// the audit log, state persistence, and telemetry.
type Config struct {
	// Run contains run identity configuration.
	Run RunConfig `yaml:"run"`

	// Metering contains local pay-per-event pricing and the spend cap.
	// On managed platform runs the platform's pricing record takes
	// precedence and this section configures only the local cap.
	Metering MeteringConfig `yaml:"metering"`

	// Audit contains configuration for the local charge audit log.
	Audit AuditConfig `yaml:"audit"`

	// State contains configuration for persisted charge counts, used to
	// resume a local run's accounting after a restart.
	State StateConfig `yaml:"state"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RunConfig contains run identity configuration.
type RunConfig struct {
	// ID is the run identifier. Empty means resolve from the
	// environment, generating a local ID when none is set.
	ID string `yaml:"id"`
}

// MeteringConfig contains pay-per-event pricing configuration.
type MeteringConfig struct {
	// PayPerEvent enables local pay-per-event simulation. Must be false
	// on managed platform runs.
	PayPerEvent bool `yaml:"pay_per_event"`

	// MaxTotalChargeUSD is the spend cap for the run. Nil means
	// unbounded. On managed runs a platform-configured cap overrides
	// this value.
	MaxTotalChargeUSD *money.Amount `yaml:"max_total_charge_usd"`

	// Events is the simulated pricing catalog for local runs.
	Events []EventConfig `yaml:"events"`
}

// EventConfig declares one chargeable event for local simulation.
type EventConfig struct {
	// Name is the event identifier charges refer to.
	Name string `yaml:"name"`

	// Title is the human-readable event name shown in reports.
	Title string `yaml:"title"`

	// PriceUSD is the unit price for one occurrence.
	PriceUSD money.Amount `yaml:"price_usd"`
}

// AuditConfig contains configuration for the local charge audit log.
type AuditConfig struct {
	// Enabled controls whether local charges are recorded. A nil value
	// means unset, which defaults to true; an explicit false always
	// disables the log.
	Enabled *bool `yaml:"enabled"`

	// Path is the SQLite database file for the audit log.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// PurgeOnStart clears the current run's audit entries when the log
	// is first opened.
	// Default: false
	PurgeOnStart bool `yaml:"purge_on_start"`

	// RetentionDays is how long audit entries are kept before the
	// retention sweeper removes them. Zero disables sweeping.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// SweepSchedule is the cron expression for the retention sweeper.
	// Default: "0 3 * * *" (daily at 3 AM)
	SweepSchedule string `yaml:"sweep_schedule"`
}

// IsEnabled reports whether the audit log is enabled, treating an unset
// value as disabled. ApplyDefaults resolves unset to the default.
func (c *AuditConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// StateConfig contains configuration for persisted charge counts.
type StateConfig struct {
	// Backend selects the persistence backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file for the "sqlite" backend.
	// Default: "data/state.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: json, text, or console.
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP server.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
