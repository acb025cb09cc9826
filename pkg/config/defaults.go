package config

// Default values for configuration fields.
const (
	// Audit defaults
	DefaultAuditEnabled       = true
	DefaultAuditPath          = "data/audit.db"
	DefaultAuditRetentionDays = 90
	DefaultAuditSweepSchedule = "0 3 * * *"

	// State defaults
	DefaultStateBackend = "sqlite"
	DefaultStatePath    = "data/state.db"

	// Telemetry defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "json"
	DefaultMetricsEnabled    = false
	DefaultMetricsListenAddr = "127.0.0.1:9090"
	DefaultMetricsPath       = "/metrics"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Audit defaults. Enabled is a pointer so that an explicit
	// "enabled: false" survives defaulting; only an absent value falls
	// back to the default.
	if cfg.Audit.Enabled == nil {
		enabled := DefaultAuditEnabled
		cfg.Audit.Enabled = &enabled
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = DefaultAuditRetentionDays
	}
	if cfg.Audit.SweepSchedule == "" {
		cfg.Audit.SweepSchedule = DefaultAuditSweepSchedule
	}

	// State defaults
	if cfg.State.Backend == "" {
		cfg.State.Backend = DefaultStateBackend
	}
	if cfg.State.Path == "" {
		cfg.State.Path = DefaultStatePath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddr
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
