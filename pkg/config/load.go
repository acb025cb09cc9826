package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mercator-hq/tollgate/pkg/money"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow the
// naming convention TOLLGATE_SECTION_FIELD (e.g., TOLLGATE_AUDIT_PATH) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format TOLLGATE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Run overrides
	if val := os.Getenv("TOLLGATE_RUN_ID"); val != "" {
		cfg.Run.ID = val
	}

	// Metering overrides
	if val := os.Getenv("TOLLGATE_METERING_PAY_PER_EVENT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metering.PayPerEvent = b
		}
	}
	if val := os.Getenv("TOLLGATE_METERING_MAX_TOTAL_CHARGE_USD"); val != "" {
		if a, err := money.Parse(val); err == nil {
			cfg.Metering.MaxTotalChargeUSD = &a
		}
	}

	// Audit overrides
	if val := os.Getenv("TOLLGATE_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = &b
		}
	}
	if val := os.Getenv("TOLLGATE_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
	if val := os.Getenv("TOLLGATE_AUDIT_PURGE_ON_START"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.PurgeOnStart = b
		}
	}
	if val := os.Getenv("TOLLGATE_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.RetentionDays = i
		}
	}
	if val := os.Getenv("TOLLGATE_AUDIT_SWEEP_SCHEDULE"); val != "" {
		cfg.Audit.SweepSchedule = val
	}

	// State overrides
	if val := os.Getenv("TOLLGATE_STATE_BACKEND"); val != "" {
		cfg.State.Backend = val
	}
	if val := os.Getenv("TOLLGATE_STATE_PATH"); val != "" {
		cfg.State.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("TOLLGATE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("TOLLGATE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("TOLLGATE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("TOLLGATE_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("TOLLGATE_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
