package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/tollgate/pkg/money"
)

func boolPtr(b bool) *bool {
	return &b
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tollgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfigFile(t, `
run:
  id: my-run
metering:
  pay_per_event: true
  max_total_charge_usd: "25.00"
  events:
    - name: page-scraped
      title: Page scraped
      price_usd: "0.02"
    - name: record-saved
      title: Record saved
      price_usd: "0.10"
audit:
  enabled: true
  path: /tmp/audit.db
  retention_days: 30
state:
  backend: sqlite
  path: /tmp/state.db
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Run.ID != "my-run" {
		t.Errorf("Run.ID = %q, want %q", cfg.Run.ID, "my-run")
	}
	if !cfg.Metering.PayPerEvent {
		t.Error("Metering.PayPerEvent = false, want true")
	}
	if cfg.Metering.MaxTotalChargeUSD == nil {
		t.Fatal("Metering.MaxTotalChargeUSD = nil, want 25.00")
	}
	if cfg.Metering.MaxTotalChargeUSD.Cmp(money.MustParse("25.00")) != 0 {
		t.Errorf("MaxTotalChargeUSD = %s, want 25.00", cfg.Metering.MaxTotalChargeUSD)
	}
	if len(cfg.Metering.Events) != 2 {
		t.Fatalf("Metering.Events has %d entries, want 2", len(cfg.Metering.Events))
	}
	if cfg.Metering.Events[0].Name != "page-scraped" {
		t.Errorf("Events[0].Name = %q, want %q", cfg.Metering.Events[0].Name, "page-scraped")
	}
	if cfg.Metering.Events[0].PriceUSD.Cmp(money.MustParse("0.02")) != 0 {
		t.Errorf("Events[0].PriceUSD = %s, want 0.02", cfg.Metering.Events[0].PriceUSD)
	}
	if cfg.Audit.RetentionDays != 30 {
		t.Errorf("Audit.RetentionDays = %d, want 30", cfg.Audit.RetentionDays)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	path := writeConfigFile(t, "run:\n  id: defaults-run\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.Audit.IsEnabled() {
		t.Error("Audit.IsEnabled() = false, want default true")
	}
	if cfg.Audit.Path != DefaultAuditPath {
		t.Errorf("Audit.Path = %q, want %q", cfg.Audit.Path, DefaultAuditPath)
	}
	if cfg.Audit.RetentionDays != DefaultAuditRetentionDays {
		t.Errorf("Audit.RetentionDays = %d, want %d", cfg.Audit.RetentionDays, DefaultAuditRetentionDays)
	}
	if cfg.Audit.SweepSchedule != DefaultAuditSweepSchedule {
		t.Errorf("Audit.SweepSchedule = %q, want %q", cfg.Audit.SweepSchedule, DefaultAuditSweepSchedule)
	}
	if cfg.State.Backend != DefaultStateBackend {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, DefaultStateBackend)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, DefaultLoggingLevel)
	}
	if cfg.Telemetry.Logging.Format != DefaultLoggingFormat {
		t.Errorf("Logging.Format = %q, want %q", cfg.Telemetry.Logging.Format, DefaultLoggingFormat)
	}
	if cfg.Metering.MaxTotalChargeUSD != nil {
		t.Errorf("MaxTotalChargeUSD = %s, want nil (unbounded)", cfg.Metering.MaxTotalChargeUSD)
	}
}

func TestLoadConfig_AuditExplicitlyDisabled(t *testing.T) {
	// An explicit opt-out with no other audit settings must not be
	// flipped back on by defaulting.
	path := writeConfigFile(t, "audit:\n  enabled: false\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Audit.IsEnabled() {
		t.Error("Audit.IsEnabled() = true, want explicit false to survive defaults")
	}
	// The rest of the section still gets its defaults.
	if cfg.Audit.Path != DefaultAuditPath {
		t.Errorf("Audit.Path = %q, want %q", cfg.Audit.Path, DefaultAuditPath)
	}
}

func TestApplyDefaults_AuditEnabledPreserved(t *testing.T) {
	cfg := &Config{Audit: AuditConfig{Enabled: boolPtr(false), PurgeOnStart: true}}
	ApplyDefaults(cfg)
	if cfg.Audit.IsEnabled() {
		t.Error("explicit false was overridden by ApplyDefaults")
	}

	cfg = &Config{}
	ApplyDefaults(cfg)
	if !cfg.Audit.IsEnabled() {
		t.Error("unset audit.enabled did not default to true")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig of missing file: err = nil, want error")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "metering: [this is not\n  a mapping\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig of malformed file: err = nil, want error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
run:
  id: file-run
metering:
  pay_per_event: false
`)

	t.Setenv("TOLLGATE_RUN_ID", "env-run")
	t.Setenv("TOLLGATE_METERING_PAY_PER_EVENT", "true")
	t.Setenv("TOLLGATE_METERING_MAX_TOTAL_CHARGE_USD", "9.99")
	t.Setenv("TOLLGATE_AUDIT_ENABLED", "false")
	t.Setenv("TOLLGATE_AUDIT_PATH", "/tmp/env-audit.db")
	t.Setenv("TOLLGATE_STATE_BACKEND", "memory")
	t.Setenv("TOLLGATE_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Run.ID != "env-run" {
		t.Errorf("Run.ID = %q, want env override %q", cfg.Run.ID, "env-run")
	}
	if !cfg.Metering.PayPerEvent {
		t.Error("Metering.PayPerEvent = false, want env override true")
	}
	if cfg.Metering.MaxTotalChargeUSD == nil || cfg.Metering.MaxTotalChargeUSD.Cmp(money.MustParse("9.99")) != 0 {
		t.Errorf("MaxTotalChargeUSD = %v, want 9.99", cfg.Metering.MaxTotalChargeUSD)
	}
	if cfg.Audit.IsEnabled() {
		t.Error("Audit.IsEnabled() = true, want env override false")
	}
	if cfg.Audit.Path != "/tmp/env-audit.db" {
		t.Errorf("Audit.Path = %q, want env override", cfg.Audit.Path)
	}
	if cfg.State.Backend != "memory" {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, "memory")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "warn")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Metering: MeteringConfig{
			Events: []EventConfig{
				{Name: "dup", PriceUSD: money.MustParse("0.10")},
				{Name: "dup", PriceUSD: money.MustParse("0.20")},
				{Name: ""},
			},
		},
		Audit: AuditConfig{
			Enabled:       boolPtr(true),
			Path:          "",
			RetentionDays: 7,
			SweepSchedule: "not a cron expression",
		},
		State: StateConfig{Backend: "redis"},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Level: "verbose", Format: "json"},
		},
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate: err = nil, want validation errors")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("Validate returned %T, want ValidationError", err)
	}

	wantFields := []string{
		"metering.events[1].name",
		"metering.events[2].name",
		"audit.path",
		"audit.sweep_schedule",
		"state.backend",
		"telemetry.logging.level",
	}
	for _, field := range wantFields {
		found := false
		for _, fe := range verr.Errors {
			if fe.Field == field {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing validation error for field %q in:\n%s", field, verr.Error())
		}
	}
}

func TestValidate_NegativeSpendCap(t *testing.T) {
	neg := money.MustParse("-1.00")
	cfg := &Config{
		Metering: MeteringConfig{MaxTotalChargeUSD: &neg},
	}
	ApplyDefaults(cfg)

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "metering.max_total_charge_usd") {
		t.Errorf("Validate: err = %v, want spend cap error", err)
	}
}

func TestValidate_ValidConfigPasses(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate of defaulted config: %v", err)
	}
}

func TestSingleton_SetAndGet(t *testing.T) {
	old := GetConfig()
	defer SetConfig(old)

	cfg := &Config{}
	ApplyDefaults(cfg)
	SetConfig(cfg)

	if got := GetConfig(); got != cfg {
		t.Error("GetConfig did not return the config passed to SetConfig")
	}
	if got := MustGetConfig(); got != cfg {
		t.Error("MustGetConfig did not return the config passed to SetConfig")
	}
}
