// Package config provides configuration loading, validation, and access
// for Tollgate.
//
// # Overview
//
// Configuration is loaded from a YAML file, filled in with defaults, and
// optionally overridden by TOLLGATE_* environment variables. The loading
// sequence is:
//
//  1. Parse YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
//
// # Sections
//
//   - run: run identity
//   - metering: pay-per-event simulation pricing and the spend cap
//   - audit: the local charge audit log
//   - state: persisted charge counts for local resume
//   - telemetry: logging and metrics
//
// # Singleton Access
//
// Initialize loads the global configuration once at startup; GetConfig and
// MustGetConfig read it afterwards. Tests should prefer passing explicit
// *Config values over the singleton.
package config
