// Package audit provides the append-only local charge audit log.
//
// # Overview
//
// When a run executes outside platform management, committed charges are
// not reported anywhere. The audit log records each local charge decision
// so developers can trace what a run would have billed. Entries are
// appended once per non-empty charge and never mutated.
//
// The log is opened lazily by the charging engine on the first local
// charge, and can be purged at run start via configuration.
//
// # Backends
//
//   - SQLiteLog: durable storage in a local SQLite database (the default)
//   - MemoryLog: volatile storage for tests
//
// # Retention
//
// Sweeper prunes old entries on a cron schedule, keeping long-lived
// developer databases from growing without bound.
package audit
