// Package statestore persists per-run charged event counts.
//
// # Overview
//
// On a managed platform run, the charging engine reseeds its ledger from
// the counts the platform already has, so a migrated or resurrected
// process resumes accounting exactly where it left off. Local runs have no
// platform to remember for them; this package fills that role with a small
// local store keyed by run ID.
//
// Only counts are stored. Totals are recomputed from the catalog prices at
// seed time, exactly as they are for platform-provided counts.
//
// # Backends
//
//   - SQLiteBackend: durable storage for restart-safe local runs
//   - MemoryBackend: volatile storage for tests
package statestore
