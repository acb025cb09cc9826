// Package platform defines the boundary to the run-management platform.
//
// The charging engine consumes two collaborators from the platform side:
//
//   - MetadataClient: fetches the run's pricing record (mode, per-event
//     prices, spend cap, and already-charged counts) exactly once at
//     initialization.
//   - ChargeReporter: informs the platform of committed charges. Retry and
//     backoff are the reporter's own responsibility; the engine only logs
//     report failures and never rolls back its ledger.
//
// Transport implementations live with the platform client, not here. The
// Static implementation in this package backs local simulation and tests.
package platform
