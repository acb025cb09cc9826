// Tollgate is a metering and budget enforcement engine for pay-per-event
// workloads.
//
// It decides how many occurrences of a priced event a run may charge
// against a finite budget, keeps a committed charge ledger, and records
// local charges in an audit log:
//   - Pay-per-event pricing with a hard spend cap
//   - Charge truncation instead of overdraft
//   - Local simulation of platform pricing for development
//   - SQLite-backed audit trail and resumable charge counts
//
// Usage:
//
//	# Simulate a sequence of charges against a local pricing config
//	tollgate simulate --config tollgate.yaml page-scraped=5 record-saved=2
//
//	# Show the pricing configuration a run would see
//	tollgate pricing --config tollgate.yaml
//
//	# List recorded charges
//	tollgate audit list --run local-abc123
//
//	# Show version information
//	tollgate version
package main

func main() {
	Execute()
}
