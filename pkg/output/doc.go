// Package output implements run output collections with charge-aware
// writes.
//
// A Collection is an append-only sequence of items backed by a Store. The
// run's default collection bills a synthetic per-item event on every push;
// named collections do not. Push asks the charging engine how many items
// the remaining budget affords, writes only that many, and charges for
// exactly what was written, so storage and the charge ledger never
// disagree on the billed item count.
package output
