// Package pricing builds the immutable per-run pricing catalog.
//
// A Catalog maps event names to unit prices and titles, carries the overall
// pricing mode (not metered vs. pay-per-event), and the maximum total spend
// for the run. It is constructed exactly once at engine initialization —
// from the platform's run pricing record on managed runs, or from local
// test configuration on developer machines — and is read-only afterwards,
// so it needs no synchronization.
package pricing
