package audit

import (
	"context"
	"time"

	"mercator-hq/tollgate/pkg/money"
)

// Entry is one local charge decision.
type Entry struct {
	// RunID identifies the run that committed the charge.
	RunID string `json:"run_id"`

	// EventName is the charged event.
	EventName string `json:"event_name"`

	// Title is the human-readable event name at charge time.
	Title string `json:"title"`

	// UnitPrice is the per-occurrence price applied.
	UnitPrice money.Amount `json:"unit_price"`

	// ChargedCount is the number of accepted units.
	ChargedCount int64 `json:"charged_count"`

	// ChargedAt is when the charge was committed, in UTC.
	ChargedAt time.Time `json:"charged_at"`
}

// Log is an append-only store of local charge entries.
//
// Appends may interleave in any order under concurrent use; there is no
// read-modify-write cycle anywhere in this interface.
type Log interface {
	// Append records one entry.
	Append(ctx context.Context, e Entry) error

	// List returns up to limit entries for a run, newest first.
	// A limit <= 0 means no limit. An empty runID matches all runs.
	List(ctx context.Context, runID string, limit int) ([]Entry, error)

	// Purge deletes all entries for a run. An empty runID deletes
	// everything.
	Purge(ctx context.Context, runID string) error

	// PruneOlderThan deletes entries charged before the cutoff and
	// returns the number deleted.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Close flushes and releases the underlying store.
	// Close is idempotent.
	Close() error
}
