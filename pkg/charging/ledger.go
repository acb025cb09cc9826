package charging

import (
	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/pricing"
)

// LedgerEntry is the committed charge state for one event.
type LedgerEntry struct {
	// ChargedCount is the number of accepted occurrences.
	ChargedCount int64

	// TotalCharged is ChargedCount times the unit price at charge time.
	TotalCharged money.Amount
}

// Ledger is the mutable table of committed charges for a run.
//
// Ledger is not self-locking: the Engine serializes all access inside its
// critical section. Entries are never deleted during a run; the whole
// ledger is discarded at run end.
type Ledger struct {
	entries map[string]*LedgerEntry
	total   money.Amount
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[string]*LedgerEntry),
	}
}

// Seed initializes the ledger from previously charged counts, recomputing
// each total from the catalog price. Events unknown to the catalog seed
// with a zero total. Seeding recreates the state a fresh process would
// have accumulated had it run uninterrupted.
func (l *Ledger) Seed(counts map[string]int64, catalog *pricing.Catalog) {
	for event, count := range counts {
		if count <= 0 {
			continue
		}
		var price money.Amount
		if ep, ok := catalog.Price(event); ok {
			price = ep.Price
		}
		total := price.MulInt(count)
		l.entries[event] = &LedgerEntry{
			ChargedCount: count,
			TotalCharged: total,
		}
		l.total = l.total.Add(total)
	}
}

// Apply commits count accepted occurrences of an event at the given unit
// price.
func (l *Ledger) Apply(event string, count int64, unitPrice money.Amount) {
	entry, ok := l.entries[event]
	if !ok {
		entry = &LedgerEntry{}
		l.entries[event] = entry
	}
	charged := unitPrice.MulInt(count)
	entry.ChargedCount += count
	entry.TotalCharged = entry.TotalCharged.Add(charged)
	l.total = l.total.Add(charged)
}

// ChargedCount returns the committed count for an event, 0 when unknown.
func (l *Ledger) ChargedCount(event string) int64 {
	if entry, ok := l.entries[event]; ok {
		return entry.ChargedCount
	}
	return 0
}

// TotalCharged returns the grand total charged across all events.
func (l *Ledger) TotalCharged() money.Amount {
	return l.total
}

// Counts returns a copy of the committed counts, for persistence.
func (l *Ledger) Counts() map[string]int64 {
	counts := make(map[string]int64, len(l.entries))
	for event, entry := range l.entries {
		counts[event] = entry.ChargedCount
	}
	return counts
}

// Entries returns a copy of the full ledger state.
func (l *Ledger) Entries() map[string]LedgerEntry {
	entries := make(map[string]LedgerEntry, len(l.entries))
	for event, entry := range l.entries {
		entries[event] = *entry
	}
	return entries
}
