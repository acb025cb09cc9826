package platform

import (
	"context"

	"mercator-hq/tollgate/pkg/money"
)

// ModePayPerEvent is the pricing mode wire value reported by the platform
// for runs billed per declared event occurrence. Any other value means the
// run is not metered per event.
const ModePayPerEvent = "PAY_PER_EVENT"

// EventPricing is one priced event from the run's pricing record.
type EventPricing struct {
	// Name is the event identifier application code charges by.
	Name string `json:"name"`

	// Title is the human-readable event name shown in billing UIs.
	Title string `json:"title"`

	// PriceUSD is the unit price for one occurrence.
	PriceUSD money.Amount `json:"price_usd"`
}

// RunPricing is the pricing portion of the platform's run-status record,
// fetched once at engine initialization.
type RunPricing struct {
	// Mode is the platform pricing mode (see ModePayPerEvent).
	Mode string `json:"mode"`

	// Events lists the priced events configured for the run.
	Events []EventPricing `json:"events"`

	// MaxTotalChargeUSD is the configured spend cap.
	// Nil means the platform imposes no cap.
	MaxTotalChargeUSD *money.Amount `json:"max_total_charge_usd,omitempty"`

	// ChargedEventCounts maps event names to counts already reported for
	// this run. Present when a run resumes after a migration or reboot.
	ChargedEventCounts map[string]int64 `json:"charged_event_counts,omitempty"`
}

// MetadataClient fetches run pricing metadata from the platform.
type MetadataClient interface {
	// RunPricing returns the pricing record for the given run.
	// Called exactly once, at engine initialization.
	RunPricing(ctx context.Context, runID string) (*RunPricing, error)
}

// ChargeReporter informs the platform of committed charges.
//
// Implementations own their retry policy. A returned error is logged by the
// engine and the local ledger mutation is kept regardless.
type ChargeReporter interface {
	ReportCharge(ctx context.Context, runID, eventName string, count int64) error
}
