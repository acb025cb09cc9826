package charging

import (
	"math"

	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/pricing"
)

// DefaultItemEventName is the synthetic event charged once per item pushed
// to the run's default output collection. Explicitly named collections a
// user creates are not subject to it.
const DefaultItemEventName = "default-output-item"

// UnlimitedCount marks an affordable count with no bound, either because
// the budget is unbounded or because the event's unit price is zero.
const UnlimitedCount = int64(math.MaxInt64)

// Result is returned by every Charge call.
type Result struct {
	// EventName is the event the call charged.
	EventName string `json:"event_name"`

	// ChargedCount is the number of units actually accepted,
	// 0 <= ChargedCount <= requested count.
	ChargedCount int64 `json:"charged_count"`

	// LimitReached is true when, after this call, the remaining budget
	// affords zero further occurrences of this event.
	LimitReached bool `json:"limit_reached"`

	// AffordableCounts maps every catalog event to the number of
	// occurrences the remaining budget still affords, UnlimitedCount
	// when there is no bound. Useful for forward decisions.
	AffordableCounts map[string]int64 `json:"affordable_counts"`
}

// Info describes the run's pricing, for callers branching on cost.
type Info struct {
	// Mode is the run's pricing mode.
	Mode pricing.Mode `json:"mode"`

	// IsPerEvent reports whether charging is active.
	IsPerEvent bool `json:"is_per_event"`

	// MaxTotalChargeUSD is the spend cap; nil means unbounded,
	// which is distinct from a zero cap.
	MaxTotalChargeUSD *money.Amount `json:"max_total_charge_usd,omitempty"`

	// PerEventPrices is the full catalog price list.
	PerEventPrices map[string]pricing.EventPrice `json:"per_event_prices"`
}
