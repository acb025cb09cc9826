package pricing

import (
	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/platform"
)

// Mode is the pricing mode of a run.
type Mode string

const (
	// ModeNotMetered means charging is inactive; every charge is a no-op.
	ModeNotMetered Mode = "NOT_METERED"

	// ModePerEvent means the run is billed per declared event occurrence.
	ModePerEvent Mode = "PAY_PER_EVENT"
)

// EventPrice is the catalog entry for one chargeable event.
type EventPrice struct {
	// Title is the human-readable event name.
	Title string

	// Price is the unit price for one occurrence.
	Price money.Amount
}

// Catalog is the immutable per-run pricing table.
type Catalog struct {
	mode      Mode
	events    map[string]EventPrice
	maxTotal  money.Amount
	bounded   bool
	localTest bool
}

// NotMetered returns a catalog for a run with no per-event pricing.
func NotMetered() *Catalog {
	return &Catalog{
		mode:   ModeNotMetered,
		events: map[string]EventPrice{},
	}
}

// FromRunPricing builds a catalog from the platform's run pricing record.
//
// The platform-configured spend cap, when present, overrides the locally
// configured one; localMax applies only when the platform reports no cap.
// A record in any mode other than pay-per-event yields a not-metered
// catalog.
func FromRunPricing(rp *platform.RunPricing, localMax *money.Amount) *Catalog {
	if rp == nil || rp.Mode != platform.ModePayPerEvent {
		return NotMetered()
	}

	events := make(map[string]EventPrice, len(rp.Events))
	for _, e := range rp.Events {
		events[e.Name] = EventPrice{Title: e.Title, Price: e.PriceUSD}
	}

	c := &Catalog{
		mode:   ModePerEvent,
		events: events,
	}
	switch {
	case rp.MaxTotalChargeUSD != nil:
		c.maxTotal = *rp.MaxTotalChargeUSD
		c.bounded = true
	case localMax != nil:
		c.maxTotal = *localMax
		c.bounded = true
	}
	return c
}

// FromLocalConfig builds a catalog that simulates pay-per-event pricing on
// a developer machine. maxTotal of nil means the budget is unbounded.
func FromLocalConfig(events map[string]EventPrice, maxTotal *money.Amount) *Catalog {
	copied := make(map[string]EventPrice, len(events))
	for name, ep := range events {
		copied[name] = ep
	}

	c := &Catalog{
		mode:      ModePerEvent,
		events:    copied,
		localTest: true,
	}
	if maxTotal != nil {
		c.maxTotal = *maxTotal
		c.bounded = true
	}
	return c
}

// Mode returns the pricing mode.
func (c *Catalog) Mode() Mode {
	return c.mode
}

// IsPerEvent reports whether charging is active.
func (c *Catalog) IsPerEvent() bool {
	return c.mode == ModePerEvent
}

// IsLocalTest reports whether the catalog simulates pay-per-event pricing
// locally rather than reflecting a managed platform run.
func (c *Catalog) IsLocalTest() bool {
	return c.localTest
}

// Price returns the catalog entry for an event and whether it exists.
// Unknown event names are legal charge inputs; callers decide the fallback.
func (c *Catalog) Price(eventName string) (EventPrice, bool) {
	ep, ok := c.events[eventName]
	return ep, ok
}

// Events returns a copy of the full price list.
func (c *Catalog) Events() map[string]EventPrice {
	copied := make(map[string]EventPrice, len(c.events))
	for name, ep := range c.events {
		copied[name] = ep
	}
	return copied
}

// MaxTotalCharge returns the spend cap and whether one is configured.
// When bounded is false the budget is unbounded and the amount is zero —
// the two cases are distinct.
func (c *Catalog) MaxTotalCharge() (max money.Amount, bounded bool) {
	return c.maxTotal, c.bounded
}
