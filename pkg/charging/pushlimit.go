package charging

import (
	"mercator-hq/tollgate/pkg/money"
)

// CalculatePushLimit returns how many of itemCount items may be written to
// an output collection before the budget is exhausted. The caller truncates
// its batch to the returned count before writing, then charges for what was
// actually written.
//
// Pushes to the default collection cost the synthetic per-item event on top
// of any explicit event the caller intends to charge, so the limit is
// computed against the combined unit price. Named collections carry no
// synthetic charge, and an explicit event alone is the caller's to charge;
// in both cases every item is writable and itemCount comes back unchanged
// when the explicit price fits, or bounded by it when it does not.
func (e *Engine) CalculatePushLimit(itemCount int64, eventName string, defaultCollection bool) (int64, error) {
	if itemCount < 0 {
		return 0, NewUsageError("calculate_push_limit", ErrNegativeCount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.readyLocked("calculate_push_limit"); err != nil {
		return 0, err
	}

	if !e.catalog.IsPerEvent() {
		return itemCount, nil
	}

	combined := money.Zero()
	if eventName != "" {
		price, _ := e.resolvePriceLocked(eventName)
		combined = combined.Add(price)
	}
	if defaultCollection {
		price, _ := e.resolvePriceLocked(DefaultItemEventName)
		combined = combined.Add(price)
	}

	affordable := e.affordableLocked(combined)
	if affordable == UnlimitedCount || affordable >= itemCount {
		return itemCount, nil
	}

	if e.opts.Metrics != nil {
		event := eventName
		if event == "" {
			event = DefaultItemEventName
		}
		e.opts.Metrics.RecordPushTruncation(event)
	}
	return affordable, nil
}
