package output

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/tollgate/pkg/charging"
)

// DefaultCollectionName is the name of the run's default collection.
const DefaultCollectionName = "default"

// ChargePolicy is the slice of the charging engine a collection needs.
// *charging.Engine satisfies it.
type ChargePolicy interface {
	CalculatePushLimit(itemCount int64, eventName string, defaultCollection bool) (int64, error)
	Charge(ctx context.Context, eventName string, count int64) (charging.Result, error)
}

// PushResult describes the outcome of one Push call.
type PushResult struct {
	// Written is the number of items actually stored.
	Written int64

	// Truncated is true when the remaining budget afforded fewer items
	// than were offered. The caller should stop producing output.
	Truncated bool

	// EventResult is the charge result for the explicit event, if one
	// was named.
	EventResult *charging.Result

	// ItemResult is the charge result for the synthetic per-item event
	// on the default collection.
	ItemResult *charging.Result
}

// Collection is one append-only output collection of a run.
type Collection struct {
	name   string
	store  Store
	policy ChargePolicy
	logger *slog.Logger
}

// NewCollection creates a collection over the given store. Pushes to the
// collection named DefaultCollectionName carry the synthetic per-item
// charge.
func NewCollection(name string, store Store, policy ChargePolicy, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		name:   name,
		store:  store,
		policy: policy,
		logger: logger.With("component", "output.collection", "collection", name),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// IsDefault reports whether this is the run's default collection.
func (c *Collection) IsDefault() bool {
	return c.name == DefaultCollectionName
}

// Push writes items to the collection, truncating the batch to what the
// remaining budget affords before anything is stored. Items beyond the
// limit are silently dropped and never billed. eventName, when non-empty,
// is charged once per written item in addition to the synthetic per-item
// event of the default collection; pass "" to charge storage alone.
//
// The charge happens after the write so the ledger never bills items that
// failed to store. A charge error after a successful write is returned to
// the caller; the stored items stand.
func (c *Collection) Push(ctx context.Context, items []Item, eventName string) (PushResult, error) {
	offered := int64(len(items))
	if offered == 0 {
		return PushResult{}, nil
	}

	limit, err := c.policy.CalculatePushLimit(offered, eventName, c.IsDefault())
	if err != nil {
		return PushResult{}, fmt.Errorf("failed to calculate push limit: %w", err)
	}

	res := PushResult{Truncated: limit < offered}
	if res.Truncated {
		c.logger.Info("push truncated by remaining budget",
			"offered", offered,
			"writable", limit,
		)
	}
	if limit == 0 {
		return res, nil
	}

	if err := c.store.Append(ctx, c.name, items[:limit]); err != nil {
		return res, fmt.Errorf("failed to store items: %w", err)
	}
	res.Written = limit

	if eventName != "" {
		charged, err := c.policy.Charge(ctx, eventName, limit)
		if err != nil {
			return res, fmt.Errorf("failed to charge event %q: %w", eventName, err)
		}
		res.EventResult = &charged
	}
	if c.IsDefault() {
		charged, err := c.policy.Charge(ctx, charging.DefaultItemEventName, limit)
		if err != nil {
			return res, fmt.Errorf("failed to charge stored items: %w", err)
		}
		res.ItemResult = &charged
	}

	return res, nil
}

// Items returns the stored items in insertion order.
func (c *Collection) Items(ctx context.Context) ([]Item, error) {
	return c.store.Items(ctx, c.name)
}

// Count returns the number of stored items.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	return c.store.Count(ctx, c.name)
}
