package output

import (
	"context"
	"testing"

	"mercator-hq/tollgate/pkg/charging"
	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/pricing"
)

func newTestEngine(t *testing.T, maxTotal string) *charging.Engine {
	t.Helper()
	max := money.MustParse(maxTotal)
	engine := charging.NewEngine(charging.Options{
		RunID: "output-run",
		Local: &charging.LocalPricing{Events: map[string]pricing.EventPrice{
			"record-saved":                {Price: money.MustParse("1.00")},
			charging.DefaultItemEventName: {Price: money.MustParse("1.00")},
		}},
		MaxTotalChargeUSD: &max,
	})
	if err := engine.Enter(context.Background()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	return engine
}

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{"index": i}
	}
	return items
}

func TestCollection_PushWithinBudget(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, "100.00")
	store := NewMemoryStore()
	col := NewCollection(DefaultCollectionName, store, engine, nil)

	res, err := col.Push(ctx, makeItems(5), "record-saved")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if res.Written != 5 {
		t.Errorf("Written = %d, want 5", res.Written)
	}
	if res.Truncated {
		t.Error("Truncated = true, want false")
	}
	if res.EventResult == nil || res.EventResult.ChargedCount != 5 {
		t.Errorf("EventResult = %+v, want charged count 5", res.EventResult)
	}
	if res.ItemResult == nil || res.ItemResult.ChargedCount != 5 {
		t.Errorf("ItemResult = %+v, want charged count 5", res.ItemResult)
	}

	count, err := col.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 5 {
		t.Errorf("Count = %d, want 5", count)
	}
}

func TestCollection_PushTruncatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	// 3.00 budget, 2.00 per item on the default collection: one item fits.
	engine := newTestEngine(t, "3.00")
	store := NewMemoryStore()
	col := NewCollection(DefaultCollectionName, store, engine, nil)

	res, err := col.Push(ctx, makeItems(10), "record-saved")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if res.Written != 1 {
		t.Errorf("Written = %d, want 1", res.Written)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}

	// Dropped items were never stored, so storage matches the ledger.
	count, err := col.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("stored items = %d, want 1", count)
	}
	if got, err := engine.ChargedCount("record-saved"); err != nil || got != 1 {
		t.Errorf("ChargedCount(record-saved) = %d, %v; want 1, nil", got, err)
	}
	if got, err := engine.ChargedCount(charging.DefaultItemEventName); err != nil || got != 1 {
		t.Errorf("ChargedCount(default item) = %d, %v; want 1, nil", got, err)
	}
}

func TestCollection_PushToNamedCollection(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, "3.00")
	store := NewMemoryStore()
	col := NewCollection("screenshots", store, engine, nil)

	// Named collections pay only the explicit event: 1.00 each.
	res, err := col.Push(ctx, makeItems(10), "record-saved")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if res.Written != 3 {
		t.Errorf("Written = %d, want 3", res.Written)
	}
	if res.ItemResult != nil {
		t.Errorf("ItemResult = %+v, want nil for a named collection", res.ItemResult)
	}
	if got, err := engine.ChargedCount(charging.DefaultItemEventName); err != nil || got != 0 {
		t.Errorf("ChargedCount(default item) = %d, %v; want 0, nil", got, err)
	}
}

func TestCollection_PushWithoutExplicitEvent(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, "2.00")
	store := NewMemoryStore()
	col := NewCollection(DefaultCollectionName, store, engine, nil)

	res, err := col.Push(ctx, makeItems(5), "")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if res.Written != 2 {
		t.Errorf("Written = %d, want 2", res.Written)
	}
	if res.EventResult != nil {
		t.Errorf("EventResult = %+v, want nil when no event was named", res.EventResult)
	}
	if res.ItemResult == nil || res.ItemResult.ChargedCount != 2 {
		t.Errorf("ItemResult = %+v, want charged count 2", res.ItemResult)
	}
}

func TestCollection_PushEmptyBatch(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, "1.00")
	col := NewCollection(DefaultCollectionName, NewMemoryStore(), engine, nil)

	res, err := col.Push(ctx, nil, "record-saved")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if res.Written != 0 || res.Truncated {
		t.Errorf("Push(nil) = %+v, want zero result", res)
	}
	if got, err := engine.ChargedCount("record-saved"); err != nil || got != 0 {
		t.Errorf("ChargedCount = %d, %v; want 0, nil", got, err)
	}
}

func TestCollection_PushExhaustedBudgetStoresNothing(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, "2.00")
	store := NewMemoryStore()
	col := NewCollection(DefaultCollectionName, store, engine, nil)

	if _, err := col.Push(ctx, makeItems(1), ""); err != nil {
		t.Fatalf("Push: %v", err)
	}
	// 1.00 remains; one more default-collection item costs 1.00.
	if _, err := col.Push(ctx, makeItems(1), ""); err != nil {
		t.Fatalf("Push: %v", err)
	}

	res, err := col.Push(ctx, makeItems(3), "")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if res.Written != 0 {
		t.Errorf("Written = %d, want 0 after exhaustion", res.Written)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}

	count, err := col.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("stored items = %d, want 2", count)
	}
}
