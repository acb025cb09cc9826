package output

import (
	"context"
	"sync"
)

// Item is a single output record.
type Item map[string]any

// Store is the persistence backend for a collection's items.
type Store interface {
	// Append writes items to the named collection in order.
	Append(ctx context.Context, collection string, items []Item) error

	// Items returns all items of the named collection in insertion
	// order.
	Items(ctx context.Context, collection string) ([]Item, error)

	// Count returns the number of items in the named collection.
	Count(ctx context.Context, collection string) (int64, error)
}

// MemoryStore is an in-memory Store for local runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]Item
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]Item),
	}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, collection string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[collection] = append(s.items[collection], items...)
	return nil
}

// Items implements Store.
func (s *MemoryStore) Items(ctx context.Context, collection string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.items[collection]
	out := make([]Item, len(stored))
	copy(out, stored)
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context, collection string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items[collection])), nil
}
