package statestore

import (
	"context"
	"sync"
)

// MemoryBackend implements Backend with in-memory storage.
// All state is lost when the process exits; intended for tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	runs map[string]map[string]int64
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		runs: make(map[string]map[string]int64),
	}
}

// SaveCounts implements Backend.
func (m *MemoryBackend) SaveCounts(ctx context.Context, runID string, counts map[string]int64) error {
	copied := make(map[string]int64, len(counts))
	for event, count := range counts {
		copied[event] = count
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runID] = copied
	return nil
}

// LoadCounts implements Backend.
func (m *MemoryBackend) LoadCounts(ctx context.Context, runID string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make(map[string]int64, len(m.runs[runID]))
	for event, count := range m.runs[runID] {
		copied[event] = count
	}
	return copied, nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, runID)
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	return nil
}
