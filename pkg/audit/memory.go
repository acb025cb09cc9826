package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryLog is a volatile in-memory Log, primarily for tests.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
	closed  bool
}

// NewMemoryLog creates an empty in-memory audit log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append implements Log.
func (m *MemoryLog) Append(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// List implements Log.
func (m *MemoryLog) List(ctx context.Context, runID string, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if runID != "" && m.entries[i].RunID != runID {
			continue
		}
		out = append(out, m.entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Purge implements Log.
func (m *MemoryLog) Purge(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if runID == "" {
		m.entries = nil
		return nil
	}

	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.RunID != runID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

// PruneOlderThan implements Log.
func (m *MemoryLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.ChargedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return deleted, nil
}

// Close implements Log.
func (m *MemoryLog) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored entries. Useful for tests.
func (m *MemoryLog) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
