package statestore

import "context"

// Backend stores charged event counts per run.
type Backend interface {
	// SaveCounts replaces the stored counts for a run.
	SaveCounts(ctx context.Context, runID string, counts map[string]int64) error

	// LoadCounts returns the stored counts for a run.
	// A run with no stored state yields an empty map, not an error.
	LoadCounts(ctx context.Context, runID string) (map[string]int64, error)

	// Delete removes all stored state for a run.
	Delete(ctx context.Context, runID string) error

	// Close releases any resources held by the backend.
	Close() error
}
