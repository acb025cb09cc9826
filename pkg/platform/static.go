package platform

import (
	"context"
	"sync"
)

// Static is an in-memory MetadataClient and ChargeReporter.
// It serves local simulation and tests; it never talks to a network.
type Static struct {
	pricing *RunPricing

	// ReportErr, when set, is returned by every ReportCharge call.
	// Used to exercise report-failure paths.
	ReportErr error

	mu       sync.Mutex
	reported map[string]int64
}

// NewStatic creates a Static backed by the given pricing record.
// A nil pricing record behaves like a run with no metering configured.
func NewStatic(pricing *RunPricing) *Static {
	if pricing == nil {
		pricing = &RunPricing{}
	}
	return &Static{
		pricing:  pricing,
		reported: make(map[string]int64),
	}
}

// RunPricing implements MetadataClient.
func (s *Static) RunPricing(ctx context.Context, runID string) (*RunPricing, error) {
	return s.pricing, nil
}

// ReportCharge implements ChargeReporter. Reported counts accumulate and
// can be read back with Reported.
func (s *Static) ReportCharge(ctx context.Context, runID, eventName string, count int64) error {
	if s.ReportErr != nil {
		return s.ReportErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reported[eventName] += count
	return nil
}

// Reported returns the total count reported so far for an event.
func (s *Static) Reported(eventName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reported[eventName]
}
