package charging

import (
	"errors"
	"fmt"
)

// Sentinel causes for configuration errors. Test with errors.Is.
var (
	// ErrLocalSimulationOnPlatform is returned when local pay-per-event
	// simulation is requested while the run actually executes under
	// platform management. This is a deployment defect, not a retryable
	// condition.
	ErrLocalSimulationOnPlatform = errors.New("local pay-per-event simulation requested on a managed platform run")

	// ErrMissingRunID is returned when a managed run has no run ID.
	ErrMissingRunID = errors.New("run ID is required for a managed platform run")
)

// Sentinel causes for usage errors. Test with errors.Is.
var (
	// ErrNotEntered is returned when a charging operation is called
	// before Enter.
	ErrNotEntered = errors.New("charging engine used before Enter")

	// ErrExited is returned when a charging operation is called after
	// Exit.
	ErrExited = errors.New("charging engine used after Exit")

	// ErrNegativeCount is returned for a negative charge or item count.
	ErrNegativeCount = errors.New("count must not be negative")
)

// ConfigError is a fatal initialization error: the deployment is
// materially misconfigured and the engine must not be entered.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		if e.Reason != "" {
			return fmt.Sprintf("charging config error: %s: %v", e.Reason, e.Err)
		}
		return fmt.Sprintf("charging config error: %v", e.Err)
	}
	return fmt.Sprintf("charging config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError wrapping the given cause.
func NewConfigError(reason string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Err: err}
}

// UsageError is a caller bug: an operation was invoked in a state or with
// arguments the API contract forbids.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("charging usage error in %s: %v", e.Op, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a UsageError for the given operation.
func NewUsageError(op string, err error) *UsageError {
	return &UsageError{Op: op, Err: err}
}
