package platform

import (
	"os"
	"strconv"

	"github.com/google/uuid"
)

// Environment variables set by the platform runtime for managed runs.
const (
	// EnvRunID carries the platform-assigned run identifier.
	EnvRunID = "TOLLGATE_RUN_ID"

	// EnvManagedRun is set truthy when the process executes under
	// platform management.
	EnvManagedRun = "TOLLGATE_MANAGED_RUN"
)

// IsManagedRun reports whether the process is running under platform
// management, based on the runtime environment.
func IsManagedRun() bool {
	val := os.Getenv(EnvManagedRun)
	if val == "" {
		return false
	}
	managed, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return managed
}

// ResolveRunID returns the platform-assigned run ID when present, and
// otherwise generates a fresh local run ID. Local IDs are prefixed so that
// local state and audit rows are recognizable as such.
func ResolveRunID() string {
	if id := os.Getenv(EnvRunID); id != "" {
		return id
	}
	return "local-" + uuid.NewString()
}
