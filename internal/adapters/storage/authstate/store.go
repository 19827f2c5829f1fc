package authstate

import (
	"context"
	"time"

	"posme/internal/domain/staff"
)

// State is the persistent copy of one device's session: the token plus the
// cached staff user record, dual-written alongside the browser cookies.
type State struct {
	DeviceID  string
	Token     string
	User      staff.User
	UpdatedAt time.Time
}

// Store defines the interface for persistent auth-state storage.
type Store interface {
	// Get retrieves the state for a device.
	// PRE: deviceID is non-empty
	// POST: Returns the state or an error if not found
	Get(ctx context.Context, deviceID string) (State, error)

	// Put persists the state for a device (insert or update).
	// PRE: state.DeviceID and state.Token are non-empty
	// POST: State is persisted
	Put(ctx context.Context, s State) error

	// Delete removes the state for a device unconditionally.
	// PRE: deviceID is non-empty
	// POST: No state remains for the device
	Delete(ctx context.Context, deviceID string) error

	// PurgeOlderThan removes states last written before the cutoff. Rows
	// whose cookies have long expired are unreachable and just accumulate.
	// POST: Returns the number of rows removed
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
