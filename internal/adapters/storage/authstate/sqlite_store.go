package authstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"posme/internal/adapters/storage"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements the auth-state Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new auth-state store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the state for a device.
// PRE: deviceID is non-empty
// POST: Returns the state or an error if not found
func (s *SQLiteStore) Get(ctx context.Context, deviceID string) (State, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT device_id, token, user_json, updated_at FROM auth_state WHERE device_id = ?`,
		deviceID)

	var st State
	var userJSON, updatedAt string
	if err := row.Scan(&st.DeviceID, &st.Token, &userJSON, &updatedAt); err != nil {
		return State{}, err
	}
	if userJSON != "" {
		if err := json.Unmarshal([]byte(userJSON), &st.User); err != nil {
			return State{}, fmt.Errorf("decode cached user: %w", err)
		}
	}
	if t, err := time.Parse(dateLayout, updatedAt); err == nil {
		st.UpdatedAt = t
	}
	return st, nil
}

// Put persists the state for a device (insert or update).
// PRE: state.DeviceID and state.Token are non-empty
// POST: State is persisted
func (s *SQLiteStore) Put(ctx context.Context, st State) error {
	userJSON, err := json.Marshal(st.User)
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}
	updatedAt := st.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO auth_state (device_id, token, user_json, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(device_id) DO UPDATE SET
		   token=excluded.token,
		   user_json=excluded.user_json,
		   updated_at=excluded.updated_at`,
		st.DeviceID, st.Token, string(userJSON), updatedAt.Format(dateLayout))
	return err
}

// Delete removes the state for a device unconditionally.
// PRE: deviceID is non-empty
// POST: No state remains for the device
func (s *SQLiteStore) Delete(ctx context.Context, deviceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_state WHERE device_id = ?`, deviceID)
	return err
}

// PurgeOlderThan removes states last written before the cutoff.
// POST: Returns the number of rows removed
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM auth_state WHERE updated_at < ?`, cutoff.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
