package deletion

import (
	"context"
	"database/sql"
	"time"

	"posme/internal/adapters/storage"
	domain "posme/internal/domain/deletion"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements the deletion Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new deletion request store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a deletion request by its ID.
// PRE: id is non-empty
// POST: Returns the request or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Request, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, contact, store_name, message, status, ip_address, received_at
		 FROM deletion_request WHERE id = ?`, id)
	return scanRequest(row)
}

// Save persists a deletion request to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, r domain.Request) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deletion_request (id, contact, store_name, message, status, ip_address, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status`,
		r.ID, r.Contact, r.StoreName, r.Message, r.Status, r.IPAddress,
		r.ReceivedAt.Format(dateLayout))
	return err
}

// ListByStatus returns deletion requests filtered by status, newest first.
// PRE: status is non-empty, limit > 0
// POST: Returns up to limit entries ordered by received_at desc
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, contact, store_name, message, status, ip_address, received_at
		 FROM deletion_request WHERE status = ? ORDER BY received_at DESC LIMIT ?`,
		status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		r, err := scanRequestRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRequest(row *sql.Row) (domain.Request, error) {
	var r domain.Request
	var receivedAt string
	if err := row.Scan(&r.ID, &r.Contact, &r.StoreName, &r.Message, &r.Status, &r.IPAddress, &receivedAt); err != nil {
		return domain.Request{}, err
	}
	if t, err := time.Parse(dateLayout, receivedAt); err == nil {
		r.ReceivedAt = t
	}
	return r, nil
}

func scanRequestRows(rows *sql.Rows) (domain.Request, error) {
	var r domain.Request
	var receivedAt string
	if err := rows.Scan(&r.ID, &r.Contact, &r.StoreName, &r.Message, &r.Status, &r.IPAddress, &receivedAt); err != nil {
		return domain.Request{}, err
	}
	if t, err := time.Parse(dateLayout, receivedAt); err == nil {
		r.ReceivedAt = t
	}
	return r, nil
}
