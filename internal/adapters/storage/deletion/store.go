package deletion

import (
	"context"

	domain "posme/internal/domain/deletion"
)

// Store defines the interface for deletion-request persistence.
type Store interface {
	// GetByID retrieves a deletion request by its ID.
	// PRE: id is non-empty
	// POST: Returns the request or an error if not found
	GetByID(ctx context.Context, id string) (domain.Request, error)

	// Save persists a deletion request to the database.
	// PRE: entity has been validated
	// POST: Entity is persisted (insert or update)
	Save(ctx context.Context, r domain.Request) error

	// ListByStatus returns deletion requests filtered by status, newest first.
	// PRE: status is non-empty, limit > 0
	// POST: Returns up to limit entries ordered by received_at desc
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Request, error)
}
