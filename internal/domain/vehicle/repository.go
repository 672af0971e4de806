package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for vehicle listings.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*Listing, error)

	// FindByStatus retrieves listings in the given publication status with
	// pagination. The moderation queue is this query filtered to
	// pending_review; there is no separate in-memory queue.
	FindByStatus(ctx context.Context, status PublicationStatus, page, limit int) ([]*Listing, int64, error)

	Save(ctx context.Context, listing *Listing) error

	// Update persists changes with optimistic locking on version.
	Update(ctx context.Context, listing *Listing) error
}
