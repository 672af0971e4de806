package calendar

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the calendar store: the durable record of occupied date
// ranges per vehicle. Booking occupancy is derived from the bookings table;
// host blocks are stored rows. The store itself has no mutation behavior
// beyond appending and removing host blocks.
type Repository interface {
	// OccupiedRanges returns every occupied range for the vehicle: ranges
	// of bookings in an occupying status plus all host-created blocks,
	// sorted by start date for efficient overlap scanning.
	OccupiedRanges(ctx context.Context, vehicleID uuid.UUID) ([]*Block, error)

	// HostBlocks returns the host-created blocks for a vehicle, sorted by
	// start date.
	HostBlocks(ctx context.Context, vehicleID uuid.UUID) ([]*Block, error)

	// FindBlockByID retrieves a host block by id.
	FindBlockByID(ctx context.Context, id uuid.UUID) (*Block, error)

	// SaveBlock persists a host block. The storage layer rejects blocks
	// overlapping another block for the same vehicle.
	SaveBlock(ctx context.Context, block *Block) error

	// DeleteBlock removes a host block, releasing its range.
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}
