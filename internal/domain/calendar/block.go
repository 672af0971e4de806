package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

// BlockReason classifies why a date range is occupied.
type BlockReason string

const (
	// ReasonBooking entries mirror occupying bookings. They are derived at
	// query time from the bookings table and are never created directly;
	// only the reservation engine writes booking occupancy.
	ReasonBooking BlockReason = "booking"

	ReasonMaintenance BlockReason = "maintenance"
	ReasonOwnerBlock  BlockReason = "owner_block"
)

// IsValid returns true if the block reason is recognized.
func (r BlockReason) IsValid() bool {
	switch r {
	case ReasonBooking, ReasonMaintenance, ReasonOwnerBlock:
		return true
	}
	return false
}

// IsHostCreated returns true for reasons a host may create directly.
func (r BlockReason) IsHostCreated() bool {
	return r == ReasonMaintenance || r == ReasonOwnerBlock
}

// Block is an occupied date range on a vehicle's calendar.
type Block struct {
	id        uuid.UUID
	vehicleID uuid.UUID
	dateRange daterange.DateRange
	reason    BlockReason
	// reference holds the source booking id for booking-reason blocks,
	// empty for host-created ones.
	reference string
	createdAt time.Time
}

// NewHostBlock creates a maintenance or owner block on a vehicle's calendar.
func NewHostBlock(vehicleID uuid.UUID, r daterange.DateRange, reason BlockReason) (*Block, error) {
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if !reason.IsHostCreated() {
		return nil, domain.NewValidationError(fmt.Sprintf("hosts may only create maintenance or owner_block entries, got %q", reason))
	}
	return &Block{
		id:        uuid.New(),
		vehicleID: vehicleID,
		dateRange: r,
		reason:    reason,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Block from persistence or from a source booking row.
func Reconstruct(id, vehicleID uuid.UUID, r daterange.DateRange, reason BlockReason, reference string, createdAt time.Time) *Block {
	return &Block{
		id:        id,
		vehicleID: vehicleID,
		dateRange: r,
		reason:    reason,
		reference: reference,
		createdAt: createdAt,
	}
}

// Getters.
func (b *Block) ID() uuid.UUID                  { return b.id }
func (b *Block) VehicleID() uuid.UUID           { return b.vehicleID }
func (b *Block) DateRange() daterange.DateRange { return b.dateRange }
func (b *Block) Reason() BlockReason            { return b.reason }
func (b *Block) Reference() string              { return b.reference }
func (b *Block) CreatedAt() time.Time           { return b.createdAt }
