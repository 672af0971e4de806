package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	calendarDomain "github.com/hadfi53/rakb-sub000/internal/domain/calendar"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

// CalendarBlockModel is the GORM model for host-created calendar blocks.
// Booking occupancy is not mirrored here; it is derived from the bookings
// table at query time so the two can never drift.
type CalendarBlockModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"not null;size:30"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CalendarBlockModel) TableName() string {
	return "calendar_blocks"
}

// GormCalendarRepository is the GORM-based calendar store.
type GormCalendarRepository struct {
	db *gorm.DB
}

// NewGormCalendarRepository creates a new GormCalendarRepository.
func NewGormCalendarRepository(db *gorm.DB) *GormCalendarRepository {
	return &GormCalendarRepository{db: db}
}

// OccupiedRanges returns every occupied range for the vehicle: occupying
// bookings plus host blocks, sorted by start date.
func (r *GormCalendarRepository) OccupiedRanges(ctx context.Context, vehicleID uuid.UUID) ([]*calendarDomain.Block, error) {
	var bookingRows []BookingModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status IN ?", vehicleID, bookingDomain.OccupyingStatusStrings()).
		Find(&bookingRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load occupying bookings: %w", err)
	}

	var blockRows []CalendarBlockModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Find(&blockRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load calendar blocks: %w", err)
	}

	blocks := make([]*calendarDomain.Block, 0, len(bookingRows)+len(blockRows))
	for _, row := range bookingRows {
		rng, err := daterange.New(row.StartDate, row.EndDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt date range on booking %s: %w", row.ID, err)
		}
		blocks = append(blocks, calendarDomain.Reconstruct(
			row.ID, row.VehicleID, rng,
			calendarDomain.ReasonBooking, row.ID.String(), row.CreatedAt,
		))
	}
	for _, row := range blockRows {
		b, err := toDomainBlock(&row)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].DateRange().Start.Before(blocks[j].DateRange().Start)
	})
	return blocks, nil
}

// HostBlocks returns host-created blocks for a vehicle, sorted by start date.
func (r *GormCalendarRepository) HostBlocks(ctx context.Context, vehicleID uuid.UUID) ([]*calendarDomain.Block, error) {
	var rows []CalendarBlockModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("start_date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load host blocks: %w", err)
	}

	blocks := make([]*calendarDomain.Block, len(rows))
	for i, row := range rows {
		b, err := toDomainBlock(&row)
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}
	return blocks, nil
}

// FindBlockByID retrieves a host block by id.
func (r *GormCalendarRepository) FindBlockByID(ctx context.Context, id uuid.UUID) (*calendarDomain.Block, error) {
	var row CalendarBlockModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("CalendarBlock", id.String())
		}
		return nil, fmt.Errorf("failed to find calendar block: %w", err)
	}
	return toDomainBlock(&row)
}

// SaveBlock persists a host block. The calendar_blocks exclusion constraint
// rejects a block overlapping another block for the same vehicle.
func (r *GormCalendarRepository) SaveBlock(ctx context.Context, block *calendarDomain.Block) error {
	row := CalendarBlockModel{
		ID:        block.ID(),
		VehicleID: block.VehicleID(),
		StartDate: block.DateRange().Start,
		EndDate:   block.DateRange().End,
		Reason:    string(block.Reason()),
		CreatedAt: block.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isExclusionViolation(err) {
			return domain.NewConflictError("block overlaps an existing calendar block")
		}
		return fmt.Errorf("failed to save calendar block: %w", err)
	}
	return nil
}

// DeleteBlock removes a host block, releasing its range.
func (r *GormCalendarRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CalendarBlockModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete calendar block: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("CalendarBlock", id.String())
	}
	return nil
}

func toDomainBlock(m *CalendarBlockModel) (*calendarDomain.Block, error) {
	rng, err := daterange.New(m.StartDate, m.EndDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt date range on calendar block %s: %w", m.ID, err)
	}
	return calendarDomain.Reconstruct(
		m.ID, m.VehicleID, rng,
		calendarDomain.BlockReason(m.Reason), "", m.CreatedAt,
	), nil
}
