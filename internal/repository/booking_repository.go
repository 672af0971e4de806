package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

// pgExclusionViolation is the SQLSTATE raised when a write collides with the
// range-exclusion constraint.
const pgExclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table. The
// bookings_no_overlap exclusion constraint (see migrations) guarantees that
// no two rows in an occupying status hold overlapping ranges for the same
// vehicle.
type BookingModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReferenceCode string          `gorm:"uniqueIndex;not null;size:20"`
	VehicleID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	RenterID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	HostID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	StartDate     time.Time       `gorm:"type:date;not null"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	Status        string          `gorm:"not null;size:30;index"`
	PaymentStatus string          `gorm:"not null;size:30"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency      string          `gorm:"not null;size:3"`
	ConfirmedAt   *time.Time      `gorm:""`
	CheckedInAt   *time.Time      `gorm:""`
	CheckedOutAt  *time.Time      `gorm:""`
	CancelledAt   *time.Time      `gorm:""`
	CancelledBy   *uuid.UUID      `gorm:"type:uuid"`
	CancelReason  string          `gorm:"size:500"`
	RejectReason  string          `gorm:"size:500"`
	Version       int64           `gorm:"not null;default:1"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByReference retrieves a booking by its reference code.
func (r *GormBookingRepository) FindByReference(ctx context.Context, code string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("reference_code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", code)
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByRenterID retrieves bookings made by a renter with pagination.
func (r *GormBookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(ctx, "renter_id = ?", renterID, page, limit)
}

// FindByHostID retrieves bookings against a host's vehicles with pagination.
func (r *GormBookingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(ctx, "host_id = ?", hostID, page, limit)
}

func (r *GormBookingRepository) findPaged(ctx context.Context, cond string, arg interface{}, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking. An exclusion-constraint rejection is the
// authoritative conflict signal and surfaces as a date-range conflict.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isExclusionViolation(err) {
			return domain.NewConflictError("requested date range is no longer available")
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// Transitions into an occupying status can also trip the exclusion
// constraint (two accepted pendings racing for the same range) and surface
// the same conflict error.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"confirmed_at":   model.ConfirmedAt,
			"checked_in_at":  model.CheckedInAt,
			"checked_out_at": model.CheckedOutAt,
			"cancelled_at":   model.CancelledAt,
			"cancelled_by":   model.CancelledBy,
			"cancel_reason":  model.CancelReason,
			"reject_reason":  model.RejectReason,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		if isExclusionViolation(result.Error) {
			return domain.NewConflictError("date range was taken by a concurrent booking")
		}
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewUnavailableError("booking was modified by another transaction, retry")
	}

	return nil
}

// isExclusionViolation reports whether the error is a Postgres
// exclusion-constraint rejection.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:            bk.ID(),
		ReferenceCode: bk.ReferenceCode(),
		VehicleID:     bk.VehicleID(),
		RenterID:      bk.RenterID(),
		HostID:        bk.HostID(),
		StartDate:     bk.DateRange().Start,
		EndDate:       bk.DateRange().End,
		Status:        string(bk.Status()),
		PaymentStatus: string(bk.PaymentStatus()),
		TotalAmount:   bk.TotalAmount(),
		Currency:      bk.Currency(),
		ConfirmedAt:   bk.ConfirmedAt(),
		CheckedInAt:   bk.CheckedInAt(),
		CheckedOutAt:  bk.CheckedOutAt(),
		CancelledAt:   bk.CancelledAt(),
		CancelledBy:   bk.CancelledBy(),
		CancelReason:  bk.CancelReason(),
		RejectReason:  bk.RejectReason(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}
	r, err := daterange.New(m.StartDate, m.EndDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt date range on booking %s: %w", m.ID, err)
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.ReferenceCode,
		m.VehicleID,
		m.RenterID,
		m.HostID,
		r,
		status,
		paymentStatus,
		m.TotalAmount,
		m.Currency,
		m.ConfirmedAt,
		m.CheckedInAt,
		m.CheckedOutAt,
		m.CancelledAt,
		m.CancelledBy,
		m.CancelReason,
		m.RejectReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
