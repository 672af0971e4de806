package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

const referenceCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a vehicle rental booking.
type Booking struct {
	id            uuid.UUID
	referenceCode string
	vehicleID     uuid.UUID
	renterID      uuid.UUID
	hostID        uuid.UUID
	dateRange     daterange.DateRange
	status        BookingStatus
	paymentStatus PaymentStatus

	totalAmount decimal.Decimal
	currency    string

	confirmedAt  *time.Time
	checkedInAt  *time.Time
	checkedOutAt *time.Time
	cancelledAt  *time.Time
	cancelledBy  *uuid.UUID
	cancelReason string
	rejectReason string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReferenceCode creates a booking reference in the format "RB-XXXXXX".
func generateReferenceCode() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceCodeChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate reference code: %w", err)
		}
		result[i] = referenceCodeChars[n.Int64()]
	}
	return "RB-" + string(result), nil
}

// NewBooking creates a new Booking in status=pending for the requested range.
// Same-day starts are allowed; ranges starting before today are rejected.
func NewBooking(
	vehicleID, renterID, hostID uuid.UUID,
	r daterange.DateRange,
	totalAmount decimal.Decimal,
	currency string,
) (*Booking, error) {
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if renterID == hostID {
		return nil, domain.NewValidationError("renter cannot book their own vehicle")
	}
	if r.StartsBefore(time.Now().UTC()) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}
	if totalAmount.IsNegative() {
		return nil, domain.NewValidationError("total amount cannot be negative")
	}

	referenceCode, err := generateReferenceCode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		referenceCode: referenceCode,
		vehicleID:     vehicleID,
		renterID:      renterID,
		hostID:        hostID,
		dateRange:     r,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		totalAmount:   totalAmount,
		currency:      currency,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	referenceCode string,
	vehicleID, renterID, hostID uuid.UUID,
	r daterange.DateRange,
	status BookingStatus,
	paymentStatus PaymentStatus,
	totalAmount decimal.Decimal,
	currency string,
	confirmedAt, checkedInAt, checkedOutAt, cancelledAt *time.Time,
	cancelledBy *uuid.UUID,
	cancelReason, rejectReason string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		referenceCode: referenceCode,
		vehicleID:     vehicleID,
		renterID:      renterID,
		hostID:        hostID,
		dateRange:     r,
		status:        status,
		paymentStatus: paymentStatus,
		totalAmount:   totalAmount,
		currency:      currency,
		confirmedAt:   confirmedAt,
		checkedInAt:   checkedInAt,
		checkedOutAt:  checkedOutAt,
		cancelledAt:   cancelledAt,
		cancelledBy:   cancelledBy,
		cancelReason:  cancelReason,
		rejectReason:  rejectReason,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ReferenceCode returns the human-readable booking reference.
func (b *Booking) ReferenceCode() string { return b.referenceCode }

// VehicleID returns the booked vehicle's identifier.
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }

// RenterID returns the renter's user identifier.
func (b *Booking) RenterID() uuid.UUID { return b.renterID }

// HostID returns the host's user identifier.
func (b *Booking) HostID() uuid.UUID { return b.hostID }

// DateRange returns the booked date range.
func (b *Booking) DateRange() daterange.DateRange { return b.dateRange }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// TotalAmount returns the total rental price.
func (b *Booking) TotalAmount() decimal.Decimal { return b.totalAmount }

// Currency returns the price currency code.
func (b *Booking) Currency() string { return b.currency }

// ConfirmedAt returns when the booking was confirmed, if it was.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CheckedInAt returns when the rental started, if it did.
func (b *Booking) CheckedInAt() *time.Time { return b.checkedInAt }

// CheckedOutAt returns when the rental ended, if it did.
func (b *Booking) CheckedOutAt() *time.Time { return b.checkedOutAt }

// CancelledAt returns when the booking was cancelled, if it was.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelledBy returns who cancelled the booking, if anyone.
func (b *Booking) CancelledBy() *uuid.UUID { return b.cancelledBy }

// CancelReason returns the cancellation reason.
func (b *Booking) CancelReason() string { return b.cancelReason }

// RejectReason returns the host's rejection reason.
func (b *Booking) RejectReason() string { return b.rejectReason }

// Version returns the optimistic-locking version.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-modified timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsOccupying reports whether this booking currently holds its range against
// availability.
func (b *Booking) IsOccupying() bool {
	return b.status.IsOccupying()
}

// --- Behavior ---

// Accept transitions the booking from pending to confirmed. From this point
// the date range occupies the vehicle's calendar; the storage layer's
// exclusion constraint is the final arbiter if two pendings race for the
// same range.
func (b *Booking) Accept() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.touch()
	return nil
}

// Reject declines a pending booking with a reason. The range was never
// occupying, so there is nothing to release.
func (b *Booking) Reject(reason string) error {
	if reason == "" {
		return domain.NewValidationError("rejection reason is required")
	}
	if !b.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	b.status = StatusRejected
	b.rejectReason = reason
	b.touch()
	return nil
}

// Cancel transitions a pending or confirmed booking to cancelled, releasing
// the occupied range immediately.
func (b *Booking) Cancel(actor uuid.UUID, reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.cancelledBy = &actor
	b.cancelReason = reason
	b.touch()
	return nil
}

// CheckIn transitions the booking from confirmed to active at handover.
func (b *Booking) CheckIn() error {
	if !b.status.CanTransitionTo(StatusActive) {
		return domain.NewInvalidStateError(string(b.status), string(StatusActive))
	}
	now := time.Now().UTC()
	b.status = StatusActive
	b.checkedInAt = &now
	b.touch()
	return nil
}

// CheckOut transitions the booking from active to completed at return.
func (b *Booking) CheckOut() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.checkedOutAt = &now
	b.touch()
	return nil
}

// RecordPayment updates the payment axis. Booking status is never derived
// from payment outcomes.
func (b *Booking) RecordPayment(status PaymentStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", status))
	}
	b.paymentStatus = status
	b.touch()
	return nil
}

func (b *Booking) touch() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
