package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicVehicleEvents  = "vehicle.events"
	TopicBookingEvents  = "booking.events"
	TopicCalendarEvents = "calendar.events"
	TopicPaymentEvents  = "payment.events"
	TopicDocumentEvents = "document.events"
)

// Published event types. Search indexes, caches and the notification
// collaborator consume these; this service only guarantees emission.
const (
	VehicleSubmitted   = "vehicle.submitted"
	VehicleApproved    = "vehicle.approved"
	VehicleRejected    = "vehicle.rejected"
	VehicleSuspended   = "vehicle.suspended"
	VehicleReactivated = "vehicle.reactivated"
	VehicleDemoted     = "vehicle.demoted"

	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingRejected  = "booking.rejected"
	BookingCancelled = "booking.cancelled"
	BookingCheckedIn = "booking.checked_in"
	BookingCompleted = "booking.completed"

	CalendarBlocked  = "calendar.blocked"
	CalendarReleased = "calendar.released"
)

// Consumed event types.
const (
	PaymentCaptured  = "payment.captured"
	PaymentRefunded  = "payment.refunded"
	PaymentFailed    = "payment.failed"
	DocumentApproved = "document.approved"
)

// VehicleStatusEvent is published on every publication status transition.
type VehicleStatusEvent struct {
	VehicleID  uuid.UUID `json:"vehicle_id"`
	HostID     uuid.UUID `json:"host_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusEvent is published on every booking lifecycle transition.
type BookingStatusEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	ReferenceCode string    `json:"reference_code"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	RenterID      uuid.UUID `json:"renter_id"`
	HostID        uuid.UUID `json:"host_id"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalAmount   string    `json:"total_amount"`
	Currency      string    `json:"currency"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CalendarBlockEvent is published when a host block is created or removed.
type CalendarBlockEvent struct {
	BlockID    uuid.UUID `json:"block_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	Reason     string    `json:"reason"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentEvent is consumed from the payment collaborator. Its outcome
// updates the booking's payment axis only, never the booking status.
type PaymentEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DocumentApprovedEvent is consumed from the document-verification
// collaborator when a moderator approves a document.
type DocumentApprovedEvent struct {
	DocumentID   uuid.UUID `json:"document_id"`
	UserID       uuid.UUID `json:"user_id"`
	DocumentType string    `json:"document_type"`
	OccurredAt   time.Time `json:"occurred_at"`
}
