package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	calendarDomain "github.com/hadfi53/rakb-sub000/internal/domain/calendar"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// EventPublisher publishes CloudEvents; satisfied by the Kafka producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID       `json:"id"`
	ReferenceCode string          `json:"reference_code"`
	VehicleID     uuid.UUID       `json:"vehicle_id"`
	RenterID      uuid.UUID       `json:"renter_id"`
	HostID        uuid.UUID       `json:"host_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CheckedInAt   *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt  *time.Time      `json:"checked_out_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	RejectReason  string          `json:"reject_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
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
		CancelReason:  bk.CancelReason(),
		RejectReason:  bk.RejectReason(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

// VehicleDTO is the response representation of a vehicle listing.
type VehicleDTO struct {
	ID              uuid.UUID       `json:"id"`
	HostID          uuid.UUID       `json:"host_id"`
	Make            string          `json:"make"`
	Model           string          `json:"model"`
	Year            int             `json:"year"`
	Description     string          `json:"description,omitempty"`
	Images          []string        `json:"images,omitempty"`
	PricePerDay     decimal.Decimal `json:"price_per_day"`
	Currency        string          `json:"currency"`
	Location        string          `json:"location,omitempty"`
	Policies        string          `json:"policies,omitempty"`
	Status          string          `json:"status"`
	IsApproved      bool            `json:"is_approved"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toVehicleDTO(l *vehicleDomain.Listing) VehicleDTO {
	return VehicleDTO{
		ID:              l.ID(),
		HostID:          l.HostID(),
		Make:            l.Make(),
		Model:           l.Model(),
		Year:            l.Year(),
		Description:     l.Description(),
		Images:          l.Images(),
		PricePerDay:     l.PricePerDay(),
		Currency:        l.Currency(),
		Location:        l.Location(),
		Policies:        l.Policies(),
		Status:          string(l.Status()),
		IsApproved:      l.IsApproved(),
		RejectionReason: l.RejectionReason(),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}
}

// BlockDTO is the response representation of a calendar block.
type BlockDTO struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func toBlockDTO(b *calendarDomain.Block) BlockDTO {
	return BlockDTO{
		ID:        b.ID(),
		VehicleID: b.VehicleID(),
		StartDate: b.DateRange().Start,
		EndDate:   b.DateRange().End,
		Reason:    string(b.Reason()),
		CreatedAt: b.CreatedAt(),
	}
}
