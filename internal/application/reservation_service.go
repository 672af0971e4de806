package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/events"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// CreateBookingRequest holds the data needed to reserve a vehicle.
type CreateBookingRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// ReservationService is the reservation engine: it validates a booking
// request against the publication gate and the advisory availability check,
// then writes the booking, with the storage layer's exclusion constraint as
// the final race-safety backstop. When two requests race for overlapping
// ranges, the first write to commit wins and the loser sees a date-range
// conflict; there is no queuing.
type ReservationService struct {
	vehicles     vehicleDomain.Repository
	bookings     bookingDomain.Repository
	availability *AvailabilityService
	pricing      bookingDomain.PricingStrategy
	producer     EventPublisher
	logger       *zap.Logger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	vehicles vehicleDomain.Repository,
	bookings bookingDomain.Repository,
	availability *AvailabilityService,
	pricing bookingDomain.PricingStrategy,
	producer EventPublisher,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		vehicles:     vehicles,
		bookings:     bookings,
		availability: availability,
		pricing:      pricing,
		producer:     producer,
		logger:       logger,
	}
}

// Reserve creates a pending booking for the requested range.
func (s *ReservationService) Reserve(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	r, err := daterange.New(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	// Same-day pickups are allowed; anything earlier is not.
	if today := time.Now().UTC().Truncate(24 * time.Hour); r.Start.Before(today) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}

	listing, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !listing.IsBookable() {
		return nil, domain.NewNotBookableError(listing.ID().String(), string(listing.Status()))
	}

	// Advisory fast path. A pass here proves nothing under concurrency;
	// the Save below is the authoritative check.
	available, err := s.availability.CheckAvailability(ctx, listing.ID(), r)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.NewConflictError("requested date range is not available")
	}

	total, err := s.pricing.Calculate(bookingDomain.PricingParams{
		Range:       r,
		PricePerDay: listing.PricePerDay(),
	})
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	bk, err := bookingDomain.NewBooking(
		listing.ID(),
		renterID,
		listing.HostID(),
		r,
		total,
		listing.Currency(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingRequested, bk, "")

	s.logger.Info("booking reserved",
		zap.String("booking_id", bk.ID().String()),
		zap.String("vehicle_id", listing.ID().String()),
		zap.String("range", r.String()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckAvailability answers the user-facing availability query.
func (s *ReservationService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	r, err := daterange.New(start, end)
	if err != nil {
		return false, err
	}
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return false, err
	}
	return s.availability.CheckAvailability(ctx, vehicleID, r)
}

func (s *ReservationService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, reason string) {
	evt := events.BookingStatusEvent{
		BookingID:     bk.ID(),
		ReferenceCode: bk.ReferenceCode(),
		VehicleID:     bk.VehicleID(),
		RenterID:      bk.RenterID(),
		HostID:        bk.HostID(),
		Status:        string(bk.Status()),
		StartDate:     bk.DateRange().Start,
		EndDate:       bk.DateRange().End,
		TotalAmount:   bk.TotalAmount().String(),
		Currency:      bk.Currency(),
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}

	ce, err := kafka.NewCloudEvent("rakb-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
