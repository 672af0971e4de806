package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	"github.com/hadfi53/rakb-sub000/internal/events"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// BookingService drives a booking through its lifecycle. Every transition is
// validated against the allowed predecessors in the domain layer; calendar
// occupancy follows the status automatically because occupied ranges are
// derived from bookings in an occupying status.
type BookingService struct {
	bookings     bookingDomain.Repository
	availability *AvailabilityService
	producer     EventPublisher
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	availability *AvailabilityService,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:     bookings,
		availability: availability,
		producer:     producer,
		logger:       logger,
	}
}

// Accept confirms a pending booking. From this point the range occupies the
// vehicle's calendar; if another booking for an overlapping range was
// confirmed first, the storage layer rejects the update and the caller sees
// a date-range conflict.
func (s *BookingService) Accept(ctx context.Context, bookingID, hostID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.HostID() != hostID {
		return nil, domain.NewForbiddenError("only the host may accept this booking")
	}

	// A host block created after the request was made is only visible to the
	// advisory check; booking-vs-block overlap is not constraint-enforced.
	available, err := s.availability.CheckAvailability(ctx, bk.VehicleID(), bk.DateRange())
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.NewConflictError("requested date range is no longer available")
	}

	if err := bk.Accept(); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.availability.Invalidate(ctx, bk.VehicleID())
	s.publishBookingEvent(ctx, events.BookingConfirmed, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// Reject declines a pending booking with a reason. The range never occupied
// the calendar, so nothing is released.
func (s *BookingService) Reject(ctx context.Context, bookingID, hostID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.HostID() != hostID {
		return nil, domain.NewForbiddenError("only the host may reject this booking")
	}

	if err := bk.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingRejected, bk, reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// Cancel cancels a pending or confirmed booking. A confirmed booking's range
// is released immediately: subsequent reservations for the same range
// succeed.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.RenterID() != actorID && bk.HostID() != actorID {
		return nil, domain.NewForbiddenError("only the renter or the host may cancel this booking")
	}

	wasOccupying := bk.IsOccupying()

	if err := bk.Cancel(actorID, reason); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	if wasOccupying {
		s.availability.Invalidate(ctx, bk.VehicleID())
	}
	s.publishBookingEvent(ctx, events.BookingCancelled, bk, reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckIn marks the vehicle handover, moving the booking to active. No range
// implications beyond what confirmation already established.
func (s *BookingService) CheckIn(ctx context.Context, bookingID, hostID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.HostID() != hostID {
		return nil, domain.NewForbiddenError("only the host may check in this booking")
	}

	if err := bk.CheckIn(); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCheckedIn, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckOut marks the vehicle return, completing the booking.
func (s *BookingService) CheckOut(ctx context.Context, bookingID, hostID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.HostID() != hostID {
		return nil, domain.NewForbiddenError("only the host may check out this booking")
	}

	if err := bk.CheckOut(); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.availability.Invalidate(ctx, bk.VehicleID())
	s.publishBookingEvent(ctx, events.BookingCompleted, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// RecordPaymentOutcome updates the payment axis of a booking. Payment
// outcomes never move the booking status.
func (s *BookingService) RecordPaymentOutcome(ctx context.Context, bookingID uuid.UUID, status bookingDomain.PaymentStatus) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := bk.RecordPayment(status); err != nil {
		return err
	}
	if err := s.bookings.Update(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("payment outcome recorded",
		zap.String("booking_id", bookingID.String()),
		zap.String("payment_status", string(status)),
	)
	return nil
}

// GetBooking retrieves a single booking, restricted to its participants.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.RenterID() != actorID && bk.HostID() != actorID {
		return nil, domain.NewForbiddenError("booking does not involve this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetRenterBookings retrieves paginated bookings made by a renter.
func (s *BookingService) GetRenterBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetHostBookings retrieves paginated bookings against a host's vehicles.
func (s *BookingService) GetHostBookings(ctx context.Context, hostID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByHostID(ctx, hostID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, reason string) {
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
