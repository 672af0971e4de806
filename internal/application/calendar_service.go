package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	calendarDomain "github.com/hadfi53/rakb-sub000/internal/domain/calendar"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/events"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// CreateBlockRequest is the input for blocking a range on a vehicle's
// calendar.
type CreateBlockRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// CalendarService lets hosts manage maintenance and owner blocks on their
// vehicles' calendars. Booking occupancy never passes through here; only the
// reservation engine writes it.
type CalendarService struct {
	vehicles     vehicleDomain.Repository
	calendar     calendarDomain.Repository
	availability *AvailabilityService
	producer     EventPublisher
	logger       *zap.Logger
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(
	vehicles vehicleDomain.Repository,
	calendar calendarDomain.Repository,
	availability *AvailabilityService,
	producer EventPublisher,
	logger *zap.Logger,
) *CalendarService {
	return &CalendarService{
		vehicles:     vehicles,
		calendar:     calendar,
		availability: availability,
		producer:     producer,
		logger:       logger,
	}
}

// CreateBlock blocks a range on the host's vehicle. The overlap scan gives
// an early answer; the storage constraint decides under concurrency.
func (s *CalendarService) CreateBlock(ctx context.Context, hostID, vehicleID uuid.UUID, req CreateBlockRequest) (*BlockDTO, error) {
	r, err := daterange.New(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	reason := calendarDomain.BlockReason(req.Reason)
	if !reason.IsHostCreated() {
		return nil, domain.NewValidationError("reason must be maintenance or owner_block")
	}

	listing, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(hostID) {
		return nil, domain.NewForbiddenError("listing does not belong to this host")
	}

	available, err := s.availability.CheckAvailability(ctx, vehicleID, r)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.NewConflictError("requested date range overlaps an existing booking or block")
	}

	block, err := calendarDomain.NewHostBlock(vehicleID, r, reason)
	if err != nil {
		return nil, err
	}
	if err := s.calendar.SaveBlock(ctx, block); err != nil {
		return nil, err
	}

	s.availability.Invalidate(ctx, vehicleID)
	s.publishBlockEvent(ctx, events.CalendarBlocked, block)

	s.logger.Info("calendar block created",
		zap.String("block_id", block.ID().String()),
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("reason", string(reason)),
	)
	result := toBlockDTO(block)
	return &result, nil
}

// DeleteBlock removes a host block, releasing its range.
func (s *CalendarService) DeleteBlock(ctx context.Context, hostID, blockID uuid.UUID) error {
	block, err := s.calendar.FindBlockByID(ctx, blockID)
	if err != nil {
		return err
	}

	listing, err := s.vehicles.FindByID(ctx, block.VehicleID())
	if err != nil {
		return err
	}
	if !listing.IsOwnedBy(hostID) {
		return domain.NewForbiddenError("listing does not belong to this host")
	}

	if err := s.calendar.DeleteBlock(ctx, blockID); err != nil {
		return err
	}

	s.availability.Invalidate(ctx, block.VehicleID())
	s.publishBlockEvent(ctx, events.CalendarReleased, block)
	return nil
}

// ListBlocks returns the host-created blocks on the host's vehicle.
func (s *CalendarService) ListBlocks(ctx context.Context, hostID, vehicleID uuid.UUID) ([]BlockDTO, error) {
	listing, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(hostID) {
		return nil, domain.NewForbiddenError("listing does not belong to this host")
	}

	blocks, err := s.calendar.HostBlocks(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	dtos := make([]BlockDTO, len(blocks))
	for i, b := range blocks {
		dtos[i] = toBlockDTO(b)
	}
	return dtos, nil
}

func (s *CalendarService) publishBlockEvent(ctx context.Context, eventType string, block *calendarDomain.Block) {
	evt := events.CalendarBlockEvent{
		BlockID:    block.ID(),
		VehicleID:  block.VehicleID(),
		StartDate:  block.DateRange().Start,
		EndDate:    block.DateRange().End,
		Reason:     string(block.Reason()),
		OccurredAt: time.Now().UTC(),
	}

	ce, err := kafka.NewCloudEvent("rakb-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicCalendarEvents, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
