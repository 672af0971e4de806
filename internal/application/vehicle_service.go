package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/events"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// HostVerifier answers whether a user holds the verified-host flag. Backed
// by the verification service; the publication state machine consults
// nothing else about documents.
type HostVerifier interface {
	IsVerifiedHost(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ListingRequest holds the descriptive fields for creating or editing a
// listing.
type ListingRequest struct {
	Make        string          `json:"make" binding:"required"`
	Model       string          `json:"model" binding:"required"`
	Year        int             `json:"year" binding:"required"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	PricePerDay decimal.Decimal `json:"price_per_day" binding:"required"`
	Currency    string          `json:"currency"`
	Location    string          `json:"location"`
	Policies    string          `json:"policies"`
}

func (r ListingRequest) attributes() vehicleDomain.ListingAttributes {
	currency := r.Currency
	if currency == "" {
		currency = "EUR"
	}
	return vehicleDomain.ListingAttributes{
		Make:        r.Make,
		Model:       r.Model,
		Year:        r.Year,
		Description: r.Description,
		Images:      r.Images,
		PricePerDay: r.PricePerDay,
		Currency:    currency,
		Location:    r.Location,
		Policies:    r.Policies,
	}
}

// VehicleService owns the publication lifecycle of vehicle listings.
type VehicleService struct {
	vehicles vehicleDomain.Repository
	verifier HostVerifier
	producer EventPublisher
	logger   *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(
	vehicles vehicleDomain.Repository,
	verifier HostVerifier,
	producer EventPublisher,
	logger *zap.Logger,
) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		verifier: verifier,
		producer: producer,
		logger:   logger,
	}
}

// CreateListing creates a draft listing for the host.
func (s *VehicleService) CreateListing(ctx context.Context, hostID uuid.UUID, req ListingRequest) (*VehicleDTO, error) {
	listing, err := vehicleDomain.NewListing(hostID, req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.vehicles.Save(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("listing created",
		zap.String("vehicle_id", listing.ID().String()),
		zap.String("host_id", hostID.String()),
	)
	result := toVehicleDTO(listing)
	return &result, nil
}

// UpdateListing applies an edit. Material edits on an active listing demote
// it back to pending review; minor edits keep the status untouched.
func (s *VehicleService) UpdateListing(ctx context.Context, hostID, vehicleID uuid.UUID, req ListingRequest) (*VehicleDTO, error) {
	listing, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(hostID) {
		return nil, domain.NewForbiddenError("listing does not belong to this host")
	}

	fromStatus := listing.Status()
	demoted, err := listing.ApplyEdit(req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.vehicles.Update(ctx, listing); err != nil {
		return nil, err
	}

	if demoted {
		s.publishVehicleEvent(ctx, events.VehicleDemoted, listing, fromStatus, "material edit")
	}

	result := toVehicleDTO(listing)
	return &result, nil
}

// SubmitForReview queues a listing for moderation. Requires the host to be
// verified (gate supplied by the document collaborator).
func (s *VehicleService) SubmitForReview(ctx context.Context, hostID, vehicleID uuid.UUID) (*VehicleDTO, error) {
	listing, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(hostID) {
		return nil, domain.NewForbiddenError("listing does not belong to this host")
	}

	verified, err := s.verifier.IsVerifiedHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, domain.NewForbiddenError("host must complete verification before submitting a listing")
	}

	fromStatus := listing.Status()
	if err := listing.SubmitForReview(); err != nil {
		return nil, err
	}
	if err := s.vehicles.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.publishVehicleEvent(ctx, events.VehicleSubmitted, listing, fromStatus, "")

	result := toVehicleDTO(listing)
	return &result, nil
}

// Approve activates a pending listing (moderator action).
func (s *VehicleService) Approve(ctx context.Context, vehicleID uuid.UUID) (*VehicleDTO, error) {
	return s.moderate(ctx, vehicleID, events.VehicleApproved, "", (*vehicleDomain.Listing).Approve)
}

// Reject declines a pending listing with the given reason (moderator action).
func (s *VehicleService) Reject(ctx context.Context, vehicleID uuid.UUID, reason string) (*VehicleDTO, error) {
	return s.moderate(ctx, vehicleID, events.VehicleRejected, reason, func(l *vehicleDomain.Listing) error {
		return l.Reject(reason)
	})
}

// Suspend takes an active listing offline (moderator action).
func (s *VehicleService) Suspend(ctx context.Context, vehicleID uuid.UUID) (*VehicleDTO, error) {
	return s.moderate(ctx, vehicleID, events.VehicleSuspended, "", (*vehicleDomain.Listing).Suspend)
}

// Reactivate restores a suspended listing (moderator action).
func (s *VehicleService) Reactivate(ctx context.Context, vehicleID uuid.UUID) (*VehicleDTO, error) {
	return s.moderate(ctx, vehicleID, events.VehicleReactivated, "", (*vehicleDomain.Listing).Reactivate)
}

func (s *VehicleService) moderate(
	ctx context.Context,
	vehicleID uuid.UUID,
	eventType, reason string,
	transition func(*vehicleDomain.Listing) error,
) (*VehicleDTO, error) {
	listing, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	fromStatus := listing.Status()
	if err := transition(listing); err != nil {
		return nil, err
	}
	if err := s.vehicles.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.publishVehicleEvent(ctx, eventType, listing, fromStatus, reason)

	result := toVehicleDTO(listing)
	return &result, nil
}

// GetListing retrieves a listing by id.
func (s *VehicleService) GetListing(ctx context.Context, vehicleID uuid.UUID) (*VehicleDTO, error) {
	listing, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	result := toVehicleDTO(listing)
	return &result, nil
}

// GetHostListings retrieves all listings belonging to a host.
func (s *VehicleService) GetHostListings(ctx context.Context, hostID uuid.UUID) ([]VehicleDTO, error) {
	listings, err := s.vehicles.FindByHostID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	dtos := make([]VehicleDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toVehicleDTO(l)
	}
	return dtos, nil
}

// ListPendingReview returns the moderation queue: a filtered query over the
// durable store, safe under concurrent admin sessions.
func (s *VehicleService) ListPendingReview(ctx context.Context, page, limit int) ([]VehicleDTO, int64, error) {
	listings, total, err := s.vehicles.FindByStatus(ctx, vehicleDomain.StatusPendingReview, page, limit)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]VehicleDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toVehicleDTO(l)
	}
	return dtos, total, nil
}

// publishVehicleEvent emits a status event so dependent read models (search
// index, caches) can refresh. Delivery failure never rolls back the
// transition.
func (s *VehicleService) publishVehicleEvent(
	ctx context.Context,
	eventType string,
	listing *vehicleDomain.Listing,
	fromStatus vehicleDomain.PublicationStatus,
	reason string,
) {
	evt := events.VehicleStatusEvent{
		VehicleID:  listing.ID(),
		HostID:     listing.HostID(),
		FromStatus: string(fromStatus),
		ToStatus:   string(listing.Status()),
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}

	ce, err := kafka.NewCloudEvent("rakb-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicVehicleEvents, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
