package vehicle

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hadfi53/rakb-sub000/internal/domain"
)

// Listing is the aggregate root for a vehicle listing. Only the publication
// status gates bookability; descriptive fields matter to the state machine
// only insofar as editing a material one demotes an active listing back to
// review.
type Listing struct {
	id              uuid.UUID
	hostID          uuid.UUID
	make_           string
	model           string
	year            int
	description     string
	images          []string
	pricePerDay     decimal.Decimal
	currency        string
	location        string
	policies        string
	status          PublicationStatus
	isApproved      bool
	rejectionReason string
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// ListingAttributes carries the descriptive fields of a listing for creation
// and edits.
type ListingAttributes struct {
	Make        string
	Model       string
	Year        int
	Description string
	Images      []string
	PricePerDay decimal.Decimal
	Currency    string
	Location    string
	Policies    string
}

// NewListing creates a listing in draft for the given host.
func NewListing(hostID uuid.UUID, attrs ListingAttributes) (*Listing, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if attrs.Make == "" {
		return nil, domain.NewValidationError("vehicle make is required")
	}
	if attrs.Model == "" {
		return nil, domain.NewValidationError("vehicle model is required")
	}
	if attrs.Year < 1950 || attrs.Year > time.Now().UTC().Year()+1 {
		return nil, domain.NewValidationError("vehicle year is out of range")
	}
	if attrs.PricePerDay.IsNegative() || attrs.PricePerDay.IsZero() {
		return nil, domain.NewValidationError("price per day must be positive")
	}

	now := time.Now().UTC()
	return &Listing{
		id:          uuid.New(),
		hostID:      hostID,
		make_:       attrs.Make,
		model:       attrs.Model,
		year:        attrs.Year,
		description: attrs.Description,
		images:      attrs.Images,
		pricePerDay: attrs.PricePerDay,
		currency:    attrs.Currency,
		location:    attrs.Location,
		policies:    attrs.Policies,
		status:      StatusDraft,
		isApproved:  false,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, hostID uuid.UUID,
	attrs ListingAttributes,
	status PublicationStatus,
	isApproved bool,
	rejectionReason string,
	version int64,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:              id,
		hostID:          hostID,
		make_:           attrs.Make,
		model:           attrs.Model,
		year:            attrs.Year,
		description:     attrs.Description,
		images:          attrs.Images,
		pricePerDay:     attrs.PricePerDay,
		currency:        attrs.Currency,
		location:        attrs.Location,
		policies:        attrs.Policies,
		status:          status,
		isApproved:      isApproved,
		rejectionReason: rejectionReason,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the listing's unique identifier.
func (l *Listing) ID() uuid.UUID { return l.id }

// HostID returns the owning host's user identifier.
func (l *Listing) HostID() uuid.UUID { return l.hostID }

// Make returns the vehicle make.
func (l *Listing) Make() string { return l.make_ }

// Model returns the vehicle model.
func (l *Listing) Model() string { return l.model }

// Year returns the vehicle's model year.
func (l *Listing) Year() int { return l.year }

// Description returns the listing description.
func (l *Listing) Description() string { return l.description }

// Images returns the listing's image URLs.
func (l *Listing) Images() []string { return l.images }

// PricePerDay returns the nightly rental rate.
func (l *Listing) PricePerDay() decimal.Decimal { return l.pricePerDay }

// Currency returns the rate's currency code.
func (l *Listing) Currency() string { return l.currency }

// Location returns the pickup location.
func (l *Listing) Location() string { return l.location }

// Policies returns the host's rental policies.
func (l *Listing) Policies() string { return l.policies }

// Status returns the current publication status.
func (l *Listing) Status() PublicationStatus { return l.status }

// IsApproved reports whether the listing is currently approved.
func (l *Listing) IsApproved() bool { return l.isApproved }

// RejectionReason returns the moderator's rejection reason.
func (l *Listing) RejectionReason() string { return l.rejectionReason }

// Version returns the optimistic-locking version.
func (l *Listing) Version() int64 { return l.version }

// CreatedAt returns the creation timestamp.
func (l *Listing) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns the last-modified timestamp.
func (l *Listing) UpdatedAt() time.Time { return l.updatedAt }

// Attributes returns the descriptive fields as a value.
func (l *Listing) Attributes() ListingAttributes {
	return ListingAttributes{
		Make:        l.make_,
		Model:       l.model,
		Year:        l.year,
		Description: l.description,
		Images:      l.images,
		PricePerDay: l.pricePerDay,
		Currency:    l.currency,
		Location:    l.location,
		Policies:    l.policies,
	}
}

// IsOwnedBy checks if the listing belongs to the given host.
func (l *Listing) IsOwnedBy(hostID uuid.UUID) bool {
	return l.hostID == hostID
}

// IsBookable reports whether bookings may be created against this listing.
func (l *Listing) IsBookable() bool {
	return l.status.IsBookable()
}

// --- Behavior ---

// SubmitForReview moves a draft or rejected listing into the moderation queue.
// Host verification is checked by the caller before invoking this.
func (l *Listing) SubmitForReview() error {
	return l.transitionTo(StatusPendingReview)
}

// Approve marks a pending listing as active (moderator action).
func (l *Listing) Approve() error {
	if err := l.transitionTo(StatusActive); err != nil {
		return err
	}
	l.rejectionReason = ""
	return nil
}

// Reject declines a pending listing with a required reason (moderator action).
func (l *Listing) Reject(reason string) error {
	if reason == "" {
		return domain.NewValidationError("rejection reason is required")
	}
	if err := l.transitionTo(StatusRejected); err != nil {
		return err
	}
	l.rejectionReason = reason
	return nil
}

// Suspend takes an active listing offline (moderator action, independent of
// the review flow).
func (l *Listing) Suspend() error {
	return l.transitionTo(StatusSuspended)
}

// Reactivate restores a suspended listing to active (moderator action).
func (l *Listing) Reactivate() error {
	return l.transitionTo(StatusActive)
}

// ApplyEdit applies new attributes to the listing. A change to a material
// field (images, description, make, model, year) on an active listing
// demotes it back to pending review; price, location and policy edits never
// touch the publication status. Returns whether the edit was demoting.
func (l *Listing) ApplyEdit(attrs ListingAttributes) (demoted bool, err error) {
	material := l.isMaterialChange(attrs)

	l.make_ = attrs.Make
	l.model = attrs.Model
	l.year = attrs.Year
	l.description = attrs.Description
	l.images = attrs.Images
	l.pricePerDay = attrs.PricePerDay
	l.currency = attrs.Currency
	l.location = attrs.Location
	l.policies = attrs.Policies

	if material && l.status == StatusActive {
		if err := l.transitionTo(StatusPendingReview); err != nil {
			return false, err
		}
		return true, nil
	}

	l.touch()
	return false, nil
}

// isMaterialChange reports whether the edit touches the material field set.
func (l *Listing) isMaterialChange(attrs ListingAttributes) bool {
	if attrs.Make != l.make_ || attrs.Model != l.model || attrs.Year != l.year {
		return true
	}
	if attrs.Description != l.description {
		return true
	}
	if len(attrs.Images) != len(l.images) {
		return true
	}
	for i, img := range attrs.Images {
		if img != l.images[i] {
			return true
		}
	}
	return false
}

func (l *Listing) transitionTo(target PublicationStatus) error {
	if !l.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(l.status), string(target))
	}
	l.status = target
	l.isApproved = target == StatusActive
	l.touch()
	return nil
}

func (l *Listing) touch() {
	l.version++
	l.updatedAt = time.Now().UTC()
}
