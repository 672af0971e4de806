package vehicle

import "fmt"

// PublicationStatus represents the moderation state of a vehicle listing,
// independent of booking activity.
type PublicationStatus string

const (
	StatusDraft         PublicationStatus = "draft"
	StatusPendingReview PublicationStatus = "pending_review"
	StatusActive        PublicationStatus = "active"
	StatusRejected      PublicationStatus = "rejected"
	StatusSuspended     PublicationStatus = "suspended"
)

// validTransitions defines the publication state machine. No state is truly
// terminal: rejected listings can be re-submitted and suspended ones
// re-activated.
var validTransitions = map[PublicationStatus][]PublicationStatus{
	StatusDraft:         {StatusPendingReview},
	StatusPendingReview: {StatusActive, StatusRejected},
	StatusActive:        {StatusPendingReview, StatusSuspended},
	StatusRejected:      {StatusPendingReview},
	StatusSuspended:     {StatusActive},
}

// IsValid returns true if the status is a recognized publication status.
func (s PublicationStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s PublicationStatus) CanTransitionTo(target PublicationStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsBookable returns true if bookings may be created against a listing in
// this status. This predicate is the sole gate the reservation engine
// consults.
func (s PublicationStatus) IsBookable() bool {
	return s == StatusActive
}

// String returns the string representation of the status.
func (s PublicationStatus) String() string {
	return string(s)
}

// ParsePublicationStatus converts a string to a PublicationStatus, returning
// an error if invalid.
func ParsePublicationStatus(s string) (PublicationStatus, error) {
	status := PublicationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid publication status: %s", s)
	}
	return status, nil
}
