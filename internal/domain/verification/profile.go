package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the slim per-user verification record consulted by the rest of
// the platform. The only gate this service exposes to the publication state
// machine is the verified-host boolean.
type Profile struct {
	userID         uuid.UUID
	verifiedRenter bool
	verifiedHost   bool
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewProfile creates an unverified profile for a user.
func NewProfile(userID uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{userID: userID, version: 1, createdAt: now, updatedAt: now}
}

// ReconstructProfile rebuilds a Profile from persistence data.
func ReconstructProfile(userID uuid.UUID, verifiedRenter, verifiedHost bool, version int64, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		userID:         userID,
		verifiedRenter: verifiedRenter,
		verifiedHost:   verifiedHost,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Getters.
func (p *Profile) UserID() uuid.UUID    { return p.userID }
func (p *Profile) VerifiedRenter() bool { return p.verifiedRenter }
func (p *Profile) VerifiedHost() bool   { return p.verifiedHost }
func (p *Profile) Version() int64       { return p.version }
func (p *Profile) CreatedAt() time.Time { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// SetFlag raises a verification flag. Flags are only ever set by rule
// evaluation; revocation is an admin concern outside this core.
func (p *Profile) SetFlag(flag ProfileFlag) {
	switch flag {
	case FlagVerifiedRenter:
		p.verifiedRenter = true
	case FlagVerifiedHost:
		p.verifiedHost = true
	}
	p.version++
	p.updatedAt = time.Now().UTC()
}

// HasFlag reports whether the given flag is set.
func (p *Profile) HasFlag(flag ProfileFlag) bool {
	switch flag {
	case FlagVerifiedRenter:
		return p.verifiedRenter
	case FlagVerifiedHost:
		return p.verifiedHost
	}
	return false
}

// ProfileRepository defines persistence for verification profiles.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// ApprovedDocumentTypes returns the set of document types with an
	// approved document on file for the user.
	ApprovedDocumentTypes(ctx context.Context, userID uuid.UUID) ([]DocumentType, error)

	// RecordApprovedDocument stores an approval fact. Recording the same
	// document type twice for a user is a no-op.
	RecordApprovedDocument(ctx context.Context, userID uuid.UUID, docType DocumentType) error

	Save(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}
