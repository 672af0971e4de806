package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	"github.com/hadfi53/rakb-sub000/internal/domain/verification"
)

// VerificationService maintains per-user verification profiles from
// document-approval events and answers flag queries for the rest of the
// service. It implements HostVerifier for the publication state machine.
type VerificationService struct {
	profiles verification.ProfileRepository
	logger   *zap.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(profiles verification.ProfileRepository, logger *zap.Logger) *VerificationService {
	return &VerificationService{profiles: profiles, logger: logger}
}

// HandleDocumentApproved records the approval and re-evaluates the rule
// table for the user. Safe to replay: recording is idempotent and flags
// only ever go from unset to set here.
func (s *VerificationService) HandleDocumentApproved(ctx context.Context, userID uuid.UUID, docTypeRaw string) error {
	docType, err := verification.ParseDocumentType(docTypeRaw)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}

	if err := s.profiles.RecordApprovedDocument(ctx, userID, docType); err != nil {
		return err
	}

	// Skip rule evaluation when the document cannot complete any rule.
	if len(verification.RelevantRules(docType)) == 0 {
		return nil
	}

	approved, err := s.profiles.ApprovedDocumentTypes(ctx, userID)
	if err != nil {
		return err
	}
	flags := verification.Evaluate(approved)
	if len(flags) == 0 {
		return nil
	}

	profile, created, err := s.findOrCreateProfile(ctx, userID)
	if err != nil {
		return err
	}

	changed := false
	for _, flag := range flags {
		if !profile.HasFlag(flag) {
			profile.SetFlag(flag)
			changed = true
			s.logger.Info("verification flag raised",
				zap.String("user_id", userID.String()),
				zap.String("flag", string(flag)),
			)
		}
	}
	if !changed {
		return nil
	}

	if created {
		return s.profiles.Save(ctx, profile)
	}
	return s.profiles.Update(ctx, profile)
}

// IsVerifiedHost reports whether the user holds the verified-host flag. A
// missing profile means not verified, not an error.
func (s *VerificationService) IsVerifiedHost(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return profile.VerifiedHost(), nil
}

// GetProfile returns the verification profile for a user, an unverified
// zero profile if none exists yet.
func (s *VerificationService) GetProfile(ctx context.Context, userID uuid.UUID) (*verification.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeNotFound {
			return verification.NewProfile(userID), nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *VerificationService) findOrCreateProfile(ctx context.Context, userID uuid.UUID) (*verification.Profile, bool, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err == nil {
		return profile, false, nil
	}
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Code == domain.CodeNotFound {
		return verification.NewProfile(userID), true, nil
	}
	return nil, false, err
}
