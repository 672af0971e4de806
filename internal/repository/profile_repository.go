package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	"github.com/hadfi53/rakb-sub000/internal/domain/verification"
)

const pgUniqueViolation = "23505"

// ProfileModel is the GORM model for verification profiles.
type ProfileModel struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	VerifiedRenter bool      `gorm:"not null;default:false"`
	VerifiedHost   bool      `gorm:"not null;default:false"`
	Version        int64     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ProfileModel) TableName() string {
	return "profiles"
}

// ApprovedDocumentModel records a document type approved for a user. The
// document files themselves live with the document collaborator; only the
// approval fact is needed here for rule evaluation.
type ApprovedDocumentModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index:idx_approved_docs_user_type,unique;not null"`
	DocumentType string    `gorm:"index:idx_approved_docs_user_type,unique;not null;size:40"`
	ApprovedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ApprovedDocumentModel) TableName() string {
	return "approved_documents"
}

// GormProfileRepository is the GORM-based implementation of the profile repository.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository.
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByUserID retrieves a verification profile.
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*verification.Profile, error) {
	var model ProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Profile", userID.String())
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return verification.ReconstructProfile(
		model.UserID, model.VerifiedRenter, model.VerifiedHost,
		model.Version, model.CreatedAt, model.UpdatedAt,
	), nil
}

// ApprovedDocumentTypes returns the document types approved for a user.
func (r *GormProfileRepository) ApprovedDocumentTypes(ctx context.Context, userID uuid.UUID) ([]verification.DocumentType, error) {
	var rows []ApprovedDocumentModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load approved documents: %w", err)
	}

	types := make([]verification.DocumentType, 0, len(rows))
	for _, row := range rows {
		t, err := verification.ParseDocumentType(row.DocumentType)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// RecordApprovedDocument stores an approval fact; re-approvals of the same
// type are idempotent.
func (r *GormProfileRepository) RecordApprovedDocument(ctx context.Context, userID uuid.UUID, docType verification.DocumentType) error {
	row := ApprovedDocumentModel{
		ID:           uuid.New(),
		UserID:       userID,
		DocumentType: string(docType),
		ApprovedAt:   time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("failed to record approved document: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether the error is a Postgres unique index
// violation. The raw SQLSTATE is matched alongside gorm's translated error so
// the check holds with or without TranslateError on the session.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Save persists a new profile.
func (r *GormProfileRepository) Save(ctx context.Context, p *verification.Profile) error {
	model := ProfileModel{
		UserID:         p.UserID(),
		VerifiedRenter: p.VerifiedRenter(),
		VerifiedHost:   p.VerifiedHost(),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Update persists profile changes with optimistic locking.
func (r *GormProfileRepository) Update(ctx context.Context, p *verification.Profile) error {
	expectedVersion := p.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ProfileModel{}).
		Where("user_id = ? AND version = ?", p.UserID(), expectedVersion).
		Updates(map[string]interface{}{
			"verified_renter": p.VerifiedRenter(),
			"verified_host":   p.VerifiedHost(),
			"version":         p.Version(),
			"updated_at":      p.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewUnavailableError("profile was modified by another transaction, retry")
	}
	return nil
}
