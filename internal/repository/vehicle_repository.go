package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HostID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	Make            string          `gorm:"not null;size:80"`
	Model           string          `gorm:"not null;size:80"`
	Year            int             `gorm:"not null"`
	Description     string          `gorm:"size:4000"`
	Images          json.RawMessage `gorm:"type:jsonb"`
	PricePerDay     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency        string          `gorm:"not null;size:3"`
	Location        string          `gorm:"size:255"`
	Policies        string          `gorm:"size:2000"`
	Status          string          `gorm:"not null;size:30;index"`
	IsApproved      bool            `gorm:"not null;default:false;index"`
	RejectionReason string          `gorm:"size:500"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of the vehicle repository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a listing by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Listing, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainListing(&model)
}

// FindByHostID retrieves all listings belonging to a host.
func (r *GormVehicleRepository) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*vehicleDomain.Listing, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find vehicles by host: %w", err)
	}

	listings := make([]*vehicleDomain.Listing, len(models))
	for i, m := range models {
		l, err := toDomainListing(&m)
		if err != nil {
			return nil, err
		}
		listings[i] = l
	}
	return listings, nil
}

// FindByStatus retrieves listings in the given publication status with
// pagination, oldest first so the moderation queue is fair.
func (r *GormVehicleRepository) FindByStatus(ctx context.Context, status vehicleDomain.PublicationStatus, page, limit int) ([]*vehicleDomain.Listing, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&VehicleModel{}).Where("status = ?", string(status)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles by status: %w", err)
	}

	var models []VehicleModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("updated_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find vehicles by status: %w", err)
	}

	listings := make([]*vehicleDomain.Listing, len(models))
	for i, m := range models {
		l, err := toDomainListing(&m)
		if err != nil {
			return nil, 0, err
		}
		listings[i] = l
	}
	return listings, total, nil
}

// Save persists a new listing.
func (r *GormVehicleRepository) Save(ctx context.Context, listing *vehicleDomain.Listing) error {
	model, err := toVehicleModel(listing)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing with optimistic locking.
func (r *GormVehicleRepository) Update(ctx context.Context, listing *vehicleDomain.Listing) error {
	model, err := toVehicleModel(listing)
	if err != nil {
		return err
	}

	expectedVersion := listing.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"make":             model.Make,
			"model":            model.Model,
			"year":             model.Year,
			"description":      model.Description,
			"images":           model.Images,
			"price_per_day":    model.PricePerDay,
			"currency":         model.Currency,
			"location":         model.Location,
			"policies":         model.Policies,
			"status":           model.Status,
			"is_approved":      model.IsApproved,
			"rejection_reason": model.RejectionReason,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewUnavailableError("vehicle was modified by another transaction, retry")
	}
	return nil
}

// --- Conversion helpers ---

func toVehicleModel(l *vehicleDomain.Listing) (*VehicleModel, error) {
	images, err := json.Marshal(l.Images())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vehicle images: %w", err)
	}
	return &VehicleModel{
		ID:              l.ID(),
		HostID:          l.HostID(),
		Make:            l.Make(),
		Model:           l.Model(),
		Year:            l.Year(),
		Description:     l.Description(),
		Images:          images,
		PricePerDay:     l.PricePerDay(),
		Currency:        l.Currency(),
		Location:        l.Location(),
		Policies:        l.Policies(),
		Status:          string(l.Status()),
		IsApproved:      l.IsApproved(),
		RejectionReason: l.RejectionReason(),
		Version:         l.Version(),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}, nil
}

func toDomainListing(m *VehicleModel) (*vehicleDomain.Listing, error) {
	status, err := vehicleDomain.ParsePublicationStatus(m.Status)
	if err != nil {
		return nil, err
	}

	var images []string
	if len(m.Images) > 0 {
		if err := json.Unmarshal(m.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vehicle images: %w", err)
		}
	}

	return vehicleDomain.Reconstruct(
		m.ID,
		m.HostID,
		vehicleDomain.ListingAttributes{
			Make:        m.Make,
			Model:       m.Model,
			Year:        m.Year,
			Description: m.Description,
			Images:      images,
			PricePerDay: m.PricePerDay,
			Currency:    m.Currency,
			Location:    m.Location,
			Policies:    m.Policies,
		},
		status,
		m.IsApproved,
		m.RejectionReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
