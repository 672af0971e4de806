package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	calendarDomain "github.com/hadfi53/rakb-sub000/internal/domain/calendar"
	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

// RangeCache is a snapshot cache of a vehicle's occupied ranges. A nil cache
// disables caching entirely.
type RangeCache interface {
	Get(ctx context.Context, vehicleID uuid.UUID) ([]daterange.DateRange, bool)
	Set(ctx context.Context, vehicleID uuid.UUID, ranges []daterange.DateRange)
	Invalidate(ctx context.Context, vehicleID uuid.UUID)
}

// AvailabilityService answers whether a requested range is free for a
// vehicle. The answer is advisory: it exists for fast user-facing feedback,
// and the storage layer's exclusion constraint remains the only correctness
// mechanism under concurrency.
type AvailabilityService struct {
	calendar calendarDomain.Repository
	cache    RangeCache
	logger   *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService. cache may be nil.
func NewAvailabilityService(calendar calendarDomain.Repository, cache RangeCache, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{calendar: calendar, cache: cache, logger: logger}
}

// CheckAvailability returns true iff no occupied range overlaps the
// requested one.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, r daterange.DateRange) (bool, error) {
	occupied, err := s.OccupiedRanges(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	for _, o := range occupied {
		if o.Overlaps(r) {
			return false, nil
		}
	}
	return true, nil
}

// OccupiedRanges returns the occupied ranges for a vehicle, sorted by start
// date, reading through the cache when present.
func (s *AvailabilityService) OccupiedRanges(ctx context.Context, vehicleID uuid.UUID) ([]daterange.DateRange, error) {
	if s.cache != nil {
		if ranges, ok := s.cache.Get(ctx, vehicleID); ok {
			return ranges, nil
		}
	}

	blocks, err := s.calendar.OccupiedRanges(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupied ranges: %w", err)
	}

	ranges := make([]daterange.DateRange, len(blocks))
	for i, b := range blocks {
		ranges[i] = b.DateRange()
	}

	if s.cache != nil {
		s.cache.Set(ctx, vehicleID, ranges)
	}
	return ranges, nil
}

// Invalidate drops the cached snapshot after an occupancy-affecting
// transition. Best-effort: a stale snapshot only delays the advisory answer.
func (s *AvailabilityService) Invalidate(ctx context.Context, vehicleID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, vehicleID)
	s.logger.Debug("availability snapshot invalidated", zap.String("vehicle_id", vehicleID.String()))
}
