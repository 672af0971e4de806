package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
	"github.com/hadfi53/rakb-sub000/internal/platform/config"
)

const (
	keyPrefix  = "availability:"
	defaultTTL = 5 * time.Minute
)

// AvailabilityCache is a redis-backed snapshot of a vehicle's occupied date
// ranges. It only serves the advisory availability check; the storage
// constraint remains the source of truth, so a stale snapshot can never
// cause a double booking, only a late "dates unavailable" answer.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient creates a redis client from config.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewAvailabilityCache creates an AvailabilityCache with the default TTL.
func NewAvailabilityCache(client *redis.Client, logger *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: defaultTTL, logger: logger}
}

// Get returns the cached occupied ranges for a vehicle, with found=false on
// miss or any redis failure.
func (c *AvailabilityCache) Get(ctx context.Context, vehicleID uuid.UUID) ([]daterange.DateRange, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+vehicleID.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var ranges []daterange.DateRange
	if err := json.Unmarshal(raw, &ranges); err != nil {
		c.logger.Warn("availability cache entry corrupt, dropping", zap.Error(err))
		_ = c.client.Del(ctx, keyPrefix+vehicleID.String()).Err()
		return nil, false
	}
	return ranges, true
}

// Set stores the occupied ranges for a vehicle. Failures are logged, never
// returned.
func (c *AvailabilityCache) Set(ctx context.Context, vehicleID uuid.UUID, ranges []daterange.DateRange) {
	raw, err := json.Marshal(ranges)
	if err != nil {
		c.logger.Warn("failed to marshal availability snapshot", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+vehicleID.String(), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", zap.Error(err))
	}
}

// Invalidate drops the snapshot for a vehicle after any occupancy-affecting
// transition.
func (c *AvailabilityCache) Invalidate(ctx context.Context, vehicleID uuid.UUID) {
	if err := c.client.Del(ctx, keyPrefix+vehicleID.String()).Err(); err != nil {
		c.logger.Warn("availability cache invalidation failed",
			zap.String("vehicle_id", vehicleID.String()),
			zap.Error(err),
		)
	}
}

// Ping checks redis connectivity at startup.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
