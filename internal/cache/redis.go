package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/softdevglobal/bms-pro-sub000/config"
	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// RedisCache keeps per-owner booking snapshots so that list, palette and
// summary requests do not hit the booking API every time.
type RedisCache struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, snapshotTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		snapshotTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, snapshotTTL: snapshotTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetSnapshot returns nil, nil on a cache miss.
func (c *RedisCache) GetSnapshot(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	data, err := c.client.Get(ctx, snapshotKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

func (c *RedisCache) SetSnapshot(ctx context.Context, ownerID string, bookings []domain.Booking) error {
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	payload, err := json.Marshal(bookings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(ownerID), payload, c.snapshotTTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, snapshotKey(ownerID)).Err()
}

// AcquireWarmLock makes sure only one worker replica refreshes an owner's
// snapshot per interval.
func (c *RedisCache) AcquireWarmLock(ctx context.Context, ownerID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, warmLockKey(ownerID), "locked", ttl).Result()
}

func snapshotKey(ownerID string) string {
	return fmt.Sprintf("cache:bookings:owner:%s", ownerID)
}

func warmLockKey(ownerID string) string {
	return fmt.Sprintf("lock:bookings:owner:%s:warm", ownerID)
}
