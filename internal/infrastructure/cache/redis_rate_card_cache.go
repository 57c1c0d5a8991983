package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appbilling "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/infrastructure/config"
)

const rateCardKeyPrefix = "wms:ratecard:"

// RedisRateCardCache caches warehouse rate cards in Redis. Rate cards are
// read on every cost calculation but change rarely, so a short TTL plus
// explicit invalidation on writes keeps them fresh enough.
type RedisRateCardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRateCardCache connects to Redis and returns the cache
func NewRedisRateCardCache(cfg config.RedisConfig) (*RedisRateCardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateCardCache{client: client, ttl: cfg.RateCardTTL}, nil
}

// NewRedisRateCardCacheWithClient wraps an existing Redis client. Useful for
// testing or when sharing a client across components.
func NewRedisRateCardCacheWithClient(client *redis.Client, ttl time.Duration) *RedisRateCardCache {
	return &RedisRateCardCache{client: client, ttl: ttl}
}

// Get returns the cached rate card, or (nil, nil) on a miss
func (c *RedisRateCardCache) Get(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error) {
	payload, err := c.client.Get(ctx, rateCardKey(warehouseID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rate card from cache: %w", err)
	}

	var card billing.RateCard
	if err := json.Unmarshal(payload, &card); err != nil {
		return nil, fmt.Errorf("failed to decode cached rate card: %w", err)
	}
	return card, nil
}

// Set stores the rate card with the configured TTL
func (c *RedisRateCardCache) Set(ctx context.Context, warehouseID uuid.UUID, card billing.RateCard) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to encode rate card: %w", err)
	}
	if err := c.client.Set(ctx, rateCardKey(warehouseID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write rate card to cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached rate card for a warehouse
func (c *RedisRateCardCache) Invalidate(ctx context.Context, warehouseID uuid.UUID) error {
	if err := c.client.Del(ctx, rateCardKey(warehouseID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rate card cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRateCardCache) Close() error {
	return c.client.Close()
}

func rateCardKey(warehouseID uuid.UUID) string {
	return rateCardKeyPrefix + warehouseID.String()
}

// Ensure RedisRateCardCache implements RateCardCache
var _ appbilling.RateCardCache = (*RedisRateCardCache)(nil)
