package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	id "pensionledger/pkg/domain"
)

// RedisTotalsCache caches per-retiree payment totals. The benefit service
// invalidates the key on every recorded payment, so a hit is always the
// exact sum; the TTL only bounds staleness if an invalidation is lost.
type RedisTotalsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTotalsCache(client *redis.Client, ttl time.Duration) *RedisTotalsCache {
	return &RedisTotalsCache{client: client, ttl: ttl}
}

func totalsKey(retireeID id.RetireeID) string {
	return "benefit:totals:" + retireeID.String()
}

func (c *RedisTotalsCache) GetTotal(ctx context.Context, retireeID id.RetireeID) (uint64, bool, error) {
	raw, err := c.client.Get(ctx, totalsKey(retireeID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read totals cache: %w", err)
	}
	total, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		// Corrupt entry; treat as a miss so the store recomputes it.
		return 0, false, nil
	}
	return total, true, nil
}

func (c *RedisTotalsCache) SetTotal(ctx context.Context, retireeID id.RetireeID, total uint64) error {
	if err := c.client.Set(ctx, totalsKey(retireeID), strconv.FormatUint(total, 10), c.ttl).Err(); err != nil {
		return fmt.Errorf("write totals cache: %w", err)
	}
	return nil
}

func (c *RedisTotalsCache) Invalidate(ctx context.Context, retireeID id.RetireeID) error {
	if err := c.client.Del(ctx, totalsKey(retireeID)).Err(); err != nil {
		return fmt.Errorf("invalidate totals cache: %w", err)
	}
	return nil
}
