// Package redis provides the Redis-backed anomaly reason cache. Reasons are
// stored under a per-order key with a TTL; the relational store keeps the
// durable copy, so losing the cache only costs dashboards the cheap lookup.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

// AnomalyReasonCache implements ports.AnomalyReasonCache on a Redis client.
type AnomalyReasonCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAnomalyReasonCache creates the cache. Entries expire after ttl.
func NewAnomalyReasonCache(rdb *redis.Client, ttl time.Duration) *AnomalyReasonCache {
	return &AnomalyReasonCache{rdb: rdb, ttl: ttl}
}

func key(orderID kernel.UUID) string {
	return fmt.Sprintf("anomaly:%s", orderID.String())
}

// Put stores the reason for an order, refreshing the TTL.
func (c *AnomalyReasonCache) Put(ctx context.Context, orderID kernel.UUID, reason order.AnomalyReason) error {
	if err := errors.Join(orderID.Validate(), reason.Validate()); err != nil {
		return err
	}

	return c.rdb.Set(ctx, key(orderID), string(reason), c.ttl).Err()
}

// Get returns the cached reason for an order. A missing key maps to
// ReasonNone without error.
func (c *AnomalyReasonCache) Get(ctx context.Context, orderID kernel.UUID) (order.AnomalyReason, error) {
	if err := orderID.Validate(); err != nil {
		return order.ReasonNone, err
	}

	value, err := c.rdb.Get(ctx, key(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return order.ReasonNone, nil
	}
	if err != nil {
		return order.ReasonNone, err
	}

	reason := order.AnomalyReason(value)
	if err = reason.Validate(); err != nil {
		return order.ReasonNone, err
	}

	return reason, nil
}
