package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// AnomalyReasonCache is an ephemeral, TTL-backed store for anomaly reasons.
// The reason is also persisted on the order row; the cache exists so that
// tracking dashboards can read explanations cheaply without hitting the
// relational store. Cache failures degrade to the boolean flag alone and must
// never fail a sweep.
type AnomalyReasonCache interface {
	// Put stores the reason for an order, refreshing the TTL.
	Put(ctx context.Context, orderID kernel.UUID, reason order.AnomalyReason) error

	// Get returns the cached reason for an order. Returns ReasonNone without
	// error when nothing is cached.
	Get(ctx context.Context, orderID kernel.UUID) (order.AnomalyReason, error)
}
