package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Every status mutation is a conditional single-statement update: the
// predicate embeds the expected prior status so that two concurrent callers
// racing on the same order can only have one succeed. Zero rows affected is a
// normal, non-exceptional outcome reported through the boolean return; callers
// treat it as control flow, never as a storage failure.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateIfStatus persists the aggregate's mutable fields only when the
	// persisted status still equals expected. Returns false without error
	// when the precondition no longer holds (the row moved on).
	UpdateIfStatus(ctx context.Context, aggregate *order.Order, expected order.Status) (bool, error)

	// UpdatePosition writes the current position and last update timestamp
	// without touching the status. Returns false when the order does not
	// exist; missing orders are a normal termination signal for the caller.
	UpdatePosition(ctx context.Context, id kernel.UUID, position kernel.Coordinate, at time.Time) (bool, error)

	// MarkAbnormal sets the abnormal flag and reason only when the order is
	// not already flagged. Returns false when the flag was already set, which
	// keeps sweep checks from double-firing on one order.
	MarkAbnormal(ctx context.Context, id kernel.UUID, reason order.AnomalyReason) (bool, error)

	// GetAllInStatus retrieves all orders currently in the given status,
	// ordered by creation time.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetUnflaggedInStatus retrieves orders in the given status that have not
	// been flagged abnormal. Used by the anomaly sweep.
	GetUnflaggedInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
