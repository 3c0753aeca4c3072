package ports

import (
	"dispatch/internal/core/domain/model/kernel"
)

// OrderTracker starts and stops simulated movement for shipping orders.
//
// Track is idempotent per order: a second call for an order that is already
// tracked is a no-op, so the ship handler and the periodic reconciliation can
// both request tracking without spawning duplicate tasks.
type OrderTracker interface {
	// Track begins advancing the order along routePath at the cadence of the
	// given dispatch rule, starting from startIndex.
	Track(orderID kernel.UUID, ruleID int, routePath []kernel.Coordinate, startIndex int)

	// Untrack stops the order's movement task if one is running.
	Untrack(orderID kernel.UUID)
}
