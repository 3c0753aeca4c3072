package ports

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// EventPublisher fans tracking events out to the live subscribers of an order.
//
// Publishing never returns an error: delivery failures to individual
// subscribers are isolated and handled inside the implementation (a broken
// subscriber is dropped, not retried) and must never escalate to the
// publisher. Events for one order are delivered to each subscriber in publish
// order.
type EventPublisher interface {
	// PublishPosition delivers a position update for the order.
	PublishPosition(orderID kernel.UUID, position kernel.Coordinate, at time.Time)

	// PublishStatus delivers a status-change notification for the order.
	PublishStatus(orderID kernel.UUID, status order.Status, message string)
}
