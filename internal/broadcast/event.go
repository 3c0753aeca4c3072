// Package broadcast fans live tracking events out to order subscribers.
//
// Each order carries its own monotonically increasing sequence counter;
// subscribers of one order receive its events in publish order. A failing
// subscriber is dropped without disturbing the others. The package also ships
// a client-side ReorderBuffer for consumers that receive events over a
// transport that may reorder them.
package broadcast

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventType discriminates the payload carried by an Event.
type EventType string

const (
	// EventTypePosition is a position sample for a shipping order.
	EventTypePosition EventType = "position"

	// EventTypeStatus is a status-change notification.
	EventTypeStatus EventType = "status"
)

// Position is a wire-friendly coordinate pair.
type Position struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Event is one tracking notification for an order.
//
// Sequence is assigned per order at publish time and increases by one per
// event, so consumers can detect gaps and reordering.
type Event struct {
	OrderID  string    `json:"orderId"`
	Sequence uint64    `json:"sequence"`
	Type     EventType `json:"type"`
	Status   string    `json:"status,omitempty"`
	Message  string    `json:"message,omitempty"`
	Position *Position `json:"position,omitempty"`
	At       time.Time `json:"at"`
}

func newPositionEvent(orderID kernel.UUID, seq uint64, position kernel.Coordinate, at time.Time) Event {
	return Event{
		OrderID:  orderID.String(),
		Sequence: seq,
		Type:     EventTypePosition,
		Position: &Position{Lon: position.Lon(), Lat: position.Lat()},
		At:       at,
	}
}

func newStatusEvent(orderID kernel.UUID, seq uint64, status string, message string, at time.Time) Event {
	return Event{
		OrderID:  orderID.String(),
		Sequence: seq,
		Type:     EventTypeStatus,
		Status:   status,
		Message:  message,
		At:       at,
	}
}
