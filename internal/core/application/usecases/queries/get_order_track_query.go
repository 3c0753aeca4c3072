package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderTrackQueryIsNotConstructed = errors.New(
	"GetOrderTrackQuery must be created via NewGetOrderTrackQuery constructor",
)

// GetOrderTrackQuery retrieves the tracking view of a single order: status,
// current position, planned route and the traveled prefix of that route.
type GetOrderTrackQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTrackQuery creates a query for the given order.
func NewGetOrderTrackQuery(orderID kernel.UUID) (GetOrderTrackQuery, error) {
	q := GetOrderTrackQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setOrderID(orderID); err != nil {
		return GetOrderTrackQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackQueryIsNotConstructed)
}

// OrderID returns the identifier of the tracked order.
func (q GetOrderTrackQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderTrackQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderTrackQueryResponse is the tracking view of one order.
//
// TraveledPath is derived on read from the route and the current position; it
// is never stored. CurrentPosition and LastUpdateTime are nil until the first
// position sample lands.
type GetOrderTrackQueryResponse struct {
	OrderID         kernel.UUID
	Status          string
	Recipient       kernel.Coordinate
	RoutePath       []kernel.Coordinate
	TraveledPath    []kernel.Coordinate
	CurrentPosition *kernel.Coordinate
	LastUpdateTime  *time.Time
	IsAbnormal      bool
	AbnormalReason  string
}
