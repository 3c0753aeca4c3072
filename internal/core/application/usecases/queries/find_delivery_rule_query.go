package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrFindDeliveryRuleQueryIsNotConstructed = errors.New(
	"FindDeliveryRuleQuery must be created via NewFindDeliveryRuleQuery constructor",
)

// FindDeliveryRuleQuery checks whether a coordinate is deliverable and which
// dispatch rule would govern it, without creating an order.
//
// Example:
//
//	point, _ := kernel.NewCoordinate(120.301, 30.301)
//	query, _ := NewFindDeliveryRuleQuery(point)
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if !resp.Deliverable {
//	    fmt.Println("outside every delivery zone")
//	}
type FindDeliveryRuleQuery struct { //nolint:recvcheck //using for validation
	point kernel.Coordinate

	guard guard.ConstructorGuard
}

// NewFindDeliveryRuleQuery creates a query for the given coordinate.
func NewFindDeliveryRuleQuery(point kernel.Coordinate) (FindDeliveryRuleQuery, error) {
	q := FindDeliveryRuleQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setPoint(point); err != nil {
		return FindDeliveryRuleQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q FindDeliveryRuleQuery) Validate() error {
	return q.guard.Validate(ErrFindDeliveryRuleQueryIsNotConstructed)
}

// Point returns the probed coordinate.
func (q FindDeliveryRuleQuery) Point() kernel.Coordinate {
	return q.point
}

func (q *FindDeliveryRuleQuery) setPoint(point kernel.Coordinate) error {
	if err := point.Validate(); err != nil {
		return err
	}

	q.point = point
	return nil
}

// FindDeliveryRuleQueryResponse reports the zone match for a coordinate.
// RuleID and ZoneID are zero values when Deliverable is false.
type FindDeliveryRuleQueryResponse struct {
	Deliverable bool
	RuleID      int
	ZoneID      kernel.UUID
}
