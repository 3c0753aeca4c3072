package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrShipOrderCommandIsNotConstructed = errors.New(
		"ShipOrderCommand must be created via NewShipOrderCommand constructor",
	)
	ErrRoutePathIsRequired = errors.New("route path must contain at least one point")
)

// ShipOrderCommand represents a request to move a pending order into shipping.
// Carries the dispatch rule that governs simulated movement and the route the
// simulated courier will follow.
type ShipOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	ruleID    int
	routePath []kernel.Coordinate

	guard guard.ConstructorGuard
}

// NewShipOrderCommand creates a command to ship a pending order.
// Validates the order ID, a positive rule ID and a non-empty route of valid
// coordinates.
func NewShipOrderCommand(orderID kernel.UUID, ruleID int, routePath []kernel.Coordinate) (ShipOrderCommand, error) {
	cmd := ShipOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRuleID(ruleID),
		cmd.setRoutePath(routePath),
	); err != nil {
		return ShipOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ShipOrderCommand) Validate() error {
	return c.guard.Validate(ErrShipOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to ship.
func (c ShipOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RuleID returns the dispatch rule governing the simulated movement.
func (c ShipOrderCommand) RuleID() int {
	return c.ruleID
}

// RoutePath returns a copy of the route the simulated courier will follow.
func (c ShipOrderCommand) RoutePath() []kernel.Coordinate {
	return append([]kernel.Coordinate(nil), c.routePath...)
}

func (c *ShipOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ShipOrderCommand) setRuleID(ruleID int) error {
	if ruleID <= 0 {
		return errs.NewValueIsInvalidError("ruleID")
	}

	c.ruleID = ruleID
	return nil
}

func (c *ShipOrderCommand) setRoutePath(routePath []kernel.Coordinate) error {
	if len(routePath) == 0 {
		return ErrRoutePathIsRequired
	}

	for i, p := range routePath {
		if err := p.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("routePath[%d]", i), err)
		}
	}

	c.routePath = append([]kernel.Coordinate(nil), routePath...)
	return nil
}
