package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrTryAutoArriveCommandIsNotConstructed = errors.New(
	"TryAutoArriveCommand must be created via NewTryAutoArriveCommand constructor",
)

// TryAutoArriveCommand represents an arrival probe for a shipping order.
// The simulator issues one after every recorded position.
type TryAutoArriveCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	thresholdMeters float64

	guard guard.ConstructorGuard
}

// NewTryAutoArriveCommand creates a command to probe whether the order's
// position is close enough to the recipient to arrive.
func NewTryAutoArriveCommand(orderID kernel.UUID, thresholdMeters float64) (TryAutoArriveCommand, error) {
	cmd := TryAutoArriveCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setThresholdMeters(thresholdMeters),
	); err != nil {
		return TryAutoArriveCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TryAutoArriveCommand) Validate() error {
	return c.guard.Validate(ErrTryAutoArriveCommandIsNotConstructed)
}

// OrderID returns the identifier of the probed order.
func (c TryAutoArriveCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ThresholdMeters returns the arrival distance threshold in meters.
func (c TryAutoArriveCommand) ThresholdMeters() float64 {
	return c.thresholdMeters
}

func (c *TryAutoArriveCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TryAutoArriveCommand) setThresholdMeters(thresholdMeters float64) error {
	if thresholdMeters <= 0 {
		return errs.NewValueIsInvalidError("thresholdMeters")
	}

	c.thresholdMeters = thresholdMeters
	return nil
}
