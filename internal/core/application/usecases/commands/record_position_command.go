package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRecordPositionCommandIsNotConstructed = errors.New(
	"RecordPositionCommand must be created via NewRecordPositionCommand constructor",
)

// RecordPositionCommand represents a position sample for a shipping order.
// Issued by the movement simulator on every tick.
type RecordPositionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	position kernel.Coordinate
	at       time.Time

	guard guard.ConstructorGuard
}

// NewRecordPositionCommand creates a command to record the order's position.
func NewRecordPositionCommand(orderID kernel.UUID, position kernel.Coordinate, at time.Time) (RecordPositionCommand, error) {
	cmd := RecordPositionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPosition(position),
		cmd.setAt(at),
	); err != nil {
		return RecordPositionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPositionCommand) Validate() error {
	return c.guard.Validate(ErrRecordPositionCommandIsNotConstructed)
}

// OrderID returns the identifier of the tracked order.
func (c RecordPositionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Position returns the sampled coordinate.
func (c RecordPositionCommand) Position() kernel.Coordinate {
	return c.position
}

// At returns the sample timestamp.
func (c RecordPositionCommand) At() time.Time {
	return c.at
}

func (c *RecordPositionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordPositionCommand) setPosition(position kernel.Coordinate) error {
	if err := position.Validate(); err != nil {
		return err
	}

	c.position = position
	return nil
}

func (c *RecordPositionCommand) setAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("at")
	}

	c.at = at
	return nil
}
