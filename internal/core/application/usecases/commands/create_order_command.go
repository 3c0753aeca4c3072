package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to create a new delivery order.
// The recipient coordinate is validated against the delivery zones by the
// handler; creation is rejected when no zone covers it.
//
// Example:
//
//	recipient, _ := kernel.NewCoordinate(120.301, 30.301)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), merchantID, userID,
//	    2500, "A. Customer", "1 Harbor Rd", recipient)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	merchantID       kernel.UUID
	userID           kernel.UUID
	amount           int64
	recipientName    string
	recipientAddress string
	recipient        kernel.Coordinate

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates identifiers, a positive amount, non-empty recipient facts and a
// properly constructed recipient coordinate.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	merchantID kernel.UUID,
	userID kernel.UUID,
	amount int64,
	recipientName string,
	recipientAddress string,
	recipient kernel.Coordinate,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMerchantID(merchantID),
		cmd.setUserID(userID),
		cmd.setAmount(amount),
		cmd.setRecipientName(recipientName),
		cmd.setRecipientAddress(recipientAddress),
		cmd.setRecipient(recipient),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier assigned to the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// MerchantID returns the fulfilling merchant's identifier.
func (c CreateOrderCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

// UserID returns the ordering user's identifier.
func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Amount returns the order amount in minor currency units.
func (c CreateOrderCommand) Amount() int64 {
	return c.amount
}

// RecipientName returns the recipient's name.
func (c CreateOrderCommand) RecipientName() string {
	return c.recipientName
}

// RecipientAddress returns the recipient's street address.
func (c CreateOrderCommand) RecipientAddress() string {
	return c.recipientAddress
}

// Recipient returns the recipient's coordinate.
func (c CreateOrderCommand) Recipient() kernel.Coordinate {
	return c.recipient
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.merchantID = id
	return nil
}

func (c *CreateOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *CreateOrderCommand) setAmount(amount int64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}
	c.amount = amount
	return nil
}

func (c *CreateOrderCommand) setRecipientName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	c.recipientName = name
	return nil
}

func (c *CreateOrderCommand) setRecipientAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("recipientAddress")
	}
	c.recipientAddress = address
	return nil
}

func (c *CreateOrderCommand) setRecipient(recipient kernel.Coordinate) error {
	if err := recipient.Validate(); err != nil {
		return err
	}
	c.recipient = recipient
	return nil
}
