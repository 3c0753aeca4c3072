package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateZoneCommandIsNotConstructed = errors.New(
	"CreateZoneCommand must be created via NewCreateZoneCommand constructor",
)

// CreateZoneCommand represents a merchant's request to create a delivery zone.
type CreateZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID      kernel.UUID
	merchantID  kernel.UUID
	name        string
	description string
	ruleID      int
	shape       zone.Shape

	guard guard.ConstructorGuard
}

// NewCreateZoneCommand creates a command to register a delivery zone.
// The shape must already be a constructed polygon or circle variant; the zone
// aggregate re-validates everything on creation.
func NewCreateZoneCommand(
	zoneID kernel.UUID,
	merchantID kernel.UUID,
	name string,
	description string,
	ruleID int,
	shape zone.Shape,
) (CreateZoneCommand, error) {
	cmd := CreateZoneCommand{
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setZoneID(zoneID),
		cmd.setMerchantID(merchantID),
		cmd.setName(name),
		cmd.setRuleID(ruleID),
		cmd.setShape(shape),
	); err != nil {
		return CreateZoneCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateZoneCommand) Validate() error {
	return c.guard.Validate(ErrCreateZoneCommandIsNotConstructed)
}

// ZoneID returns the identifier assigned to the zone.
func (c CreateZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

// MerchantID returns the owning merchant's identifier.
func (c CreateZoneCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

// Name returns the zone's display name.
func (c CreateZoneCommand) Name() string {
	return c.name
}

// Description returns the zone's free-form description.
func (c CreateZoneCommand) Description() string {
	return c.description
}

// RuleID returns the dispatch rule to bind to the zone.
func (c CreateZoneCommand) RuleID() int {
	return c.ruleID
}

// Shape returns the zone's geometry.
func (c CreateZoneCommand) Shape() zone.Shape {
	return c.shape
}

func (c *CreateZoneCommand) setZoneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.zoneID = id
	return nil
}

func (c *CreateZoneCommand) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.merchantID = id
	return nil
}

func (c *CreateZoneCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateZoneCommand) setRuleID(ruleID int) error {
	if ruleID <= 0 {
		return errs.NewValueIsInvalidError("ruleID")
	}
	c.ruleID = ruleID
	return nil
}

func (c *CreateZoneCommand) setShape(shape zone.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	c.shape = shape
	return nil
}
